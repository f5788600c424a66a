package ports

import "context"

// CartStorage — персистентный слот «ключ → значение», в котором лежит сериализованная корзина.
// Слот перезаписывается целиком; при конкурентной записи побеждает последний.
type CartStorage interface {
	// Load — вернуть содержимое слота; (nil, false, nil), если слота ещё нет.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save — перезаписать слот целиком.
	Save(ctx context.Context, key string, value []byte) error
}
