package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product — позиция корзины: метаданные товара из каталога + количество.
// Title/Price/Image для логики корзины непрозрачны и копируются как есть.
type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}

// MarshalJSON — цена уходит JSON-числом, как её отдаёт склад и как она лежала в слоте клиента.
// Читать умеем и число, и строку (это делает сам decimal).
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{
		plain: plain(p),
		Price: json.Number(p.Price.String()),
	})
}

// Stock — остаток товара, который сообщает сервис склада.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}
