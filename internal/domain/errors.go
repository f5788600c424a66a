package domain

import "errors"

var (
	// Бизнес-отказы: состояние не меняется, пользователь получает конкретное сообщение.
	ErrProductNotInCart = errors.New("product is not in cart")
	ErrOutOfStock       = errors.New("requested amount is out of stock")
	ErrStockUnavailable = errors.New("product stock is unavailable")

	// Сбои инфраструктуры.
	ErrInventoryLookup = errors.New("inventory lookup failed")
	ErrPersist         = errors.New("cart persist failed")

	// Невалидные входные данные.
	ErrInvalidCommand = errors.New("invalid cart command")
	ErrInvalidCart    = errors.New("cart validation failed")
)

// NoticeError — ошибка операции корзины вместе с сообщением, которое уже показано пользователю.
type NoticeError struct {
	Notice Notice
	Err    error
}

func (e *NoticeError) Error() string {
	if e.Err == nil {
		return e.Notice.String()
	}
	return e.Notice.String() + ": " + e.Err.Error()
}

func (e *NoticeError) Unwrap() error { return e.Err }

// NoticeOf — достаёт сообщение для пользователя из цепочки ошибок.
func NoticeOf(err error) (Notice, bool) {
	var ne *NoticeError
	if errors.As(err, &ne) {
		return ne.Notice, true
	}
	return "", false
}

// IsRejection — true для бизнес-отказов (в отличие от сбоев склада/хранилища).
func IsRejection(err error) bool {
	return errors.Is(err, ErrProductNotInCart) ||
		errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrStockUnavailable)
}
