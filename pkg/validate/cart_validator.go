package validate

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
)

// Проверка, что CartValidator удовлетворяет интерфейсу CartValidator.
var _ ports.CartValidator = (*CartValidator)(nil)

// ErrInvalidCart — базовая (sentinel error) ошибка валидации корзины.
var ErrInvalidCart = domain.ErrInvalidCart

// CartValidator — проверка инвариантов корзины.
type CartValidator struct{}

// NewCartValidator — конструктор CartValidator.
// Возвращает ErrInvalidCart (с обёрнутой причиной) при любой проблеме.
func NewCartValidator() *CartValidator { return &CartValidator{} }

// Validate — ID > 0, Amount >= 1, не более одной позиции на ID.
func (v *CartValidator) Validate(_ context.Context, cart domain.Cart) error {
	seen := make(map[int64]int, len(cart))
	for i := range cart {
		p := &cart[i]
		if p.ID <= 0 {
			return fmt.Errorf("%w: [%d].id должен быть положительным", ErrInvalidCart, i)
		}
		if p.Amount < 1 {
			return fmt.Errorf("%w: [%d].amount должен быть >= 1 (id=%d)", ErrInvalidCart, i, p.ID)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: [%d].price должен быть неотрицательным (id=%d)", ErrInvalidCart, i, p.ID)
		}
		if j, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: id=%d повторяется в позициях %d и %d", ErrInvalidCart, p.ID, j, i)
		}
		seen[p.ID] = i
	}
	return nil
}
