package ports

import (
	"context"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
)

// CartService — операции корзины, доступные транспортному слою.
type CartService interface {
	Cart(ctx context.Context) domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, productID int64, amount int) error
}
