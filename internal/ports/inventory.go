package ports

import (
	"context"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
)

// InventoryLookup — удалённый сервис склада и каталога (только чтение).
type InventoryLookup interface {
	Stock(ctx context.Context, productID int64) (domain.Stock, error)
	Product(ctx context.Context, productID int64) (domain.Product, error)
}
