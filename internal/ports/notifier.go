package ports

import (
	"context"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
)

// Notifier — доставка пользовательских уведомлений (аналог toast в клиенте).
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}
