package notify

import (
	"context"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/metrics"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier — уведомления пишутся в лог (warn) и считаются в метриках.
// Транспорты дополнительно отдают текст уведомления своему клиенту.
type LogNotifier struct {
	log ports.Logger
}

func NewLogNotifier(log ports.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Notify(ctx context.Context, notice domain.Notice) {
	metrics.CartNotices.WithLabelValues(string(notice)).Inc()
	n.log.Warnf(ctx, "notice: %s", notice)
}
