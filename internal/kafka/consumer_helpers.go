package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/metrics"
)

const (
	// headerRequestID — заголовок сообщения со сквозным id (тот же, что в HTTP).
	headerRequestID = "X-Request-ID"
	tracerName      = "rocketshoes_cart/kafka"
)

// headerCarrier — заголовки сообщения как носитель trace-контекста (traceparent от продюсера).
type headerCarrier struct{ msg *kafka.Message }

func (h headerCarrier) Get(key string) string {
	for _, hd := range h.msg.Headers {
		if hd.Key == key {
			return string(hd.Value)
		}
	}
	return ""
}

func (h headerCarrier) Set(key, value string) {
	for i := range h.msg.Headers {
		if h.msg.Headers[i].Key == key {
			h.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	h.msg.Headers = append(h.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (h headerCarrier) Keys() []string {
	keys := make([]string, 0, len(h.msg.Headers))
	for _, hd := range h.msg.Headers {
		keys = append(keys, hd.Key)
	}
	return keys
}

// handleMessage применяет команду и решает, коммитить ли оффсет.
// Операции корзины не ретраятся: любой исход, кроме остановки приложения, финален.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, headerCarrier{msg: msg})
	msgCtx, span := otel.Tracer(tracerName).Start(msgCtx, "cart command",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination", topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer span.End()

	msgCtx = ctxmeta.WithSource(msgCtx, ctxmeta.SourceKafka)
	msgCtx = ctxmeta.WithRequestID(msgCtx, requestID(msg))

	ctxTimeout, cancel := context.WithTimeout(msgCtx, c.processTimeout)
	err := c.cart.ApplyCommand(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case ctx.Err() != nil:
		// остановка посреди команды: оффсет не двигаем
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(msgCtx, "command interrupted offset=%d: %v (left uncommitted)", msg.Offset, err)
		return false
	case errors.Is(err, domain.ErrInvalidCommand):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(msgCtx, "invalid command offset=%d: %v (skipped)", msg.Offset, err)
		return true
	case domain.IsRejection(err):
		// отказ уже доведён до пользователя уведомлением
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		c.log.Infof(msgCtx, "command rejected offset=%d: %v", msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(msgCtx, "command failed offset=%d: %v (committed, not retried)", msg.Offset, err)
		return true
	}
}

// requestID — id из заголовка сообщения, иначе координаты сообщения в топике.
func requestID(msg *kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == headerRequestID && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
}

// commitSafely — коммит оффсета; ошибка только логируется.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждет backoff или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// nextBackoff — удвоение с потолком retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайная.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}
