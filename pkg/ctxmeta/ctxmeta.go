// Пакет ctxmeta — метаданные запроса к корзине, которые едут через context.Context:
// request_id, источник команды (http/kafka) и trace/span id для логов.
// HTTP-слой, консьюмер и логгер зависят только от него, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	KeyRequestID ctxKey = "request_id"
	KeySource    ctxKey = "source"
)

// Источники операций над корзиной.
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
)

// WithRequestID — кладёт request_id в контекст; пустой id игнорируется.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext — request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithSource — откуда пришла операция (SourceHTTP, SourceKafka).
func WithSource(ctx context.Context, source string) context.Context {
	return withString(ctx, KeySource, source)
}

func SourceFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeySource)
}

// LogFields — пары ключ/значение для структурного логгера; отсутствующие поля пропускаются.
func LogFields(ctx context.Context) []any {
	fields := make([]any, 0, 8)
	if v, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, string(KeyRequestID), v)
	}
	if v, ok := SourceFromContext(ctx); ok {
		fields = append(fields, string(KeySource), v)
	}
	if v, ok := TraceIDFromContext(ctx); ok {
		fields = append(fields, "trace_id", v)
	}
	if v, ok := SpanIDFromContext(ctx); ok {
		fields = append(fields, "span_id", v)
	}
	return fields
}

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if ctx == nil || value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
