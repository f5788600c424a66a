//go:build !otel || gopls

package ctxmeta

import "context"

// Без тега otel trace/span id в логи не попадают.
func TraceIDFromContext(context.Context) (string, bool) { return "", false }
func SpanIDFromContext(context.Context) (string, bool)  { return "", false }
