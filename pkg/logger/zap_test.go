package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/rocketshoes_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/logger"
)

func newObserved(level zapcore.Level) (*logger.ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.New(zap.New(core), false), logs
}

func TestZapLogger_AttachesRequestMeta(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	ctx := ctxmeta.WithRequestID(context.Background(), "req-42")
	ctx = ctxmeta.WithSource(ctx, ctxmeta.SourceHTTP)
	log.Warnf(ctx, "notice: %s", "Erro na adição do produto")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "notice: Erro na adição do produto", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "req-42", fields["request_id"])
	require.Equal(t, "http", fields["source"])
}

func TestZapLogger_NoMeta_NoFields(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	log.Infof(context.Background(), "cart hydrated entries=%d", 0)
	log.Debugf(context.TODO(), "inventory GET stock/%d", 1)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Empty(t, entries[0].Context)
	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestZapLogger_LevelFilter(t *testing.T) {
	log, logs := newObserved(zapcore.WarnLevel)

	log.Debugf(context.Background(), "inventory GET")
	log.Infof(context.Background(), "cart add ok")
	log.Errorf(context.Background(), "persist failed")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}
