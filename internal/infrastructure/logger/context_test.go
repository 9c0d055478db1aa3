package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newObservedLogger() (*zap.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	encoderConfig := zapcore.EncoderConfig{
		MessageKey: "msg",
		LevelKey:   "level",
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core), buf
}

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), logger)

	assert.NotNil(t, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())

	// Should return a no-op logger rather than nil
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	newCtx, newLogger := WithRequestID(context.Background(), logger, "req-123")

	assert.NotNil(t, newLogger)
	assert.Equal(t, "req-123", GetRequestID(newCtx))
}

func TestWithPrincipal(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	newCtx, newLogger := WithPrincipal(context.Background(), logger, "back-office")

	assert.NotNil(t, newLogger)
	assert.Equal(t, "back-office", GetPrincipal(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestL_EnrichesWithRequestID(t *testing.T) {
	logger, buf := newObservedLogger()

	ctx := WithContext(context.Background(), logger)
	ctx = context.WithValue(ctx, RequestIDKey, "req-789")

	L(ctx).Info("allocation posted")

	out := buf.String()
	assert.Contains(t, out, "allocation posted")
	assert.Contains(t, out, "req-789")
}

func TestL_NoLoggerInContext(t *testing.T) {
	// Must not panic when the context carries no logger
	L(context.Background()).Info("dropped")
}

func TestWithLogger(t *testing.T) {
	logger, buf := newObservedLogger()

	WithLogger(context.Background(), logger).Warn("stock below advances")

	assert.Contains(t, buf.String(), "stock below advances")
}

func TestContextLogger_With(t *testing.T) {
	logger, buf := newObservedLogger()

	cl := WithLogger(context.Background(), logger).With(zap.String("invoice", "INV-2026-00042"))
	cl.Info("invoice generated")

	out := buf.String()
	assert.Contains(t, out, "invoice generated")
}

func TestContextLogger_Zap(t *testing.T) {
	logger, _ := newObservedLogger()

	zl := WithLogger(context.Background(), logger).Zap()
	assert.NotNil(t, zl)
}
