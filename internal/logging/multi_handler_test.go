package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(ctx context.Context, record slog.Record) error {
	return assert.AnError
}

func TestMultiHandler_LevelGate(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	multi := NewMultiHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	slog.New(multi).Info("stock running low", "product", "widget")

	assert.Contains(t, infoBuf.String(), "stock running low")
	assert.Empty(t, errBuf.String())
}

func TestMultiHandler_ContinuesPastFailingSink(t *testing.T) {
	failing := failingHandler{Handler: slog.NewJSONHandler(io.Discard, nil)}
	var buf bytes.Buffer
	multi := NewMultiHandler(failing, slog.NewJSONHandler(&buf, nil))

	record := slog.NewRecord(time.Now(), slog.LevelError, "payment confirm failed", 0)
	err := multi.Handle(context.Background(), record)

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "payment confirm failed")
}

func TestSetup_LevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	Setup()
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("LOG_LEVEL", "not-a-level")
	Setup()
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
}
