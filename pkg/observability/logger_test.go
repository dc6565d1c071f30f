package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "info", Format: LogFormatText, Output: &buf, ServiceName: "cmt"})

		logger.Info("hello", "key", "value")

		assert.Contains(t, buf.String(), "hello")
		assert.Contains(t, buf.String(), "key=value")
		assert.Contains(t, buf.String(), "service=cmt")
	})

	t.Run("json output carries context ids", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "debug", Format: LogFormatJSON, Output: &buf})

		ctx := WithUserID(WithCorrelationID(context.Background(), "corr-1"), "user-1")
		logger.InfoContext(ctx, "scoped")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "scoped", entry["msg"])
		assert.Equal(t, "corr-1", entry[CorrelationIDKey])
		assert.Equal(t, "user-1", entry[UserIDKey])
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "warn", Output: &buf})

		logger.Info("dropped")
		logger.Warn("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestLogOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := LogOperation(NewLogger(LogConfig{Output: &buf}), "milestone.recompute", "milestone_id", "m1")

	logger.Info("done")

	assert.Contains(t, buf.String(), "operation=milestone.recompute")
	assert.Contains(t, buf.String(), "milestone_id=m1")
}

func TestContextIDs(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "")
	assert.NotEmpty(t, RequestIDFromContext(ctx))
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))

	ctx = NewRequestContext(context.Background(), "given")
	assert.Equal(t, "given", CorrelationIDFromContext(ctx))

	assert.Empty(t, UserIDFromContext(context.Background()))
}
