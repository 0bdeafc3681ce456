package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNewWithWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "info", &buf)

	l.Info("cart updated", slog.Int("item_count", 3))

	m := logLine(t, &buf)
	assert.Equal(t, "storefront", m["service"])
	assert.Equal(t, "cart updated", m["msg"])
	assert.Equal(t, float64(3), m["item_count"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "warn", &buf)

	l.Info("should be dropped")
	assert.Zero(t, buf.Len())

	l.Warn("should appear")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "chatty", &buf)

	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Info("kept")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-1")
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}

func TestSessionID_RoundTrip(t *testing.T) {
	ctx := WithSessionID(context.Background(), "sess-1")
	assert.Equal(t, "sess-1", SessionIDFromContext(ctx))
	assert.Equal(t, "", SessionIDFromContext(context.Background()))
}

func TestWithContext_InjectsIDs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("storefront", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithSessionID(ctx, "sess-1")

	WithContext(ctx, l).Info("hello")

	m := logLine(t, &buf)
	assert.Equal(t, "corr-1", m["correlation_id"])
	assert.Equal(t, "sess-1", m["session_id"])
}

func TestFromContext_Fallback(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	l := NewWithWriter("storefront", "info", &bytes.Buffer{})
	ctx := NewContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))
}
