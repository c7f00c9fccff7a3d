package logger

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	logger := Init("test-service", slog.LevelInfo)
	require.NotNil(t, logger)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestRunID_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// No run ID set
	assert.Empty(t, RunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", RunID(ctx))
}

func TestNewRunID(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC)
	id := NewRunID("NSE:2885", ts)

	if !strings.HasPrefix(id, "NSE:2885-") {
		t.Errorf("expected run id to start with 'NSE:2885-', got %s", id)
	}
	// Verify it contains the nano timestamp
	if !strings.Contains(id, "123456789") {
		t.Errorf("expected run id to contain nanoseconds, got %s", id)
	}
}

func TestLogWithRun(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, LogWithRun(ctx))

	attrs := LogWithRun(WithRunID(ctx, "abc-123"))
	require.Len(t, attrs, 1)
	attr, ok := attrs[0].(slog.Attr)
	require.True(t, ok)
	assert.Equal(t, "run_id", attr.Key)
	assert.Equal(t, "abc-123", attr.Value.String())
}
