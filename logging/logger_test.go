package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T) (*SessionLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := NewSessionLogger(&Config{Level: slog.LevelDebug, Format: "json", Output: &buf})
	return logger, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSessionLoggerAttachesContext(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.WithSession("s1").WithAgent("writer").Info("turn completed", "turn", 3)

	entry := decodeLine(t, buf)
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "writer", entry["agent_id"])
	assert.Equal(t, float64(3), entry["turn"])
}

func TestSessionLoggerLogTurnError(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.WithSession("s1").LogTurn(2, "reviewer", 10*time.Millisecond, assert.AnError)

	entry := decodeLine(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "turn failed", entry["msg"])
	assert.Equal(t, "reviewer", entry["agent"])
}

func TestSessionLoggerHandoffFallback(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.WithSession("s1").LogHandoffFallback("triage", "billing")

	entry := decodeLine(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "triage", entry["source"])
	assert.Equal(t, "billing", entry["declared_target"])
}

func TestNoOpLoggerDiscards(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))
	l.Info("hello", "k", "v")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}
