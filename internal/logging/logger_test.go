package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Info("Chat failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "error=")
}

func TestNewWithWriter_ClipsUserInput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelDebug)

	long := strings.Repeat("ş", MaxMessageLen+50)
	logger.Debug("No intent matched", "text", long, "session_id", strings.Repeat("s", MaxMessageLen+1))

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("ş", MaxMessageLen)+"…")
	assert.NotContains(t, out, strings.Repeat("ş", MaxMessageLen+1))
	assert.Contains(t, out, strings.Repeat("s", MaxMessageLen+1), "only input attributes are clipped")
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Debug("evaluate", "expression", "1+1")
	assert.Empty(t, buf.String())
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
