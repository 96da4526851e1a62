package tui_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/minibot/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\n"))
	assert.Equal(t, 7, strings.Count(out, "\n"))
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer()
	require.NoError(t, err)

	out, err := render("Sonuç: **8**")
	require.NoError(t, err)
	assert.Contains(t, out, "Sonuç")
	assert.Contains(t, out, "8")
}

func TestIsInteractive(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, tui.IsInteractive(f))
	assert.False(t, tui.IsInteractive(nil))
}
