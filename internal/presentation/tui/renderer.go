package tui

import (
	"fmt"

	"github.com/aretw0/minibot/pkg/runner"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a ContentRenderer that renders replies as markdown.
// The style follows the terminal background.
func NewRenderer() (runner.ContentRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
