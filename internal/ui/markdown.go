package ui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderMarkdown renders markdown for terminal display using glamour,
// word-wrapped to the terminal width. Falls back to the raw text in
// agent mode, when color is off, or when rendering fails.
func RenderMarkdown(markdown string) string {
	if IsAgentMode() || !ShouldUseColor() {
		return markdown
	}

	// Cap the wrap width; long lines are hard to read even on wide terminals.
	const maxReadableWidth = 100
	wrapWidth := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		wrapWidth = w
	}
	if wrapWidth > maxReadableWidth {
		wrapWidth = maxReadableWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
