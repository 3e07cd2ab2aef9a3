// Package render turns model output into terminal-friendly markdown.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const fallbackWidth = 80

// TerminalWidth returns the usable width of stdout, or 80 when stdout is not
// a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Markdown renders content with glamour using the style detected from the
// environment. A non-positive width falls back to TerminalWidth.
func Markdown(content string, width int) (string, error) {
	return renderWith(content, width, glamour.WithAutoStyle())
}

// Plain renders content without colors or terminal styling, for output that
// is piped or redirected.
func Plain(content string, width int) (string, error) {
	return renderWith(content, width, glamour.WithStandardStyle("notty"))
}

func renderWith(content string, width int, style glamour.TermRendererOption) (string, error) {
	if width <= 0 {
		width = TerminalWidth()
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return out, nil
}
