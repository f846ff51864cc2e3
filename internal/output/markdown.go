package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWrap is the word-wrap width for rendered markdown
const DefaultWrap = 80

// Markdown writes provider output. On a terminal it is rendered with
// glamour; anything else (pipes, files, tests) gets the raw text.
func Markdown(w io.Writer, md string, width int) error {
	if !isTerminal(w) {
		_, err := fmt.Fprintln(w, strings.TrimRight(md, "\n"))
		return err
	}

	rendered, err := RenderMarkdown(md, width)
	if err != nil {
		_, err = fmt.Fprintln(w, strings.TrimRight(md, "\n"))
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}

// RenderMarkdown renders md with the terminal's light or dark style
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// TerminalWidth returns the width of w when it is a terminal, else
// DefaultWrap.
func TerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return min(width, 120)
		}
	}
	return DefaultWrap
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
