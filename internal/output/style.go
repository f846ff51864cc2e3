package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the text styles used by the terminal formatters
type Styles struct {
	Header  lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
	Added   lipgloss.Style
	Deleted lipgloss.Style
}

// NewStyles builds styles for w. Writers that are not a color terminal get
// plain text.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)

	primary := lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	muted := lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	return Styles{
		Header:  r.NewStyle().Bold(true).Foreground(primary),
		Section: r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(muted),
		Added:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"}),
		Deleted: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF5555"}),
	}
}
