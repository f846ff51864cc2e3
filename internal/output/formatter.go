package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/merit/internal/contributors"
	"github.com/rohankatakam/merit/internal/errors"
)

// Format selects how a contributor list is written
type Format string

const (
	FormatText Format = "text" // aligned table for terminals
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return DefaultFormat(), nil
	default:
		return "", errors.ValidationErrorf("unknown output format %q (expected text, json or yaml)", s)
	}
}

// DefaultFormat picks the format when --format is not given. MERIT_OUTPUT
// overrides; otherwise text.
func DefaultFormat() Format {
	if f := Format(os.Getenv("MERIT_OUTPUT")); f == FormatJSON || f == FormatYAML {
		return f
	}
	return FormatText
}

// Formatter writes a ranked contributor list
type Formatter interface {
	Format(w io.Writer, ranked []*contributors.Stats) error
}

// NewFormatter creates the formatter for f. Unknown formats fall back to
// text.
func NewFormatter(f Format) Formatter {
	switch f {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// TextFormatter prints one row per contributor
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, ranked []*contributors.Stats) error {
	styles := NewStyles(w)

	if len(ranked) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No contributors found"))
		return nil
	}

	fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("Contributors (%d)", len(ranked))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOMMITS\tADDED\tDELETED\tFILES\tTOP TYPES\tCONTRIBUTOR")
	for i, s := range ranked {
		fmt.Fprintf(tw, "%d\t%d\t+%d\t-%d\t%d\t%s\t%s\n",
			i+1, s.CommitCount, s.Additions, s.Deletions, len(s.FilesChanged), topTypes(s, 3), s.Identity)
	}
	return tw.Flush()
}

func topTypes(s *contributors.Stats, n int) string {
	hist := s.FileTypeHistogram()
	if len(hist) == 0 {
		return "-"
	}
	if len(hist) > n {
		hist = hist[:n]
	}
	parts := make([]string, len(hist))
	for i, e := range hist {
		parts[i] = e.Extension
	}
	return strings.Join(parts, ",")
}

// JSONFormatter writes the full statistics as an indented JSON array
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, ranked []*contributors.Stats) error {
	if ranked == nil {
		ranked = []*contributors.Stats{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ranked); err != nil {
		return fmt.Errorf("failed to encode contributors as JSON: %w", err)
	}
	return nil
}

// YAMLFormatter writes the full statistics as a YAML sequence
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(w io.Writer, ranked []*contributors.Stats) error {
	if ranked == nil {
		ranked = []*contributors.Stats{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ranked); err != nil {
		return fmt.Errorf("failed to encode contributors as YAML: %w", err)
	}
	return enc.Close()
}

// Detail prints one contributor's statistics for the terminal
func Detail(w io.Writer, s *contributors.Stats) {
	styles := NewStyles(w)

	fmt.Fprintln(w, styles.Header.Render(s.Identity.String()))
	fmt.Fprintf(w, "Commits: %d   Lines: %s %s   Files: %d\n",
		s.CommitCount,
		styles.Added.Render(fmt.Sprintf("+%d", s.Additions)),
		styles.Deleted.Render(fmt.Sprintf("-%d", s.Deletions)),
		len(s.FilesChanged))
	if last := contributors.Subject(s.MostRecentCommit()); last != "" {
		fmt.Fprintf(w, "Most recent: %s\n", last)
	}

	if len(s.MostModifiedFiles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Section.Render("Most modified files"))
		for _, fc := range s.MostModifiedFiles {
			fmt.Fprintf(w, "  %3d  %s\n", fc.Count, fc.Path)
		}
	}

	if langs := s.LanguageBreakdown(); len(langs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Section.Render("Languages"))
		for _, l := range langs {
			fmt.Fprintf(w, "  %3d  %s\n", l.Count, l.Extension)
		}
	}

	if len(s.LargestCommits) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Section.Render("Largest commits"))
		for _, c := range s.LargestCommits {
			fmt.Fprintf(w, "  %s %s  %s\n",
				styles.Added.Render(fmt.Sprintf("+%d", c.Additions)),
				styles.Deleted.Render(fmt.Sprintf("-%d", c.Deletions)),
				contributors.Subject(c.Message))
		}
	}
}

// CommitLines prints the lines produced by contributors.CommitsBy
func CommitLines(w io.Writer, id contributors.Identity, lines []string) {
	styles := NewStyles(w)

	fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("Commits by %s (%d)", id, len(lines))))
	if len(lines) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No commits found"))
		return
	}
	for _, line := range lines {
		fmt.Fprintln(w, contributors.Subject(line))
	}
}
