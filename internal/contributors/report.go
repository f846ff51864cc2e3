package contributors

import (
	"fmt"
	"strings"
	"time"
)

const (
	reportRecentCommits = 10
	reportFilesChanged  = 25
)

// Report flattens a contributor into the brief handed to a text generator.
// recent is the output of CommitsBy for the same identity; only the newest
// entries are kept.
func Report(s *Stats, recent []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Contributor: %s\n\n", s.Identity)

	sb.WriteString("## Statistics\n")
	fmt.Fprintf(&sb, "- Commits: %d\n", s.CommitCount)
	fmt.Fprintf(&sb, "- Lines added: %d\n", s.Additions)
	fmt.Fprintf(&sb, "- Lines deleted: %d\n", s.Deletions)
	fmt.Fprintf(&sb, "- Lines changed: %d\n", s.Churn())
	fmt.Fprintf(&sb, "- Files touched: %d\n", len(s.FilesChanged))
	if first, last, ok := s.ActiveRange(); ok {
		fmt.Fprintf(&sb, "- Active: %s to %s\n",
			time.Unix(first, 0).UTC().Format(time.DateOnly),
			time.Unix(last, 0).UTC().Format(time.DateOnly))
	}
	fmt.Fprintf(&sb, "- Most recent commit: %s\n", Subject(s.MostRecentCommit()))

	sb.WriteString("\n## Most Modified Files\n")
	for _, f := range s.MostModifiedFiles {
		fmt.Fprintf(&sb, "- %s (%d commits)\n", f.Path, f.Count)
	}

	sb.WriteString("\n## File Type Distribution\n")
	for _, e := range s.FileTypeHistogram() {
		fmt.Fprintf(&sb, "- .%s: %d\n", e.Extension, e.Count)
	}

	sb.WriteString("\n## Largest Contributions\n")
	for _, c := range s.LargestCommits {
		fmt.Fprintf(&sb, "- +%d -%d: %s\n", c.Additions, c.Deletions, Subject(c.Message))
	}

	sb.WriteString("\n## Recent Commits\n")
	for i, line := range recent {
		if i == reportRecentCommits {
			break
		}
		fmt.Fprintf(&sb, "- %s\n", Subject(line))
	}

	sb.WriteString("\n## Files Changed\n")
	for i, p := range s.FilesChanged {
		if i == reportFilesChanged {
			fmt.Fprintf(&sb, "- ... and %d more\n", len(s.FilesChanged)-reportFilesChanged)
			break
		}
		fmt.Fprintf(&sb, "- %s\n", p)
	}

	return sb.String()
}

// Subject returns the first line of a commit message
func Subject(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
