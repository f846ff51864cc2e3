package contributors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	s := newStats(ann)
	s.CommitCount = 2
	s.Additions = 11
	s.Deletions = 3
	s.LastCommit = "Add parser\n\nLonger body"
	s.FileTypes = map[string]int{"py": 2, "md": 1}
	s.Timeline = []TimelineEntry{
		{Timestamp: 1_700_086_400, Message: "Add parser"},
		{Timestamp: 1_700_000_000, Message: "Initial"},
	}
	s.LargestCommits = []CommitSize{{Additions: 11, Deletions: 3, Message: "Add parser\n\nLonger body"}}
	s.MostModifiedFiles = []FileCount{{Path: "a.py", Count: 2}}
	for i := 0; i < 30; i++ {
		s.FilesChanged = append(s.FilesChanged, fmt.Sprintf("f%02d.py", i))
	}

	recent := []string{"2023-11-15 22:13:20 UTC: Add parser\n\nLonger body", "2023-11-14 22:13:20 UTC: Initial"}
	report := Report(s, recent)

	for _, section := range []string{
		"## Statistics", "## Most Modified Files", "## File Type Distribution",
		"## Largest Contributions", "## Recent Commits", "## Files Changed",
	} {
		assert.Contains(t, report, section)
	}

	assert.Contains(t, report, "Contributor: Ann <ann@x.com>")
	assert.Contains(t, report, "- Commits: 2\n")
	assert.Contains(t, report, "- Lines changed: 14\n")
	assert.Contains(t, report, "- Active: 2023-11-14 to 2023-11-15\n")
	assert.Contains(t, report, "- Most recent commit: Add parser\n")
	assert.Contains(t, report, "- a.py (2 commits)\n")
	assert.Contains(t, report, "- .py: 2\n- .md: 1\n")
	assert.Contains(t, report, "- +11 -3: Add parser\n")
	assert.Contains(t, report, "- 2023-11-14 22:13:20 UTC: Initial\n")
	assert.Contains(t, report, "- ... and 5 more\n")
	assert.NotContains(t, report, "Longer body")
	assert.Equal(t, reportFilesChanged, strings.Count(report, ".py\n"))
}

func TestReport_ActiveRangeIgnoresTimelineOrder(t *testing.T) {
	s := newStats(ann)
	s.CommitCount = 3
	s.Timeline = []TimelineEntry{
		{Timestamp: 1_700_000_000, Message: "middle"},
		{Timestamp: 1_700_172_800, Message: "newest"},
		{Timestamp: 1_699_913_600, Message: "oldest"},
	}

	first, last, ok := s.ActiveRange()
	assert.True(t, ok)
	assert.Equal(t, int64(1_699_913_600), first)
	assert.Equal(t, int64(1_700_172_800), last)

	assert.Contains(t, Report(s, nil), "- Active: 2023-11-13 to 2023-11-16\n")
}

func TestActiveRange_Empty(t *testing.T) {
	_, _, ok := newStats(ann).ActiveRange()
	assert.False(t, ok)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "fix: thing", Subject("fix: thing\n\nbody"))
	assert.Equal(t, "one line", Subject("  one line\n"))
	assert.Equal(t, "", Subject(""))
}
