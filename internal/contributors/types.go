// Package contributors reduces a commit history into per-author activity
// summaries.
package contributors

import (
	"fmt"
	"sort"
)

const (
	// MaxLargestCommits bounds Stats.LargestCommits
	MaxLargestCommits = 5
	// MaxModifiedFiles bounds Stats.MostModifiedFiles
	MaxModifiedFiles = 10
)

// Identity is an author as recorded in commits. Two identities are the same
// only if name and email match exactly.
type Identity struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// TimelineEntry is one commit in a contributor's timeline
type TimelineEntry struct {
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Message   string `json:"message" yaml:"message"`
}

// CommitSize is the churn of a single commit
type CommitSize struct {
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
	Message   string `json:"message" yaml:"message"`
}

// Total returns additions plus deletions
func (c CommitSize) Total() int {
	return c.Additions + c.Deletions
}

// FileCount is how many of a contributor's commits touched a path
type FileCount struct {
	Path  string `json:"path" yaml:"path"`
	Count int    `json:"count" yaml:"count"`
}

// ExtensionCount is one row of the file type histogram
type ExtensionCount struct {
	Extension string `json:"extension" yaml:"extension"`
	Count     int    `json:"count" yaml:"count"`
}

// Stats is the activity summary of one contributor
type Stats struct {
	Identity `yaml:",inline"`

	CommitCount int `json:"commit_count" yaml:"commit_count"`
	Additions   int `json:"additions" yaml:"additions"`
	Deletions   int `json:"deletions" yaml:"deletions"`

	// FilesChanged lists every path the contributor touched, in the order
	// first seen.
	FilesChanged []string `json:"files_changed" yaml:"files_changed"`

	// LastCommit is the message of the first commit seen for this
	// contributor. See MostRecentCommit.
	LastCommit string `json:"last_commit" yaml:"last_commit"`

	FileTypes         map[string]int  `json:"file_types" yaml:"file_types"`
	Timeline          []TimelineEntry `json:"timeline" yaml:"timeline"`
	LargestCommits    []CommitSize    `json:"largest_commits" yaml:"largest_commits"`
	MostModifiedFiles []FileCount     `json:"most_modified_files" yaml:"most_modified_files"`

	seen map[string]struct{}
}

func newStats(id Identity) *Stats {
	return &Stats{
		Identity:     id,
		FilesChanged: []string{},
		FileTypes:    map[string]int{},
		Timeline:     []TimelineEntry{},
		seen:         map[string]struct{}{},
	}
}

// MostRecentCommit returns LastCommit. It is the contributor's newest
// message only when the stats were built from a newest-first walk, which is
// what git.Repository.Traverse produces.
func (s *Stats) MostRecentCommit() string {
	return s.LastCommit
}

// Churn returns additions plus deletions
func (s *Stats) Churn() int {
	return s.Additions + s.Deletions
}

// ActiveRange returns the earliest and latest commit timestamps in the
// timeline. It does not depend on traversal order. ok is false for an empty
// timeline.
func (s *Stats) ActiveRange() (first, last int64, ok bool) {
	if len(s.Timeline) == 0 {
		return 0, 0, false
	}
	first, last = s.Timeline[0].Timestamp, s.Timeline[0].Timestamp
	for _, e := range s.Timeline[1:] {
		first = min(first, e.Timestamp)
		last = max(last, e.Timestamp)
	}
	return first, last, true
}

// FileTypeHistogram returns FileTypes sorted by count, then extension
func (s *Stats) FileTypeHistogram() []ExtensionCount {
	hist := make([]ExtensionCount, 0, len(s.FileTypes))
	for ext, n := range s.FileTypes {
		hist = append(hist, ExtensionCount{Extension: ext, Count: n})
	}
	sort.Slice(hist, func(i, j int) bool {
		if hist[i].Count != hist[j].Count {
			return hist[i].Count > hist[j].Count
		}
		return hist[i].Extension < hist[j].Extension
	})
	return hist
}
