package contributors

import (
	stderrors "errors"
	"iter"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/rohankatakam/merit/internal/errors"
	"github.com/rohankatakam/merit/internal/git"
)

// DiffFunc computes the change between a commit's first parent tree and its
// own tree. git.Repository.DiffStat satisfies it.
type DiffFunc func(parentTree, tree plumbing.Hash) (git.DiffStat, error)

func logger() *slog.Logger {
	return slog.Default().With("component", "contributors")
}

// occurrence records that a commit by id touched path
type occurrence struct {
	id   Identity
	path string
}

// Aggregate consumes commits in order and builds a fresh summary per author.
// A commit whose diff fails with a DiffComputationError is still counted,
// with zero churn and no paths. Any error from the commit sequence aborts
// the walk and is returned unchanged. No commits yields an empty map.
func Aggregate(commits iter.Seq2[git.Commit, error], diff DiffFunc) (map[Identity]*Stats, error) {
	start := time.Now()

	stats := map[Identity]*Stats{}
	var occurrences []occurrence
	walked, roots, merges := 0, 0, 0

	for commit, err := range commits {
		if err != nil {
			return nil, err
		}
		walked++
		switch {
		case commit.IsRoot():
			roots++
		case commit.IsMerge():
			merges++
		}

		id := Identity{Name: commit.AuthorName, Email: commit.AuthorEmail}
		s, ok := stats[id]
		if !ok {
			s = newStats(id)
			stats[id] = s
		}

		s.CommitCount++
		s.Timeline = append(s.Timeline, TimelineEntry{
			Timestamp: commit.Timestamp,
			Message:   commit.Message,
		})

		delta, err := diff(commit.ParentTree, commit.Tree)
		if err != nil {
			if !stderrors.Is(err, errors.DiffComputation) {
				return nil, err
			}
			logger().Warn("skipping diff for commit",
				"commit", commit.ShortHash(),
				"error", err)
			delta = git.DiffStat{}
		}

		s.Additions += delta.Insertions
		s.Deletions += delta.Deletions

		for _, p := range delta.ChangedPaths {
			occurrences = append(occurrences, occurrence{id: id, path: p})

			if ext := Extension(p); ext != "" {
				s.FileTypes[ext]++
			}

			if _, dup := s.seen[p]; !dup {
				s.seen[p] = struct{}{}
				s.FilesChanged = append(s.FilesChanged, p)
			}
		}

		s.LargestCommits = insertLargest(s.LargestCommits, CommitSize{
			Additions: delta.Insertions,
			Deletions: delta.Deletions,
			Message:   commit.Message,
		})

		if s.LastCommit == "" {
			s.LastCommit = commit.Message
		}
	}

	finalizeModifiedFiles(stats, occurrences)

	logger().Debug("aggregated contributors",
		"commits", walked,
		"roots", roots,
		"merges", merges,
		"contributors", len(stats),
		"duration_ms", time.Since(start).Milliseconds())

	return stats, nil
}

// insertLargest appends c, re-sorts by total churn descending and keeps the
// top MaxLargestCommits. The sort is stable so the earlier entry wins a tie.
func insertLargest(largest []CommitSize, c CommitSize) []CommitSize {
	largest = append(largest, c)
	sort.SliceStable(largest, func(i, j int) bool {
		return largest[i].Total() > largest[j].Total()
	})
	if len(largest) > MaxLargestCommits {
		largest = largest[:MaxLargestCommits]
	}
	return largest
}

// finalizeModifiedFiles counts occurrences per contributor and path and
// keeps the MaxModifiedFiles most touched paths. Equal counts keep the
// order in which the paths were first seen.
func finalizeModifiedFiles(stats map[Identity]*Stats, occurrences []occurrence) {
	counts := map[Identity][]FileCount{}
	index := map[occurrence]int{}

	for _, o := range occurrences {
		i, ok := index[o]
		if !ok {
			i = len(counts[o.id])
			index[o] = i
			counts[o.id] = append(counts[o.id], FileCount{Path: o.path})
		}
		counts[o.id][i].Count++
	}

	for id, s := range stats {
		files := counts[id]
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Count > files[j].Count
		})
		if len(files) > MaxModifiedFiles {
			files = files[:MaxModifiedFiles]
		}
		if files == nil {
			files = []FileCount{}
		}
		s.MostModifiedFiles = files
	}
}

// Extension returns the text after the last dot of the final path element.
// A leading dot does not start an extension, so ".gitignore" has none, and
// a trailing dot yields none rather than an empty extension, so "foo." is
// not counted.
func Extension(p string) string {
	base := path.Base(p)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return base[i+1:]
}
