package git

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rohankatakam/merit/internal/errors"
)

// DiffStat summarizes the difference between two trees
type DiffStat struct {
	Insertions int
	Deletions  int
	// ChangedPaths holds one path per change in tree order: the new-side
	// path, or the old path for a deleted file.
	ChangedPaths []string
}

// DiffStat diffs parentTree against tree without rename detection. A zero
// parentTree marks a root commit and yields an empty stat without touching
// the object store.
func (r *Repository) DiffStat(parentTree, tree plumbing.Hash) (DiffStat, error) {
	if parentTree.IsZero() {
		return DiffStat{}, nil
	}

	from, err := r.repo.TreeObject(parentTree)
	if err != nil {
		return DiffStat{}, errors.DiffComputationErrorf(err, "failed to read tree %s", parentTree)
	}
	to, err := r.repo.TreeObject(tree)
	if err != nil {
		return DiffStat{}, errors.DiffComputationErrorf(err, "failed to read tree %s", tree)
	}

	changes, err := object.DiffTree(from, to)
	if err != nil {
		return DiffStat{}, errors.DiffComputationErrorf(err, "failed to diff %s..%s", parentTree, tree)
	}

	patch, err := changes.Patch()
	if err != nil {
		return DiffStat{}, errors.DiffComputationErrorf(err, "failed to build patch %s..%s", parentTree, tree)
	}

	var stat DiffStat
	for _, fs := range patch.Stats() {
		stat.Insertions += fs.Addition
		stat.Deletions += fs.Deletion
	}

	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		stat.ChangedPaths = append(stat.ChangedPaths, name)
	}

	return stat, nil
}

// CountDiffLines counts the added and deleted lines in a git diff
// Returns (linesAdded, linesDeleted)
func CountDiffLines(diff string) (int, int) {
	if diff == "" {
		return 0, 0
	}

	linesAdded := 0
	linesDeleted := 0

	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				linesAdded++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				linesDeleted++
			}
		}
	}

	return linesAdded, linesDeleted
}

// TruncateForPrompt bounds diff to maxBytes, cutting at a line boundary and
// marking the cut. maxBytes <= 0 disables truncation.
func TruncateForPrompt(diff string, maxBytes int) string {
	if maxBytes <= 0 || len(diff) <= maxBytes {
		return diff
	}

	cut := diff[:maxBytes]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut + "\n... (diff truncated)"
}

// SplitByFile breaks a multi-file unified diff into one FileDiff per
// "diff --git" section, preserving order.
func SplitByFile(diff string) []FileDiff {
	var (
		files   []FileDiff
		current *FileDiff
		body    strings.Builder
	)

	flush := func() {
		if current != nil {
			current.Diff = body.String()
			files = append(files, *current)
		}
		body.Reset()
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			flush()
			current = &FileDiff{Path: parseFilePath(strings.TrimRight(line, "\n"))}
		}
		if current != nil {
			body.WriteString(line)
		}
	}
	flush()

	return files
}

// parseFilePath extracts file path from "diff --git a/path b/path" line
func parseFilePath(line string) string {
	parts := strings.Fields(line)
	if len(parts) >= 4 {
		path := parts[3]
		if strings.HasPrefix(path, "b/") {
			return path[2:]
		}
		return path
	}
	if len(parts) == 3 {
		return strings.TrimPrefix(parts[2], "a/")
	}
	return ""
}
