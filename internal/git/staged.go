package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rohankatakam/merit/internal/errors"
)

// FileDiff is the diff of a single path in the working tree
type FileDiff struct {
	Path string
	Diff string
}

const newFilePrefix = "New file:\n"

// LineCounts returns the lines added and deleted by the change. An untracked
// file counts every content line as added.
func (f FileDiff) LineCounts() (added, deleted int) {
	if content, ok := strings.CutPrefix(f.Diff, newFilePrefix); ok {
		if content == "" {
			return 0, 0
		}
		return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1, 0
	}
	return CountDiffLines(f.Diff)
}

// pendingChanges splits the working tree status into untracked paths and
// whether any tracked file differs from HEAD. untracked is sorted.
func (r *Repository) pendingChanges() (untracked []string, tracked bool, err error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, false, errors.RepositoryAccessError(err, "repository has no working tree")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, false, errors.RepositoryAccessError(err, "failed to read working tree status")
	}

	for path, fs := range status {
		switch {
		case fs.Worktree == gogit.Untracked:
			untracked = append(untracked, path)
		case fs.Worktree != gogit.Unmodified || fs.Staging != gogit.Unmodified:
			tracked = true
		}
	}
	sort.Strings(untracked)

	if len(untracked) == 0 && !tracked {
		return nil, false, errors.ValidationError("no changes to commit")
	}
	return untracked, tracked, nil
}

// Changes returns the full working tree diff against HEAD, with each
// untracked file rendered as "New file: <path>" followed by its content.
func (r *Repository) Changes(ctx context.Context) (string, error) {
	untracked, tracked, err := r.pendingChanges()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, path := range untracked {
		content, err := os.ReadFile(filepath.Join(r.root, path))
		if err != nil {
			r.logger.Debug("skipping unreadable untracked file", "path", path, "error", err)
			continue
		}
		fmt.Fprintf(&sb, "New file: %s\n%s\n", path, content)
	}

	if tracked {
		diff, err := r.trackedDiff(ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(diff)
	}

	return sb.String(), nil
}

// FileDiffs returns one entry per changed path: untracked files carry their
// whole content, tracked files their own section of the HEAD diff.
func (r *Repository) FileDiffs(ctx context.Context) ([]FileDiff, error) {
	untracked, tracked, err := r.pendingChanges()
	if err != nil {
		return nil, err
	}

	var files []FileDiff
	for _, path := range untracked {
		content, err := os.ReadFile(filepath.Join(r.root, path))
		if err != nil {
			r.logger.Debug("skipping unreadable untracked file", "path", path, "error", err)
			continue
		}
		files = append(files, FileDiff{Path: path, Diff: newFilePrefix + string(content)})
	}

	if tracked {
		diff, err := r.trackedDiff(ctx)
		if err != nil {
			return nil, err
		}
		files = append(files, SplitByFile(diff)...)
	}

	return files, nil
}

// trackedDiff runs git diff for tracked files, staged and unstaged together.
// Before the first commit there is no HEAD, so the index is diffed instead.
func (r *Repository) trackedDiff(ctx context.Context) (string, error) {
	args := []string{"diff", "--no-color", "HEAD"}
	if _, err := r.repo.Head(); err != nil {
		args = []string{"diff", "--no-color", "--cached"}
	}

	out, err := r.git(ctx, args...)
	if err != nil {
		return "", errors.RepositoryAccessError(err, "git diff failed")
	}
	return out, nil
}

// StageAll adds every change in the working tree to the index, including
// untracked files and deletions.
func (r *Repository) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.RepositoryAccessError(err, "repository has no working tree")
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return errors.RepositoryAccessError(err, "failed to stage changes")
	}
	return nil
}

// Commit records the index as a new commit. It shells out to git so the
// user's hooks and signing configuration apply; sign forces -S.
func (r *Repository) Commit(ctx context.Context, message string, sign bool) error {
	if strings.TrimSpace(message) == "" {
		return errors.ValidationError("commit message is empty")
	}

	args := []string{"commit"}
	if sign {
		args = append(args, "-S")
	}
	args = append(args, "-m", message)

	if _, err := r.git(ctx, args...); err != nil {
		return errors.RepositoryAccessError(err, "failed to create commit")
	}

	r.logger.Info("commit created", "signed", sign)
	return nil
}

func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	if r.root == "" {
		return "", fmt.Errorf("git %s: repository has no working tree", args[0])
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (stderr: %s)", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
