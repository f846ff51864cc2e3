// Package gittest builds small repositories for tests, in memory or on disk.
package gittest

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// Epoch is the commit time of the first commit made through a Repo. Each
// following commit is one hour later, so history order is deterministic.
var Epoch = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// Repo is a repository under construction
type Repo struct {
	t     testing.TB
	Git   *gogit.Repository
	wt    *gogit.Worktree
	clock time.Time
}

// New creates an empty in-memory repository
func New(t testing.TB) *Repo {
	t.Helper()

	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	return wrap(t, repo)
}

// NewOnDisk creates an empty repository in a temporary directory and
// returns it together with the directory.
func NewOnDisk(t testing.TB) (*Repo, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	return wrap(t, repo), dir
}

func wrap(t testing.TB, repo *gogit.Repository) *Repo {
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &Repo{t: t, Git: repo, wt: wt, clock: Epoch}
}

// Write creates or overwrites path in the working tree and stages it
func (r *Repo) Write(path, content string) *Repo {
	r.t.Helper()

	require.NoError(r.t, util.WriteFile(r.wt.Filesystem, path, []byte(content), 0644))
	_, err := r.wt.Add(path)
	require.NoError(r.t, err)
	return r
}

// WriteUnstaged changes the working tree without touching the index
func (r *Repo) WriteUnstaged(path, content string) *Repo {
	r.t.Helper()

	require.NoError(r.t, util.WriteFile(r.wt.Filesystem, path, []byte(content), 0644))
	return r
}

// Remove deletes path from the working tree and the index
func (r *Repo) Remove(path string) *Repo {
	r.t.Helper()

	_, err := r.wt.Remove(path)
	require.NoError(r.t, err)
	return r
}

// Commit records the index as authored and committed by name <email>
func (r *Repo) Commit(name, email, message string) plumbing.Hash {
	r.t.Helper()

	when := r.clock
	r.clock = r.clock.Add(time.Hour)
	return r.CommitAt(name, email, message, when)
}

// CommitAt is Commit with an explicit timestamp
func (r *Repo) CommitAt(name, email, message string, when time.Time) plumbing.Hash {
	r.t.Helper()

	sig := &object.Signature{Name: name, Email: email, When: when}
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash
}

// Merge records a commit with explicit parents, first parent first
func (r *Repo) Merge(name, email, message string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	when := r.clock
	r.clock = r.clock.Add(time.Hour)

	sig := &object.Signature{Name: name, Email: email, When: when}
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash
}

// Lines returns n numbered lines, handy for sizing diffs
func Lines(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		sb.WriteString("line ")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}
