package git

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/merit/internal/errors"
	"github.com/rohankatakam/merit/internal/gittest"
)

func collect(t *testing.T, r *Repository, rev string) []Commit {
	t.Helper()

	var commits []Commit
	for c, err := range r.Traverse(rev) {
		require.NoError(t, err)
		commits = append(commits, c)
	}
	return commits
}

func TestTraverse_NewestFirst(t *testing.T) {
	tr := gittest.New(t)
	tr.Write("a.go", "package a\n")
	first := tr.Commit("Alice", "alice@example.com", "first")
	tr.Write("b.go", "package b\n")
	second := tr.Commit("Bob", "bob@example.com", "second")
	tr.Write("a.go", "package a\n\nvar X = 1\n")
	third := tr.Commit("Alice", "alice@example.com", "third")

	commits := collect(t, New(tr.Git, ""), "")
	require.Len(t, commits, 3)

	assert.Equal(t, []plumbing.Hash{third, second, first},
		[]plumbing.Hash{commits[0].Hash, commits[1].Hash, commits[2].Hash})

	newest := commits[0]
	assert.Equal(t, "Alice", newest.AuthorName)
	assert.Equal(t, "alice@example.com", newest.AuthorEmail)
	assert.Equal(t, "third", newest.Message)
	assert.Equal(t, gittest.Epoch.Unix()+2*3600, newest.Timestamp)
	assert.Equal(t, 1, newest.NumParents)
	assert.Equal(t, commits[1].Tree, newest.ParentTree)
	assert.Equal(t, newest.Hash.String()[:7], newest.ShortHash())

	root := commits[2]
	assert.True(t, root.IsRoot())
	assert.True(t, root.ParentTree.IsZero())
	assert.False(t, root.Tree.IsZero())
}

func TestTraverse_FromRevision(t *testing.T) {
	tr := gittest.New(t)
	tr.Write("a.txt", "1\n")
	first := tr.Commit("Alice", "alice@example.com", "first")
	tr.Write("a.txt", "2\n")
	second := tr.Commit("Alice", "alice@example.com", "second")
	tr.Write("a.txt", "3\n")
	tr.Commit("Alice", "alice@example.com", "third")

	commits := collect(t, New(tr.Git, ""), second.String())
	require.Len(t, commits, 2)
	assert.Equal(t, second, commits[0].Hash)
	assert.Equal(t, first, commits[1].Hash)

	commits = collect(t, New(tr.Git, ""), "HEAD~2")
	require.Len(t, commits, 1)
	assert.Equal(t, first, commits[0].Hash)
}

func TestTraverse_MergeUsesFirstParent(t *testing.T) {
	tr := gittest.New(t)
	tr.Write("a.txt", "a\n")
	base := tr.Commit("Alice", "alice@example.com", "base")
	tr.Write("b.txt", "b\n")
	side := tr.Commit("Bob", "bob@example.com", "side")
	tr.Write("c.txt", "c\n")
	merge := tr.Merge("Alice", "alice@example.com", "merge", side, base)

	commits := collect(t, New(tr.Git, ""), "")
	require.Len(t, commits, 3)

	m := commits[0]
	assert.Equal(t, merge, m.Hash)
	assert.True(t, m.IsMerge())
	assert.Equal(t, 2, m.NumParents)
	assert.Equal(t, commits[1].Tree, m.ParentTree)
}

func TestTraverse_EmptyMessage(t *testing.T) {
	tr := gittest.New(t)
	tr.Write("a.txt", "a\n")
	tr.Commit("Alice", "alice@example.com", "")

	commits := collect(t, New(tr.Git, ""), "")
	require.Len(t, commits, 1)
	assert.Equal(t, NoMessage, commits[0].Message)
}

func TestTraverse_UnbornHead(t *testing.T) {
	tr := gittest.New(t)

	var errs []error
	for _, err := range New(tr.Git, "").Traverse("") {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errors.RepositoryAccess)
	assert.True(t, errors.IsFatal(errs[0]))
}

func TestTraverse_UnknownRevision(t *testing.T) {
	tr := gittest.New(t)
	tr.Write("a.txt", "a\n")
	tr.Commit("Alice", "alice@example.com", "only")

	var errs []error
	for _, err := range New(tr.Git, "").Traverse("no-such-branch") {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errors.RepositoryAccess)
}

func TestTraverse_StopsWhenConsumerBreaks(t *testing.T) {
	tr := gittest.New(t)
	for i := 0; i < 5; i++ {
		tr.Write("a.txt", gittest.Lines(i+1))
		tr.Commit("Alice", "alice@example.com", "commit")
	}

	seen := 0
	for _, err := range New(tr.Git, "").Traverse("") {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestTraverse_Restartable(t *testing.T) {
	tr := gittest.New(t)
	tr.Write("a.txt", "a\n")
	tr.Commit("Alice", "alice@example.com", "one")
	tr.Write("a.txt", "b\n")
	tr.Commit("Alice", "alice@example.com", "two")

	r := New(tr.Git, "")
	assert.Equal(t, collect(t, r, ""), collect(t, r, ""))
}
