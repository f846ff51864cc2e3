package git

import (
	stderrors "errors"
	"log/slog"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/rohankatakam/merit/internal/errors"
)

// Repository is a read handle on a git object store plus, when it has one,
// the working tree around it.
type Repository struct {
	repo   *gogit.Repository
	root   string
	logger *slog.Logger
}

// Open opens the repository containing path, walking up to find .git
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.RepositoryAccessErrorf(err, "failed to open repository at %s", path)
	}

	root := ""
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return New(repo, root), nil
}

// New wraps an already-open go-git repository. root is the working tree
// directory used by the working-tree operations; it may be empty for bare
// or in-memory repositories.
func New(repo *gogit.Repository, root string) *Repository {
	return &Repository{
		repo:   repo,
		root:   root,
		logger: slog.Default().With("component", "git"),
	}
}

// Root returns the working tree directory, or "" when there is none
func (r *Repository) Root() string {
	return r.root
}

// Head returns the commit HEAD points at
func (r *Repository) Head() (plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, errors.RepositoryAccessError(err, "repository has no commits yet")
	}
	if err != nil {
		return plumbing.ZeroHash, errors.RepositoryAccessError(err, "failed to resolve HEAD")
	}
	return ref.Hash(), nil
}

// Resolve turns a revision (branch, tag, hash, HEAD~2, ...) into a commit
// hash. An empty revision means HEAD.
func (r *Repository) Resolve(rev string) (plumbing.Hash, error) {
	if rev == "" {
		return r.Head()
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, errors.RepositoryAccessErrorf(err, "failed to resolve revision %q", rev)
	}
	return *hash, nil
}
