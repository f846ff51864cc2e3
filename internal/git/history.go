package git

import (
	"io"
	"iter"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rohankatakam/merit/internal/errors"
)

// NoMessage replaces an empty commit message
const NoMessage = "No message"

// Commit is the subset of a commit object the analytics need. Tree hashes
// are carried instead of trees so that consumers decide whether to pay for
// a diff.
type Commit struct {
	Hash        plumbing.Hash
	AuthorName  string
	AuthorEmail string
	Timestamp   int64 // committer time, Unix seconds
	Message     string
	Tree        plumbing.Hash
	ParentTree  plumbing.Hash // zero for root commits
	NumParents  int
}

// IsRoot reports whether the commit has no parent
func (c Commit) IsRoot() bool {
	return c.NumParents == 0
}

// IsMerge reports whether the commit has more than one parent. Merges are
// still diffed against their first parent only.
func (c Commit) IsMerge() bool {
	return c.NumParents > 1
}

func (c Commit) ShortHash() string {
	return c.Hash.String()[:7]
}

// Traverse walks the ancestry of rev (HEAD when empty), newest commit time
// first. The sequence is lazy and single-use. If the start revision cannot be
// resolved or an object cannot be read it yields one RepositoryAccessError
// and stops.
func (r *Repository) Traverse(rev string) iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		from, err := r.Resolve(rev)
		if err != nil {
			yield(Commit{}, err)
			return
		}

		commits, err := r.repo.Log(&gogit.LogOptions{
			From:  from,
			Order: gogit.LogOrderCommitterTime,
		})
		if err != nil {
			yield(Commit{}, errors.RepositoryAccessErrorf(err, "failed to walk history from %s", from))
			return
		}
		defer commits.Close()

		for {
			c, err := commits.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Commit{}, errors.RepositoryAccessError(err, "failed to read commit"))
				return
			}

			record, err := r.record(c)
			if err != nil {
				yield(Commit{}, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

func (r *Repository) record(c *object.Commit) (Commit, error) {
	message := c.Message
	if message == "" {
		message = NoMessage
	}

	record := Commit{
		Hash:        c.Hash,
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		Timestamp:   c.Committer.When.Unix(),
		Message:     message,
		Tree:        c.TreeHash,
		NumParents:  len(c.ParentHashes),
	}

	if len(c.ParentHashes) > 0 {
		parent, err := r.repo.CommitObject(c.ParentHashes[0])
		if err != nil {
			return Commit{}, errors.RepositoryAccessErrorf(err, "failed to read parent %s of commit %s",
				c.ParentHashes[0], c.Hash)
		}
		record.ParentTree = parent.TreeHash
	}

	return record, nil
}
