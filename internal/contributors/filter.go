package contributors

import (
	"iter"
	"time"

	"github.com/rohankatakam/merit/internal/git"
)

// CommitLineLayout is the timestamp layout of CommitsBy lines
const CommitLineLayout = "2006-01-02 15:04:05"

// CommitsBy returns one formatted line per commit authored by exactly id, in
// traversal order. It walks commits itself and shares nothing with
// Aggregate. An identity that never appears yields an empty slice.
func CommitsBy(id Identity, commits iter.Seq2[git.Commit, error]) ([]string, error) {
	lines := []string{}
	for commit, err := range commits {
		if err != nil {
			return nil, err
		}
		if commit.AuthorName == id.Name && commit.AuthorEmail == id.Email {
			lines = append(lines, FormatCommitLine(commit))
		}
	}
	return lines, nil
}

// FormatCommitLine renders "<YYYY-MM-DD HH:MM:SS> UTC: <message>"
func FormatCommitLine(c git.Commit) string {
	return time.Unix(c.Timestamp, 0).UTC().Format(CommitLineLayout) + " UTC: " + c.Message
}
