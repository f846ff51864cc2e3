// Package mcp exposes contributor statistics to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rohankatakam/merit/internal/contributors"
	"github.com/rohankatakam/merit/internal/errors"
	"github.com/rohankatakam/merit/internal/git"
)

const (
	ServerName = "merit"

	defaultListLimit = 20
)

// Server answers tool calls against one repository. Every call walks the
// history again, so results follow new commits without a restart.
type Server struct {
	repo   *git.Repository
	ref    string
	server *mcp.Server
	logger *slog.Logger
}

// NewServer registers the tools for repo. ref is the default revision
// (empty = HEAD) used when a call does not name one.
func NewServer(repo *git.Repository, ref, version string) *Server {
	s := &Server{
		repo:   repo,
		ref:    ref,
		logger: slog.Default().With("component", "mcp"),
	}

	s.server = mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_contributors",
		Description: "List the repository's contributors ranked by commit count, with line and file totals.",
	}, s.listContributors)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contributor_commits",
		Description: "List the commits authored by one contributor as 'YYYY-MM-DD HH:MM:SS UTC: message' lines, newest first.",
	}, s.contributorCommits)

	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx ends
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio", "repo", s.repo.Root())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session on t, for in-process clients
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// ListContributorsInput are the list_contributors arguments
type ListContributorsInput struct {
	Ref   string `json:"ref,omitempty" jsonschema:"revision to analyze, defaults to HEAD"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of contributors to return, default 20"`
}

// ContributorSummary is one row of list_contributors
type ContributorSummary struct {
	Name              string                        `json:"name"`
	Email             string                        `json:"email"`
	CommitCount       int                           `json:"commit_count"`
	Additions         int                           `json:"additions"`
	Deletions         int                           `json:"deletions"`
	FilesChanged      int                           `json:"files_changed"`
	MostRecentCommit  string                        `json:"most_recent_commit"`
	MostModifiedFiles []contributors.FileCount      `json:"most_modified_files"`
	FileTypes         []contributors.ExtensionCount `json:"file_types"`
}

// ListContributorsOutput is the list_contributors result
type ListContributorsOutput struct {
	Total        int                  `json:"total"`
	Contributors []ContributorSummary `json:"contributors"`
}

func (s *Server) listContributors(ctx context.Context, _ *mcp.CallToolRequest, in ListContributorsInput) (*mcp.CallToolResult, ListContributorsOutput, error) {
	ref := s.revision(in.Ref)
	s.logger.Debug("list_contributors", "ref", ref, "limit", in.Limit)

	stats, err := contributors.Aggregate(s.repo.Traverse(ref), s.repo.DiffStat)
	if err != nil {
		return nil, ListContributorsOutput{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	ranked := contributors.Ranked(stats)
	out := ListContributorsOutput{
		Total:        len(ranked),
		Contributors: []ContributorSummary{},
	}
	for i, st := range ranked {
		if i == limit {
			break
		}
		out.Contributors = append(out.Contributors, summarize(st))
	}
	return nil, out, nil
}

func summarize(st *contributors.Stats) ContributorSummary {
	return ContributorSummary{
		Name:              st.Name,
		Email:             st.Email,
		CommitCount:       st.CommitCount,
		Additions:         st.Additions,
		Deletions:         st.Deletions,
		FilesChanged:      len(st.FilesChanged),
		MostRecentCommit:  contributors.Subject(st.MostRecentCommit()),
		MostModifiedFiles: st.MostModifiedFiles,
		FileTypes:         st.FileTypeHistogram(),
	}
}

// ContributorCommitsInput are the contributor_commits arguments. Name and
// email must match the commit author exactly.
type ContributorCommitsInput struct {
	Name  string `json:"name" jsonschema:"author name exactly as recorded in commits"`
	Email string `json:"email" jsonschema:"author email exactly as recorded in commits"`
	Ref   string `json:"ref,omitempty" jsonschema:"revision to analyze, defaults to HEAD"`
}

// ContributorCommitsOutput is the contributor_commits result
type ContributorCommitsOutput struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Commits []string `json:"commits"`
}

func (s *Server) contributorCommits(ctx context.Context, _ *mcp.CallToolRequest, in ContributorCommitsInput) (*mcp.CallToolResult, ContributorCommitsOutput, error) {
	if in.Name == "" && in.Email == "" {
		return nil, ContributorCommitsOutput{}, errors.ValidationError("name or email is required")
	}

	ref := s.revision(in.Ref)
	s.logger.Debug("contributor_commits", "ref", ref, "name", in.Name, "email", in.Email)

	id := contributors.Identity{Name: in.Name, Email: in.Email}
	lines, err := contributors.CommitsBy(id, s.repo.Traverse(ref))
	if err != nil {
		return nil, ContributorCommitsOutput{}, err
	}

	return nil, ContributorCommitsOutput{Name: in.Name, Email: in.Email, Commits: lines}, nil
}

func (s *Server) revision(ref string) string {
	if ref != "" {
		return ref
	}
	return s.ref
}
