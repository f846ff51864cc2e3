package llm

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rohankatakam/merit/internal/git"
	"github.com/rohankatakam/merit/internal/llm/prompts"
)

// DefaultTemperature is used by every analysis mode
const DefaultTemperature float32 = 0.7

// Mode is one of the things merit can ask a provider to do
type Mode int

const (
	ModeCommitMessage Mode = iota
	ModeFileAnalysis
	ModeContributorAnalysis
)

// Description is the menu label of the mode
func (m Mode) Description() string {
	switch m {
	case ModeCommitMessage:
		return "Generate commit message"
	case ModeFileAnalysis:
		return "Analyze file changes"
	case ModeContributorAnalysis:
		return "Analyze contributors"
	default:
		return "unknown"
	}
}

// String is the short name used in cache keys and logs
func (m Mode) String() string {
	switch m {
	case ModeCommitMessage:
		return "commit"
	case ModeFileAnalysis:
		return "file"
	case ModeContributorAnalysis:
		return "contributor"
	default:
		return "unknown"
	}
}

// SystemPrompt returns the mode's system prompt
func (m Mode) SystemPrompt() string {
	switch m {
	case ModeCommitMessage:
		return prompts.CommitMessageSystem
	case ModeFileAnalysis:
		return prompts.FileAnalysisSystem
	default:
		return prompts.ContributorAnalysisSystem
	}
}

// Analyzer maps analysis modes onto a provider
type Analyzer struct {
	provider    Provider
	temperature float32
	maxInput    int
	concurrency int
	logger      *slog.Logger
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithTemperature overrides DefaultTemperature
func WithTemperature(t float32) AnalyzerOption {
	return func(a *Analyzer) { a.temperature = t }
}

// WithMaxInput truncates inputs longer than n bytes. 0 means no limit.
func WithMaxInput(n int) AnalyzerOption {
	return func(a *Analyzer) { a.maxInput = n }
}

// WithConcurrency bounds parallel file analyses
func WithConcurrency(n int) AnalyzerOption {
	return func(a *Analyzer) { a.concurrency = n }
}

// NewAnalyzer creates an analyzer backed by provider
func NewAnalyzer(provider Provider, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		provider:    provider,
		temperature: DefaultTemperature,
		concurrency: 4,
		logger:      slog.Default().With("component", "analyzer", "provider", provider.Name()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider returns the backing provider
func (a *Analyzer) Provider() Provider {
	return a.provider
}

// Run sends input to the provider under the mode's prompt
func (a *Analyzer) Run(ctx context.Context, mode Mode, input string) (string, error) {
	input = git.TruncateForPrompt(input, a.maxInput)

	a.logger.Debug("generating", "mode", mode.String(), "input_bytes", len(input))
	out, err := a.provider.Generate(ctx, mode.SystemPrompt(), input, a.temperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateCommitMessage proposes a commit message for diff
func (a *Analyzer) GenerateCommitMessage(ctx context.Context, diff string) (string, error) {
	msg, err := a.Run(ctx, ModeCommitMessage, diff)
	if err != nil {
		return "", err
	}
	// Strip a stray code fence
	msg = strings.TrimPrefix(msg, "```")
	msg = strings.TrimSuffix(msg, "```")
	return strings.TrimSpace(msg), nil
}

// AnalyzeFileChanges explains the change to one file
func (a *Analyzer) AnalyzeFileChanges(ctx context.Context, diff string) (string, error) {
	return a.Run(ctx, ModeFileAnalysis, diff)
}

// AnalyzeContributor summarizes a contributor report
func (a *Analyzer) AnalyzeContributor(ctx context.Context, report string) (string, error) {
	return a.Run(ctx, ModeContributorAnalysis, report)
}

// FileAnalysis is the explanation of one changed file
type FileAnalysis struct {
	Path        string
	Explanation string
}

// AnalyzeFiles explains every file concurrently. Results keep the order of
// files; the first failure cancels the rest and is returned.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []git.FileDiff) ([]FileAnalysis, error) {
	results := make([]FileAnalysis, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	for i, f := range files {
		g.Go(func() error {
			explanation, err := a.AnalyzeFileChanges(ctx, f.Diff)
			if err != nil {
				return err
			}
			results[i] = FileAnalysis{Path: f.Path, Explanation: explanation}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
