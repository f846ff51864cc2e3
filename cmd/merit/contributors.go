package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/cache"
	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/contributors"
	"github.com/rohankatakam/merit/internal/llm"
	"github.com/rohankatakam/merit/internal/output"
)

var (
	outputFormat string
	refFlag      string
	pickFlag     bool
	noAIFlag     bool
	commitsFlag  bool
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "List contributors ranked by commit count",
	Long: `Walk the history reachable from --ref (default HEAD) and print one row per
contributor. A contributor is an exact (name, email) pair as recorded in
commits.`,
	Example: `  merit contributors
  merit contributors --ref v1.2.0 --format json`,
	Args: cobra.NoArgs,
	RunE: runContributors,
}

var contributorCmd = &cobra.Command{
	Use:   "contributor [name-or-email]",
	Short: "Show and analyze one contributor",
	Long: `Show one contributor's statistics and, when an AI provider is configured,
an analysis of their work. The argument matches a name or email ignoring
case; "Name <email>" selects an exact identity.`,
	Example: `  merit contributor alice@example.com
  merit contributor --pick
  merit contributor "Alice <alice@example.com>" --commits --no-ai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContributor,
}

func init() {
	contributorsCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: text, json or yaml (default: text, or $MERIT_OUTPUT)")
	contributorsCmd.Flags().StringVar(&refFlag, "ref", "", "revision to analyze (default: HEAD)")

	contributorCmd.Flags().StringVar(&refFlag, "ref", "", "revision to analyze (default: HEAD)")
	contributorCmd.Flags().BoolVar(&pickFlag, "pick", false, "choose the contributor from a menu")
	contributorCmd.Flags().BoolVar(&noAIFlag, "no-ai", false, "only print statistics")
	contributorCmd.Flags().BoolVar(&commitsFlag, "commits", false, "also list every commit by the contributor")
}

func revision() string {
	if refFlag != "" {
		return refFlag
	}
	return cfg.Repository.Ref
}

func runContributors(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}

	stats, err := contributors.Aggregate(repo.Traverse(revision()), repo.DiffStat)
	if err != nil {
		return err
	}

	return output.NewFormatter(format).Format(cmd.OutOrStdout(), contributors.Ranked(stats))
}

func runContributor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	repo, err := openRepo()
	if err != nil {
		return err
	}

	rev := revision()
	stats, err := contributors.Aggregate(repo.Traverse(rev), repo.DiffStat)
	if err != nil {
		return err
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	var pick func([]*contributors.Stats) (*contributors.Stats, error)
	if (pickFlag || query == "") && config.IsInteractive() {
		pick = pickContributor(ctx)
	}

	selected, err := resolveContributor(stats, query, pick)
	if cancelled(err) {
		return nil
	}
	if err != nil {
		return err
	}

	// Separate walk: the filter does not share state with the aggregation.
	lines, err := contributors.CommitsBy(selected.Identity, repo.Traverse(rev))
	if err != nil {
		return err
	}

	output.Detail(out, selected)
	if commitsFlag {
		fmt.Fprintln(out)
		output.CommitLines(out, selected.Identity, lines)
	}

	if noAIFlag {
		return nil
	}

	provider, cleanup, err := chooseProvider(ctx)
	if cancelled(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer cleanup()

	head, err := repo.Resolve(rev)
	if err != nil {
		return err
	}

	store := openCache(ctx)
	defer store.Close()

	key := cache.Key{
		Mode:     llm.ModeContributorAnalysis.String(),
		Provider: provider.Name(),
		Head:     head.String(),
		Subject:  selected.Identity.String(),
	}

	analyzer := newAnalyzer(provider)
	analysis, hit, err := cache.GetOrGenerate(ctx, store, key, func(ctx context.Context) (string, error) {
		fmt.Fprintf(os.Stderr, "Analyzing %s with %s...\n", selected.Name, provider.Name())
		return analyzer.AnalyzeContributor(ctx, contributors.Report(selected, lines))
	})
	if err != nil {
		return err
	}
	logger.WithField("cache_hit", hit).Debug("Contributor analysis ready")

	fmt.Fprintln(out)
	return output.Markdown(out, analysis, output.TerminalWidth(out))
}
