package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/llm"
	"github.com/rohankatakam/merit/internal/output"
)

var concurrencyFlag int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Explain the working-tree changes file by file",
	Long: `Split the working-tree changes per file and ask the AI provider to explain
each one. Files are analyzed in parallel; new files are listed first.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&concurrencyFlag, "jobs", "j", 4, "files analyzed in parallel")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	repo, err := openRepo()
	if err != nil {
		return err
	}

	files, err := repo.FileDiffs(ctx)
	if err != nil {
		return err
	}

	provider, cleanup, err := chooseProvider(ctx)
	if cancelled(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(os.Stderr, "Analyzing %s with %s...\n", changeSummary(files), provider.Name())

	analyzer := llm.NewAnalyzer(provider,
		llm.WithTemperature(float32(cfg.LLM.Temperature)),
		llm.WithMaxInput(cfg.LLM.MaxInput),
		llm.WithConcurrency(concurrencyFlag),
	)
	results, err := analyzer.AnalyzeFiles(ctx, files)
	if err != nil {
		return err
	}

	styles := output.NewStyles(out)
	width := output.TerminalWidth(out)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, styles.Header.Render(r.Path))
		if err := output.Markdown(out, r.Explanation, width); err != nil {
			return err
		}
	}
	return nil
}
