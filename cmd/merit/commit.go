package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/config"
)

var (
	applyFlag bool
	signFlag  bool
	yesFlag   bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for the working-tree changes",
	Long: `Collect every change in the working tree (untracked files included), ask the
AI provider for a conventional commit message and print it. With --apply all
changes are staged and committed with that message.`,
	Example: `  merit commit
  merit commit --apply --sign`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().BoolVar(&applyFlag, "apply", false, "stage all changes and commit with the generated message")
	commitCmd.Flags().BoolVarP(&signFlag, "sign", "S", false, "GPG-sign the commit (with --apply)")
	commitCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "do not ask for confirmation before committing")
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	repo, err := openRepo()
	if err != nil {
		return err
	}

	diff, err := repo.Changes(ctx)
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

	fmt.Fprintf(os.Stderr, "Generating commit message with %s...\n", provider.Name())
	message, err := newAnalyzer(provider).GenerateCommitMessage(ctx, diff)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, message)
	if !applyFlag {
		return nil
	}

	if !yesFlag && config.IsInteractive() && !confirm("Commit with this message? [Y/n] ") {
		fmt.Fprintln(os.Stderr, "Aborted.")
		return nil
	}

	if err := repo.StageAll(); err != nil {
		return err
	}
	if err := repo.Commit(ctx, message, signFlag); err != nil {
		return err
	}

	logger.WithField("signed", signFlag).Info("Changes committed")
	return nil
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "" || response == "y" || response == "yes"
}
