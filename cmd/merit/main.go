package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile      string
	repoPath     string
	providerName string
	verbose      bool

	logger *logrus.Entry
	cfg    *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "merit",
	Short: "merit - contributor analytics for git repositories",
	Long: `merit walks a repository's history and summarizes what each contributor
did: commits, lines added and removed, the files they touch most and their
largest changes. With an AI provider configured it can also write commit
messages, explain working-tree changes and profile a contributor.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		runID := uuid.NewString()

		base := logrus.New()
		base.SetOutput(os.Stderr)
		if verbose {
			base.SetLevel(logrus.DebugLevel)
		} else {
			base.SetLevel(logrus.InfoLevel)
		}
		logger = base.WithField("run_id", runID)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
		if repoPath != "" {
			cfg.Repository.Path = repoPath
		}
		if providerName != "" {
			cfg.LLM.Provider = providerName
		}

		logCfg := logging.DefaultConfig(verbose, cfg.Log.Directory)
		if !verbose {
			logCfg.Level = logging.ParseLevel(cfg.Log.Level)
		}
		logCfg.JSONFormat = cfg.Log.JSON
		if err := logging.Initialize(logCfg); err != nil {
			return err
		}
		slog.SetDefault(slog.Default().With("run_id", runID))

		result := cfg.Validate()
		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		return result.Err()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .merit/config.yaml or ~/.merit/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", "", "repository path (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "p", "", "AI provider: openai, claude, deepseek or gemini")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`merit {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(contributorCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
}
