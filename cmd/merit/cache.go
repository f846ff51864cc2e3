package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/cache"
	"github.com/rohankatakam/merit/internal/errors"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local analysis cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLocalCache()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Prune()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLocalCache()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openLocalCache() (*cache.BoltStore, error) {
	if cfg.Cache.Path == "" {
		return nil, errors.ConfigError("cache.path is not set")
	}
	return cache.Open(cfg.Cache.Path, cfg.Cache.TTL)
}
