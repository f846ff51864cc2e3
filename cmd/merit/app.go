package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/rohankatakam/merit/internal/cache"
	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/contributors"
	"github.com/rohankatakam/merit/internal/errors"
	"github.com/rohankatakam/merit/internal/git"
	"github.com/rohankatakam/merit/internal/llm"
	"github.com/rohankatakam/merit/internal/ui"
)

func openRepo() (*git.Repository, error) {
	return git.Open(cfg.Repository.Path)
}

// openCache returns the configured analysis cache, or a disabled one when
// caching is off or the store cannot be opened.
func openCache(ctx context.Context) cache.Store {
	if !cfg.Cache.Enabled {
		return cache.Disabled{}
	}

	if cfg.Cache.RedisAddr != "" {
		store, err := cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, "analyses", cfg.Cache.TTL)
		if err == nil {
			return store
		}
		logger.WithError(err).Warn("Shared cache unavailable, falling back to local cache")
	}

	if cfg.Cache.Path == "" {
		return cache.Disabled{}
	}

	store, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL)
	if err != nil {
		logger.WithError(err).Warn("Cache unavailable, continuing without it")
		return cache.Disabled{}
	}
	return store
}

// chooseProvider builds the provider named by --provider or the config.
// With several configured and none named, an interactive terminal gets a
// menu.
func chooseProvider(ctx context.Context) (llm.Provider, func(), error) {
	providers, err := llm.Available(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	name := cfg.LLM.Provider
	if name == "" && len(providers) > 1 && config.IsInteractive() {
		names := make([]string, len(providers))
		for i, p := range providers {
			names[i] = p.Name()
		}
		chosen, err := ui.Pick(ctx, os.Stdin, os.Stderr, "Choose an AI provider", ui.ProviderOptions(names))
		if err != nil {
			return nil, nil, err
		}
		name = chosen.Value
	}

	provider, err := llm.Select(providers, name)
	if err != nil {
		return nil, nil, err
	}

	var quota *llm.QuotaLimiter
	if cfg.LLM.RedisAddr != "" {
		quota, err = llm.NewQuotaLimiter(ctx, cfg.LLM.RedisAddr, provider.Name(), llm.DefaultQuotaLimits)
		if err != nil {
			logger.WithError(err).Warn("Shared quota unavailable, using local rate limit only")
			quota = nil
		}
	}

	cleanup := func() {
		if quota != nil {
			quota.Close()
		}
	}

	logger.WithField("provider", provider.Name()).Debug("Using AI provider")
	return llm.NewLimited(provider, cfg.LLM.RateLimit, quota), cleanup, nil
}

// changeSummary reports the line counts of the given diffs for status
// messages, e.g. "2 file(s), +10 -3".
func changeSummary(files []git.FileDiff) string {
	added, deleted := 0, 0
	for _, f := range files {
		a, d := f.LineCounts()
		added += a
		deleted += d
	}
	return fmt.Sprintf("%d file(s), +%d -%d", len(files), added, deleted)
}

func newAnalyzer(p llm.Provider) *llm.Analyzer {
	return llm.NewAnalyzer(p,
		llm.WithTemperature(float32(cfg.LLM.Temperature)),
		llm.WithMaxInput(cfg.LLM.MaxInput),
	)
}

// resolveContributor maps a name or email (or "Name <email>") onto exactly
// one contributor. pick is called when the query is ambiguous or empty; nil
// means no menu is available.
func resolveContributor(stats map[contributors.Identity]*contributors.Stats, query string, pick func([]*contributors.Stats) (*contributors.Stats, error)) (*contributors.Stats, error) {
	query = strings.TrimSpace(query)

	var candidates []*contributors.Stats
	switch {
	case query == "":
		candidates = contributors.Ranked(stats)
	case strings.HasSuffix(query, ">") && strings.Contains(query, " <"):
		i := strings.LastIndex(query, " <")
		id := contributors.Identity{Name: query[:i], Email: query[i+2 : len(query)-1]}
		if s, ok := stats[id]; ok {
			return s, nil
		}
	default:
		candidates = contributors.Find(stats, query)
	}

	switch {
	case len(candidates) == 0 && query == "":
		return nil, errors.ValidationError("repository has no contributors")
	case len(candidates) == 0:
		return nil, errors.ValidationErrorf("no contributor matches %q", query)
	case len(candidates) == 1:
		return candidates[0], nil
	}

	if pick != nil {
		return pick(candidates)
	}

	if query == "" {
		return nil, errors.ValidationError("no contributor given; pass a name or email, or use --pick in a terminal")
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = "  " + c.Identity.String()
	}
	return nil, errors.ValidationErrorf("%q matches %d contributors, use the full \"Name <email>\" form:\n%s",
		query, len(candidates), strings.Join(names, "\n"))
}

// pickContributor shows the contributor menu on the terminal
func pickContributor(ctx context.Context) func([]*contributors.Stats) (*contributors.Stats, error) {
	return func(candidates []*contributors.Stats) (*contributors.Stats, error) {
		chosen, err := ui.Pick(ctx, os.Stdin, os.Stderr, "Choose a contributor", ui.ContributorOptions(candidates))
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if c.Identity.String() == chosen.Value {
				return c, nil
			}
		}
		return nil, fmt.Errorf("unknown selection %q", chosen.Value)
	}
}

// cancelled reports a closed menu, which commands treat as a clean exit
func cancelled(err error) bool {
	return stderrors.Is(err, ui.ErrCancelled)
}
