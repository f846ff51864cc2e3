package llm

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/rohankatakam/merit/internal/errors"
)

// Limited paces calls to a provider: a local token bucket always, and a
// shared Redis quota when one is attached.
type Limited struct {
	Provider
	limiter *rate.Limiter
	quota   *QuotaLimiter
}

// NewLimited allows rps requests per second with bursts of one. rps <= 0
// disables local pacing. quota may be nil.
func NewLimited(p Provider, rps float64, quota *QuotaLimiter) *Limited {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Limited{
		Provider: p,
		limiter:  rate.NewLimiter(limit, 1),
		quota:    quota,
	}
}

// Generate waits for capacity, then delegates
func (l *Limited) Generate(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", errors.ProviderErrorf(err, "%s: rate limiter", l.Name())
	}

	if l.quota != nil {
		if err := l.quota.Wait(ctx, EstimateTokens(systemPrompt+userInput)); err != nil {
			return "", errors.ProviderErrorf(err, "%s: shared quota", l.Name())
		}
	}

	return l.Provider.Generate(ctx, systemPrompt, userInput, temperature)
}

// EstimateTokens approximates a prompt's token count at four bytes per
// token plus a fixed allowance for the reply.
func EstimateTokens(prompt string) int64 {
	return int64(len(prompt)/4) + 1024
}
