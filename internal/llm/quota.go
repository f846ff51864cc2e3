package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuotaLimits are the shared request and token budgets for one provider
type QuotaLimits struct {
	RPM int64 // requests per minute
	TPM int64 // tokens per minute, input and output combined
	RPD int64 // requests per day
}

// DefaultQuotaLimits sits well below the paid tiers of every supported
// provider.
var DefaultQuotaLimits = QuotaLimits{
	RPM: 500,
	TPM: 1_000_000,
	RPD: 10_000,
}

// QuotaExceededError reports which budget ran out and when it resets
type QuotaExceededError struct {
	Limit      string // "RPM", "TPM" or "RPD"
	Current    int64
	Max        int64
	RetryAfter time.Duration
}

func (e *QuotaExceededError) Error() string {
	if e.Limit == "RPD" {
		return fmt.Sprintf("daily quota exceeded: %d/%d requests (resets in %s)", e.Current, e.Max, e.RetryAfter)
	}
	return fmt.Sprintf("approaching %s limit (%d/%d), wait %s", e.Limit, e.Current, e.Max, e.RetryAfter)
}

// Daily reports whether waiting for the next minute cannot help
func (e *QuotaExceededError) Daily() bool {
	return e.Limit == "RPD"
}

// QuotaLimiter enforces quotas shared by every process pointing at the same
// Redis, so several merit runs cannot jointly exhaust an API key.
type QuotaLimiter struct {
	redis     *redis.Client
	namespace string
	limits    QuotaLimits
	logger    *slog.Logger
}

// quotaScript increments all three counters atomically and reports the
// first budget that is at 90% (minute windows) or exhausted (day window).
var quotaScript = redis.NewScript(`
	local rpm_key = KEYS[1]
	local tpm_key = KEYS[2]
	local rpd_key = KEYS[3]
	local rpm_limit = tonumber(ARGV[1])
	local tpm_limit = tonumber(ARGV[2])
	local rpd_limit = tonumber(ARGV[3])
	local tokens = tonumber(ARGV[4])

	local rpm = redis.call('INCR', rpm_key)
	local tpm = redis.call('INCRBY', tpm_key, tokens)
	local rpd = redis.call('INCR', rpd_key)

	-- 70s for minute keys leaves room for clock skew
	if rpm == 1 then redis.call('EXPIRE', rpm_key, 70) end
	if tpm == tokens then redis.call('EXPIRE', tpm_key, 70) end
	if rpd == 1 then redis.call('EXPIRE', rpd_key, 86400) end

	if rpm >= rpm_limit * 0.9 then
		return {-1, 'RPM', rpm, rpm_limit}
	end
	if tpm >= tpm_limit * 0.9 then
		return {-2, 'TPM', tpm, tpm_limit}
	end
	if rpd >= rpd_limit then
		return {-3, 'RPD', rpd, rpd_limit}
	end

	return {0, 'OK', rpm, tpm, rpd}
`)

// NewQuotaLimiter connects to Redis at addr. namespace separates providers
// (typically the provider name).
func NewQuotaLimiter(ctx context.Context, addr, namespace string, limits QuotaLimits) (*QuotaLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &QuotaLimiter{
		redis:     client,
		namespace: namespace,
		limits:    limits,
		logger:    slog.Default().With("component", "quota", "namespace", namespace),
	}, nil
}

func (q *QuotaLimiter) keys(now time.Time) []string {
	minute := now.UTC().Format("2006-01-02T15:04")
	day := now.UTC().Format("2006-01-02")
	return []string{
		fmt.Sprintf("merit:%s:rpm:%s", q.namespace, minute),
		fmt.Sprintf("merit:%s:tpm:%s", q.namespace, minute),
		fmt.Sprintf("merit:%s:rpd:%s", q.namespace, day),
	}
}

// CheckAndIncrement records one request of estimatedTokens and returns a
// *QuotaExceededError when a budget is (nearly) spent.
func (q *QuotaLimiter) CheckAndIncrement(ctx context.Context, estimatedTokens int64) error {
	now := time.Now()

	result, err := quotaScript.Run(ctx, q.redis, q.keys(now),
		q.limits.RPM, q.limits.TPM, q.limits.RPD, estimatedTokens).Result()
	if err != nil {
		return fmt.Errorf("quota Redis operation failed: %w", err)
	}

	reply, ok := result.([]interface{})
	if !ok || len(reply) < 4 {
		return fmt.Errorf("invalid quota response format")
	}

	code, _ := reply[0].(int64)
	if code == 0 {
		return nil
	}

	exceeded := &QuotaExceededError{}
	exceeded.Limit, _ = reply[1].(string)
	exceeded.Current, _ = reply[2].(int64)
	exceeded.Max, _ = reply[3].(int64)

	if exceeded.Daily() {
		tomorrow := now.UTC().AddDate(0, 0, 1)
		midnight := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)
		exceeded.RetryAfter = midnight.Sub(now).Truncate(time.Second)
	} else {
		exceeded.RetryAfter = time.Duration(60-now.Second()) * time.Second
	}

	return exceeded
}

// Wait blocks until the request fits in the minute budgets. A spent daily
// budget is returned immediately, as is any Redis failure.
func (q *QuotaLimiter) Wait(ctx context.Context, estimatedTokens int64) error {
	for {
		err := q.CheckAndIncrement(ctx, estimatedTokens)
		if err == nil {
			return nil
		}

		var exceeded *QuotaExceededError
		if !stderrors.As(err, &exceeded) || exceeded.Daily() {
			return err
		}

		q.logger.Warn("quota nearly spent, throttling",
			"limit", exceeded.Limit,
			"current", exceeded.Current,
			"max", exceeded.Max,
			"wait", exceeded.RetryAfter)

		select {
		case <-time.After(exceeded.RetryAfter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Usage returns the current minute and day counters
func (q *QuotaLimiter) Usage(ctx context.Context) (rpm, tpm, rpd int64, err error) {
	keys := q.keys(time.Now())

	pipe := q.redis.Pipeline()
	rpmCmd := pipe.Get(ctx, keys[0])
	tpmCmd := pipe.Get(ctx, keys[1])
	rpdCmd := pipe.Get(ctx, keys[2])

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, 0, fmt.Errorf("failed to get usage stats: %w", err)
	}

	rpm, _ = rpmCmd.Int64()
	tpm, _ = tpmCmd.Int64()
	rpd, _ = rpdCmd.Int64()
	return rpm, tpm, rpd, nil
}

// Close closes the Redis connection
func (q *QuotaLimiter) Close() error {
	if q.redis != nil {
		return q.redis.Close()
	}
	return nil
}
