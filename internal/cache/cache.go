package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Key identifies one piece of generated text. Head pins the result to the
// repository state it was produced from, so a new commit is a new key.
type Key struct {
	Mode     string // "commit", "file" or "contributor"
	Provider string
	Head     string // commit hash the analysis was computed at
	Subject  string // contributor identity or diff digest
}

// String renders the key as "mode:provider:head:subject"
func (k Key) String() string {
	return strings.Join([]string{k.Mode, k.Provider, k.Head, k.Subject}, ":")
}

// Prefix matches every key for one mode and provider, e.g. for DeletePattern
func Prefix(mode, provider string) string {
	return fmt.Sprintf("%s:%s:", mode, provider)
}

// Store is a TTL-bounded text cache. A miss is ("", false, nil), never an
// error.
type Store interface {
	Get(ctx context.Context, key Key) (string, bool, error)
	Put(ctx context.Context, key Key, value string) error
	Close() error
}

// entry is the persisted form of one value
type entry struct {
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (e entry) expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(e.CreatedAt) >= ttl
}

func encode(value string, now time.Time) ([]byte, error) {
	data, err := json.Marshal(entry{Value: value, CreatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return data, nil
}

func decode(data []byte) (entry, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return entry{}, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return e, nil
}

// Disabled is a Store that never hits
type Disabled struct{}

func (Disabled) Get(context.Context, Key) (string, bool, error) { return "", false, nil }
func (Disabled) Put(context.Context, Key, string) error         { return nil }
func (Disabled) Close() error                                   { return nil }

// GetOrGenerate returns the cached value for key, or calls generate and
// stores its result. The bool reports a cache hit. A failing store read is
// logged and treated as a miss; generate errors are returned unchanged and
// never cached.
func GetOrGenerate(ctx context.Context, s Store, key Key, generate func(context.Context) (string, error)) (string, bool, error) {
	logger := slog.Default().With("component", "cache")

	if value, ok, err := s.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "key", key.String(), "error", err)
	} else if ok {
		return value, true, nil
	}

	value, err := generate(ctx)
	if err != nil {
		return "", false, err
	}

	if err := s.Put(ctx, key, value); err != nil {
		logger.Warn("cache write failed", "key", key.String(), "error", err)
	}
	return value, false, nil
}
