package cache

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = Key{Mode: "contributor", Provider: "openai", Head: "abc123", Subject: "Alice <a@x>"}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func openTestStore(t *testing.T, ttl time.Duration) (*BoltStore, *fakeClock) {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := &fakeClock{t: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)}
	s.now = clock.now
	return s, clock
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "contributor:openai:abc123:Alice <a@x>", testKey.String())
	assert.Equal(t, "contributor:openai:", Prefix("contributor", "openai"))
}

func TestBoltStore_PutGet(t *testing.T) {
	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, testKey, "analysis"))

	value, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "analysis", value)

	other := testKey
	other.Head = "def456"
	_, ok, err = s.Get(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok, "a different head is a different key")
}

func TestBoltStore_Overwrite(t *testing.T) {
	s, _ := openTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testKey, "first"))
	require.NoError(t, s.Put(ctx, testKey, "second"))

	value, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBoltStore_Expiry(t *testing.T) {
	s, clock := openTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testKey, "analysis"))

	clock.advance(59 * time.Minute)
	_, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)

	clock.advance(time.Minute)
	_, ok, err = s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n, "expired entry removed on read")
}

func TestBoltStore_ZeroTTLNeverExpires(t *testing.T) {
	s, clock := openTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testKey, "analysis"))
	clock.advance(365 * 24 * time.Hour)

	_, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBoltStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, testKey, "analysis"))
	require.NoError(t, s.Close())

	reopened, err := Open(path, time.Hour)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "analysis", value)
}

func TestBoltStore_Prune(t *testing.T) {
	s, clock := openTestStore(t, time.Hour)
	ctx := context.Background()

	old := testKey
	old.Head = "old"
	require.NoError(t, s.Put(ctx, old, "stale"))

	clock.advance(2 * time.Hour)
	require.NoError(t, s.Put(ctx, testKey, "fresh"))

	removed, err := s.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	value, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", value)
}

func TestBoltStore_Clear(t *testing.T) {
	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testKey, "analysis"))
	require.NoError(t, s.Clear())

	_, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, ok, "memory tier flushed too")

	require.NoError(t, s.Put(ctx, testKey, "again"), "bucket recreated")
}

func TestOpen_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := Open(filepath.Join(blocker, "cache.db"), time.Hour)
	assert.Error(t, err)
}

func TestGetOrGenerate(t *testing.T) {
	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	calls := 0
	generate := func(context.Context) (string, error) {
		calls++
		return "generated", nil
	}

	value, hit, err := GetOrGenerate(ctx, s, testKey, generate)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "generated", value)

	value, hit, err = GetOrGenerate(ctx, s, testKey, generate)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "generated", value)
	assert.Equal(t, 1, calls)
}

func TestGetOrGenerate_ErrorNotCached(t *testing.T) {
	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	boom := stderrors.New("provider down")
	_, _, err := GetOrGenerate(ctx, s, testKey, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetOrGenerate_Disabled(t *testing.T) {
	calls := 0
	generate := func(context.Context) (string, error) {
		calls++
		return "generated", nil
	}

	for range 2 {
		_, hit, err := GetOrGenerate(context.Background(), Disabled{}, testKey, generate)
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, calls)
}

// newTestRedis connects to MERIT_TEST_REDIS_ADDR (default localhost:6379),
// skipping when Redis is not reachable.
func newTestRedis(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()

	addr := os.Getenv("MERIT_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	s, err := NewRedisStore(context.Background(), addr, "test-"+uuid.NewString(), ttl)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() {
		s.DeletePattern(context.Background(), "")
		s.Close()
	})
	return s
}

func TestNewRedisStore_Errors(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "", "x", time.Hour)
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), "localhost:1", "x", time.Hour)
	assert.Error(t, err)
}

func TestRedisStore_PutGet(t *testing.T) {
	s := newTestRedis(t, time.Hour)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, testKey, "analysis"))

	value, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "analysis", value)

	ttl, err := s.client.TTL(ctx, s.redisKey(testKey.String())).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRedisStore_DeletePattern(t *testing.T) {
	s := newTestRedis(t, time.Hour)
	ctx := context.Background()

	other := testKey
	other.Provider = "claude"
	require.NoError(t, s.Put(ctx, testKey, "a"))
	require.NoError(t, s.Put(ctx, other, "b"))

	deleted, err := s.DeletePattern(ctx, Prefix("contributor", "openai"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, ok, err := s.Get(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok)
}
