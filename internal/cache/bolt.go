package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "analyses"

// BoltStore persists generated text in a bbolt file, fronted by an
// in-process cache so repeated lookups in one run skip the file.
type BoltStore struct {
	db       *bolt.DB
	memCache *gocache.Cache
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Open opens (creating if needed) the cache file at path. ttl <= 0 keeps
// entries forever.
func Open(path string, ttl time.Duration) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache bucket: %w", err)
	}

	memTTL := gocache.NoExpiration
	if ttl > 0 {
		memTTL = ttl
	}

	return &BoltStore{
		db:       db,
		memCache: gocache.New(memTTL, 10*time.Minute),
		ttl:      ttl,
		logger:   slog.Default().With("component", "cache", "path", path),
		now:      time.Now,
	}, nil
}

// Get returns the cached value for key. Expired entries are removed and
// reported as a miss.
func (s *BoltStore) Get(_ context.Context, key Key) (string, bool, error) {
	k := key.String()

	if cached, found := s.memCache.Get(k); found {
		e := cached.(entry)
		if !e.expired(s.now(), s.ttl) {
			s.logger.Debug("cache hit", "key", k, "tier", "memory")
			return e.Value, true, nil
		}
		s.memCache.Delete(k)
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(k)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("cache read failed for key %s: %w", k, err)
	}
	if data == nil {
		s.logger.Debug("cache miss", "key", k)
		return "", false, nil
	}

	e, err := decode(data)
	if err != nil {
		return "", false, err
	}
	if e.expired(s.now(), s.ttl) {
		s.logger.Debug("cache entry expired", "key", k, "created_at", e.CreatedAt)
		if err := s.delete(k); err != nil {
			return "", false, err
		}
		return "", false, nil
	}

	s.memCache.Set(k, e, gocache.DefaultExpiration)
	s.logger.Debug("cache hit", "key", k, "tier", "disk")
	return e.Value, true, nil
}

// Put stores value under key, replacing any previous entry
func (s *BoltStore) Put(_ context.Context, key Key, value string) error {
	k := key.String()
	now := s.now()

	data, err := encode(value, now)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(k), data)
	})
	if err != nil {
		return fmt.Errorf("cache write failed for key %s: %w", k, err)
	}

	s.memCache.Set(k, entry{Value: value, CreatedAt: now}, gocache.DefaultExpiration)
	s.logger.Debug("cache set", "key", k)
	return nil
}

func (s *BoltStore) delete(k string) error {
	s.memCache.Delete(k)
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(k))
	})
	if err != nil {
		return fmt.Errorf("cache delete failed for key %s: %w", k, err)
	}
	return nil
}

// Prune removes every expired entry and returns how many were dropped
func (s *BoltStore) Prune() (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	now := s.now()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if e, err := decode(v); err != nil || e.expired(now, s.ttl) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
			s.memCache.Delete(string(k))
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to prune cache: %w", err)
	}

	s.logger.Info("cache pruned", "removed", removed)
	return removed, nil
}

// Clear drops every entry
func (s *BoltStore) Clear() error {
	s.logger.Info("clearing cache")
	s.memCache.Flush()

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (s *BoltStore) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	return n, err
}

// Close closes the underlying file
func (s *BoltStore) Close() error {
	s.memCache.Flush()
	return s.db.Close()
}
