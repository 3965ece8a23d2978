// Package memory provides an in-process db.KVStore for single-instance deployments and tests.
package memory

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kailas-cloud/estaterec/internal/db"
)

// Compile-time check: Store implements db.KVStore.
var _ db.KVStore = (*Store)(nil)

// Store keeps values in a go-cache instance. Expired keys are swept every cleanupInterval.
type Store struct {
	cache  *gocache.Cache
	closed atomic.Bool
}

// NewStore creates an empty store.
func NewStore(cleanupInterval time.Duration) *Store {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &Store{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	data, _ := v.([]byte)
	return append([]byte(nil), data...), nil
}

// SetWithTTL stores a copy of value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSet, Err: db.ErrClosed}
	}
	s.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Del removes key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	s.cache.Delete(key)
	return nil
}

// Close drops all keys and rejects further operations.
func (s *Store) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cache.Flush()
	}
}

// WaitForReady returns immediately; an in-process store is ready once created.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}
