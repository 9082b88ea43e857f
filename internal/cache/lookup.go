// Package cache keeps recently read single records in memory so repeated
// lookups by id skip the store.
package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/viccon/sturdyc"

	"github.com/maxviazov/catalog-service/internal/config"
)

// FetchFn loads a record on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Lookup caches records of one entity type by id. Keys are "<prefix>_<id>",
// suffixed with a generation once the id has been invalidated. A fetch that
// was in flight during Invalidate stores under the old generation, which no
// later Get reads. A disabled Lookup calls fetch every time.
type Lookup[T any] struct {
	prefix string
	client *sturdyc.Client[T]

	mu  sync.Mutex
	gen map[int64]uint64
}

// ConfigError reports an invalid cache setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}

func validate(cfg config.CacheConfig) error {
	switch {
	case cfg.Capacity <= 0:
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	case cfg.NumShards <= 0:
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	case cfg.TTL <= 0:
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	case cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100:
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// New builds a Lookup for the entity named by prefix, e.g. "Product".
func New[T any](prefix string, cfg config.CacheConfig) (*Lookup[T], error) {
	l := &Lookup[T]{prefix: prefix, gen: make(map[int64]uint64)}
	if !cfg.Enabled {
		return l, nil
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	l.client = sturdyc.New[T](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return l, nil
}

// Key is the cache key for id.
func (l *Lookup[T]) Key(id int64) string {
	return l.prefix + "_" + strconv.FormatInt(id, 10)
}

func (l *Lookup[T]) versionedKey(id int64) string {
	l.mu.Lock()
	g := l.gen[id]
	l.mu.Unlock()
	if g == 0 {
		return l.Key(id)
	}
	return l.Key(id) + "#" + strconv.FormatUint(g, 10)
}

// Get returns the cached record for id or loads it with fetch. Fetch errors
// are returned as-is and nothing is stored for them.
func (l *Lookup[T]) Get(ctx context.Context, id int64, fetch FetchFn[T]) (T, error) {
	if l.client == nil {
		return fetch(ctx)
	}
	v, err := l.client.GetOrFetch(ctx, l.versionedKey(id), func(ctx context.Context) (T, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Invalidate drops the entry for id, if any, and moves id to a new
// generation.
func (l *Lookup[T]) Invalidate(id int64) {
	if l.client == nil {
		return
	}
	old := l.versionedKey(id)
	l.mu.Lock()
	l.gen[id]++
	l.mu.Unlock()
	l.client.Delete(old)
}

// Enabled reports whether records are actually cached.
func (l *Lookup[T]) Enabled() bool { return l.client != nil }
