// Package cache provides a flexible caching interface with in-memory and
// Redis-backed implementations, a canonical request fingerprint, and a
// namespaced shared-cache facade with transparent compression.
package cache

import (
	"context"
	"errors"
	"time"

	"seaway/pkg/config"
)

// Backend identifiers.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	// ErrKeyNotFound is returned when a requested key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned for operations on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is the operation set both backends implement. Get and GetWithTTL
// return ErrKeyNotFound for missing keys; Delete on a missing key is not an
// error. A ttl of zero or less falls back to the backend's default TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetWithTTL also reports the remaining lifetime; a negative ttl means
	// the entry never expires.
	GetWithTTL(ctx context.Context, key string) (value []byte, ttl time.Duration, err error)

	// MGet returns only the keys that were found. MDelete reports how many
	// keys were actually removed.
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)
	MSet(ctx context.Context, entries map[string][]byte, ttl time.Duration) error
	MDelete(ctx context.Context, keys []string) (int64, error)

	// Pattern operations walk the keyspace; keep them off hot paths.
	Keys(ctx context.Context, pattern string) ([]string, error)
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)

	Stats(ctx context.Context) (*Stats, error)
	Clear(ctx context.Context) error
	Close() error
}

// Stats describes a cache's performance and occupancy.
type Stats struct {
	TotalKeys    int64
	Hits         int64
	Misses       int64
	HitRate      float64
	MemoryBytes  int64
	KeysByPrefix map[string]int64
	Backend      string
}

// Options configures a cache instance.
type Options struct {
	Backend    string // BackendMemory or BackendRedis
	DefaultTTL time.Duration

	// Memory backend
	MaxEntries      int
	EvictFraction   float64 // share of entries dropped per eviction
	CleanupInterval time.Duration

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions returns options suitable for tests and local runs.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      5 * time.Minute,
		MaxEntries:      100000,
		EvictFraction:   0.1,
		CleanupInterval: 1 * time.Minute,
		RedisAddr:       "localhost:6379",
		RedisDB:         0,
		RedisPoolSize:   10,
	}
}

// FromConfig builds cache options from the service configuration.
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:       cfg.Driver,
		DefaultTTL:    cfg.DefaultTTL,
		MaxEntries:    cfg.MaxEntries,
		EvictFraction: 0.1,
		RedisAddr:     cfg.Address(),
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
		RedisPoolSize: 10,
	}
}

// New creates a cache from options. Unknown backends fall back to memory.
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	default:
		return NewMemoryCache(opts), nil
	}
}

// MustNew creates a cache or panics.
func MustNew(opts *Options) Cache {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}
