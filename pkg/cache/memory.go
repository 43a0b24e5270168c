package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is the in-process cache implementation. When the entry count
// reaches the configured capacity, the least recently touched EvictFraction
// of entries is dropped in one batch.
type MemoryCache struct {
	mu            sync.Mutex
	entries       map[string]*memoryEntry
	defaultTTL    time.Duration
	maxEntries    int
	evictFraction float64

	hits   atomic.Int64
	misses atomic.Int64

	closed atomic.Bool
	done   chan struct{}
	wg     sync.WaitGroup
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
	touchedAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (e *memoryEntry) remaining(now time.Time) time.Duration {
	if e.expiresAt.IsZero() {
		return -1
	}
	if d := e.expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// NewMemoryCache creates an in-memory cache and starts its expiry sweeper.
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 100000
	}

	evictFraction := opts.EvictFraction
	if evictFraction <= 0 || evictFraction > 1 {
		evictFraction = 0.1
	}

	sweepInterval := opts.CleanupInterval
	if sweepInterval <= 0 {
		sweepInterval = 1 * time.Minute
	}

	c := &MemoryCache{
		entries:       make(map[string]*memoryEntry),
		defaultTTL:    opts.DefaultTTL,
		maxEntries:    maxEntries,
		evictFraction: evictFraction,
		done:          make(chan struct{}),
	}

	c.wg.Add(1)
	go c.sweepLoop(sweepInterval)

	return c
}

// lookup fetches a live entry and refreshes its recency. Caller must hold mu.
func (c *MemoryCache) lookup(key string, now time.Time) (*memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok || e.expired(now) {
		c.misses.Add(1)
		return nil, false
	}
	e.touchedAt = now
	c.hits.Add(1)
	return e, true
}

// store inserts a defensive copy of value, evicting first when at capacity.
// Caller must hold mu.
func (c *MemoryCache) store(key string, value []byte, ttl time.Duration, now time.Time) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if len(c.entries) >= c.maxEntries {
		c.evictBatch()
	}

	buf := make([]byte, len(value))
	copy(buf, value)

	c.entries[key] = &memoryEntry{
		value:     buf,
		expiresAt: expiresAt,
		touchedAt: now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookup(key, time.Now())
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(key, value, ttl, time.Now())
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && !e.expired(time.Now()), nil
}

func (c *MemoryCache) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	if c.closed.Load() {
		return nil, 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	e, ok := c.lookup(key, now)
	if !ok {
		return nil, 0, ErrKeyNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, e.remaining(now), nil
}

func (c *MemoryCache) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	result := make(map[string][]byte, len(keys))

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, key := range keys {
		if e, ok := c.lookup(key, now); ok {
			buf := make([]byte, len(e.value))
			copy(buf, e.value)
			result[key] = buf
		}
	}

	return result, nil
}

func (c *MemoryCache) MSet(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, value := range entries {
		c.store(key, value, ttl, now)
	}

	return nil
}

func (c *MemoryCache) MDelete(ctx context.Context, keys []string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			count++
		}
	}

	return count, nil
}

func (c *MemoryCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var keys []string
	for key, e := range c.entries {
		if !e.expired(now) && matchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (c *MemoryCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	for key := range c.entries {
		if matchPattern(pattern, key) {
			delete(c.entries, key)
			count++
		}
	}

	return count, nil
}

func (c *MemoryCache) Stats(ctx context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stats := &Stats{
		TotalKeys:    int64(len(c.entries)),
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		KeysByPrefix: make(map[string]int64),
		Backend:      "memory",
	}

	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}

	now := time.Now()
	for key, e := range c.entries {
		if !e.expired(now) {
			stats.MemoryBytes += int64(len(e.value))
			stats.KeysByPrefix[keyNamespace(key)]++
		}
	}

	return stats, nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	c.entries = make(map[string]*memoryEntry)
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil // already closed
	}

	close(c.done)
	c.wg.Wait()

	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) sweepLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep drops expired entries.
func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

// evictBatch drops the least recently touched evictFraction of entries.
// Caller must hold mu.
func (c *MemoryCache) evictBatch() {
	n := int(float64(len(c.entries)) * c.evictFraction)
	if n < 1 {
		n = 1
	}

	type aged struct {
		key       string
		touchedAt time.Time
	}
	byAge := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		byAge = append(byAge, aged{key, e.touchedAt})
	}

	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].touchedAt.Before(byAge[j].touchedAt)
	})

	for i := 0; i < n && i < len(byAge); i++ {
		delete(c.entries, byAge[i].key)
	}
}

// matchPattern checks a key against a glob-like pattern.
// Supported forms:
//   - "*" matches everything
//   - "prefix*" matches keys starting with prefix
//   - "*suffix" matches keys ending with suffix
//   - "prefix*suffix" matches both ends
func matchPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}

	star := strings.Index(pattern, "*")
	if star == -1 {
		return pattern == key
	}

	prefix := pattern[:star]
	suffix := pattern[star+1:]

	if len(key) < len(prefix)+len(suffix) {
		return false
	}

	return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix)
}

// keyNamespace returns the segment before the first colon.
func keyNamespace(key string) string {
	if idx := strings.Index(key, ":"); idx > 0 {
		return key[:idx]
	}
	return "other"
}
