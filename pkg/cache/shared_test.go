package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// failingCache errors on every operation, simulating an unreachable backend.
type failingCache struct{}

var errBackendDown = errors.New("backend down")

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, errBackendDown }
func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errBackendDown
}
func (failingCache) Delete(ctx context.Context, key string) error        { return errBackendDown }
func (failingCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, errBackendDown
}
func (failingCache) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	return nil, 0, errBackendDown
}
func (failingCache) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	return nil, errBackendDown
}
func (failingCache) MSet(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	return errBackendDown
}
func (failingCache) MDelete(ctx context.Context, keys []string) (int64, error) {
	return 0, errBackendDown
}
func (failingCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	return nil, errBackendDown
}
func (failingCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	return 0, errBackendDown
}
func (failingCache) Stats(ctx context.Context) (*Stats, error) { return nil, errBackendDown }
func (failingCache) Clear(ctx context.Context) error           { return errBackendDown }
func (failingCache) Close() error                              { return nil }

func TestShared_RoundTrip(t *testing.T) {
	backend := newTestMemoryCache(100)
	defer backend.Close()

	shared := NewShared(backend)
	ctx := context.Background()

	value := []byte(`{"route_id":"r1"}`)
	if !shared.Set(ctx, NamespaceRoute, "abc123", value, RouteTTL) {
		t.Fatal("Set should succeed")
	}

	got, ok := shared.Get(ctx, NamespaceRoute, "abc123")
	if !ok {
		t.Fatal("Get should hit")
	}
	if string(got) != string(value) {
		t.Errorf("Get = %q, want %q", got, value)
	}

	// The stored form carries the compression flag
	raw, err := backend.Get(ctx, "route:abc123")
	if err != nil {
		t.Fatalf("backend Get failed: %v", err)
	}
	if raw[0] != flagRaw {
		t.Errorf("small stored payload should be raw flagged")
	}
}

func TestShared_CompressedRoundTrip(t *testing.T) {
	backend := newTestMemoryCache(100)
	defer backend.Close()

	shared := NewShared(backend)
	ctx := context.Background()

	value := []byte(strings.Repeat("waypoint ", 500))
	shared.Set(ctx, NamespaceRoute, "big", value, RouteTTL)

	raw, _ := backend.Get(ctx, "route:big")
	if raw[0] != flagCompressed {
		t.Errorf("large payload should be stored compressed")
	}

	got, ok := shared.Get(ctx, NamespaceRoute, "big")
	if !ok || string(got) != string(value) {
		t.Errorf("compressed round trip failed")
	}
}

func TestShared_Miss(t *testing.T) {
	backend := newTestMemoryCache(100)
	defer backend.Close()

	shared := NewShared(backend)

	if _, ok := shared.Get(context.Background(), NamespaceRoute, "nope"); ok {
		t.Error("Get on absent key should miss")
	}
}

func TestShared_BackendFailureDegradesToMiss(t *testing.T) {
	shared := NewShared(failingCache{})
	ctx := context.Background()

	if _, ok := shared.Get(ctx, NamespaceRoute, "x"); ok {
		t.Error("Get against a failing backend should report a miss")
	}
	if shared.Set(ctx, NamespaceRoute, "x", []byte("v"), RouteTTL) {
		t.Error("Set against a failing backend should report failure")
	}
	if shared.Delete(ctx, NamespaceRoute, "x") {
		t.Error("Delete against a failing backend should report failure")
	}
	if shared.Health(ctx) {
		t.Error("Health against a failing backend should be false")
	}
}

func TestShared_CorruptEntryDeleted(t *testing.T) {
	backend := newTestMemoryCache(100)
	defer backend.Close()

	shared := NewShared(backend)
	ctx := context.Background()

	// Write a payload with a bogus flag byte directly into the backend
	_ = backend.Set(ctx, "port:SGSIN", []byte{0x7f, 1, 2, 3}, time.Minute)

	if _, ok := shared.Get(ctx, NamespacePort, "SGSIN"); ok {
		t.Fatal("corrupt entry should miss")
	}

	// The corrupt entry is purged so it cannot poison later reads
	if exists, _ := backend.Exists(ctx, "port:SGSIN"); exists {
		t.Error("corrupt entry should have been deleted")
	}
}

func TestShared_NilSafe(t *testing.T) {
	var shared *Shared
	ctx := context.Background()

	if _, ok := shared.Get(ctx, NamespaceRoute, "x"); ok {
		t.Error("nil Shared Get should miss")
	}
	if shared.Set(ctx, NamespaceRoute, "x", []byte("v"), RouteTTL) {
		t.Error("nil Shared Set should fail")
	}
	if shared.Health(ctx) {
		t.Error("nil Shared Health should be false")
	}

	empty := NewShared(nil)
	if _, ok := empty.Get(ctx, NamespaceRoute, "x"); ok {
		t.Error("Shared without backend should miss")
	}
}

func TestShared_Health(t *testing.T) {
	backend := newTestMemoryCache(100)
	defer backend.Close()

	shared := NewShared(backend)
	if !shared.Health(context.Background()) {
		t.Error("Health over a live backend should be true")
	}
}
