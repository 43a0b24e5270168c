package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seaway/pkg/logger"
)

// Namespaces used by the routing core and their default TTLs.
const (
	NamespaceRoute  = "route"
	NamespacePort   = "port"
	NamespaceVessel = "vessel"

	RouteTTL  = 30 * time.Minute
	PortTTL   = 24 * time.Hour
	VesselTTL = 60 * time.Second
)

// SharedCache is the cross-process cache consumed by the route planner.
// Every failure on Get or Set degrades to a miss so that a broken cache
// backend never fails a request.
type SharedCache interface {
	// Get returns the stored value, or (nil, false) on miss or failure.
	Get(ctx context.Context, namespace, identifier string) ([]byte, bool)
	// Set stores the value with a TTL and reports whether the write landed.
	Set(ctx context.Context, namespace, identifier string, value []byte, ttl time.Duration) bool
	// Delete removes an entry and reports whether the delete succeeded.
	Delete(ctx context.Context, namespace, identifier string) bool
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) bool
}

// Shared wraps a Cache backend with namespacing, transparent compression,
// and graceful degradation.
type Shared struct {
	backend Cache
}

// NewShared creates the shared cache facade over a backend.
func NewShared(backend Cache) *Shared {
	return &Shared{backend: backend}
}

func sharedKey(namespace, identifier string) string {
	return fmt.Sprintf("%s:%s", namespace, identifier)
}

// Get implements SharedCache.
func (s *Shared) Get(ctx context.Context, namespace, identifier string) ([]byte, bool) {
	if s == nil || s.backend == nil {
		return nil, false
	}

	payload, err := s.backend.Get(ctx, sharedKey(namespace, identifier))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			logger.Warn("shared cache get failed, treating as miss",
				"namespace", namespace, "error", err)
		}
		return nil, false
	}

	value, err := Decode(payload)
	if err != nil {
		// Corrupt entry, drop it
		_ = s.backend.Delete(ctx, sharedKey(namespace, identifier)) //nolint:errcheck // best effort cleanup
		logger.Warn("shared cache entry corrupt, deleted",
			"namespace", namespace, "error", err)
		return nil, false
	}

	return value, true
}

// Set implements SharedCache.
func (s *Shared) Set(ctx context.Context, namespace, identifier string, value []byte, ttl time.Duration) bool {
	if s == nil || s.backend == nil {
		return false
	}

	if err := s.backend.Set(ctx, sharedKey(namespace, identifier), Encode(value), ttl); err != nil {
		logger.Warn("shared cache set failed",
			"namespace", namespace, "error", err)
		return false
	}
	return true
}

// Delete implements SharedCache.
func (s *Shared) Delete(ctx context.Context, namespace, identifier string) bool {
	if s == nil || s.backend == nil {
		return false
	}

	if err := s.backend.Delete(ctx, sharedKey(namespace, identifier)); err != nil {
		logger.Warn("shared cache delete failed",
			"namespace", namespace, "error", err)
		return false
	}
	return true
}

// Health implements SharedCache.
func (s *Shared) Health(ctx context.Context) bool {
	if s == nil || s.backend == nil {
		return false
	}

	if _, err := s.backend.Stats(ctx); err != nil {
		return false
	}
	return true
}
