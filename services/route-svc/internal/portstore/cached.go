package portstore

import (
	"context"
	"encoding/json"

	"seaway/pkg/cache"
	"seaway/pkg/geo"
	"seaway/pkg/logger"
	"seaway/pkg/metrics"
	"seaway/services/route-svc/internal/maritime"
)

// cached memoizes GetPort results in the shared cache under the port
// namespace. Search, nearby and statistics queries are parameter-heavy
// and pass through to the inner store.
type cached struct {
	inner  PortStore
	shared *cache.Shared
}

// WithCache decorates a store with shared-cache memoization of port
// lookups. A nil shared cache returns the inner store unchanged.
func WithCache(inner PortStore, shared *cache.Shared) PortStore {
	if shared == nil {
		return inner
	}
	return &cached{inner: inner, shared: shared}
}

func (c *cached) GetPort(ctx context.Context, unlocode string) (*maritime.Port, error) {
	if payload, ok := c.shared.Get(ctx, cache.NamespacePort, unlocode); ok {
		var port maritime.Port
		if err := json.Unmarshal(payload, &port); err == nil {
			metrics.Get().RecordPortLookup("get", "cache_hit")
			return &port, nil
		}
		// Undecodable entry, drop it and fall through to the store.
		c.shared.Delete(ctx, cache.NamespacePort, unlocode)
	}

	port, err := c.inner.GetPort(ctx, unlocode)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(port); err == nil {
		c.shared.Set(ctx, cache.NamespacePort, unlocode, payload, cache.PortTTL)
	} else {
		logger.Warn("failed to encode port for caching", "unlocode", unlocode, "error", err)
	}
	return port, nil
}

func (c *cached) SearchPorts(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	return c.inner.SearchPorts(ctx, q)
}

func (c *cached) NearbyPorts(ctx context.Context, center geo.Coordinates, radiusNM float64, limit int, vessel *maritime.VesselConstraints) ([]NearbyResult, error) {
	return c.inner.NearbyPorts(ctx, center, radiusNM, limit, vessel)
}

func (c *cached) Statistics(ctx context.Context) (*Statistics, error) {
	return c.inner.Statistics(ctx)
}
