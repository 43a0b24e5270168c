// Package portstore provides access to the port registry: direct lookup,
// fuzzy search, spatial queries and statistics, backed by PostgreSQL with
// a shared-cache memoization layer.
package portstore

import (
	"context"

	"seaway/pkg/apperror"
	"seaway/pkg/geo"
	"seaway/pkg/logger"
	"seaway/services/route-svc/internal/maritime"
)

// SearchQuery parameterizes a fuzzy port search.
type SearchQuery struct {
	Query           string
	Limit           int
	Country         string // optional ISO country filter
	Vessel          *maritime.VesselConstraints
	IncludeInactive bool
}

// SearchResult pairs a port with its match relevance in [0,100].
type SearchResult struct {
	Port      *maritime.Port
	Relevance float64
}

// NearbyResult pairs a port with its distance from the query center.
type NearbyResult struct {
	Port       *maritime.Port
	DistanceNM float64
}

// Statistics summarizes the port registry.
type Statistics struct {
	Total     int64
	Active    int64
	Countries int64
	Types     map[string]int64
}

// PortStore is the registry interface consumed by the planner.
type PortStore interface {
	// GetPort returns the port with the given UN/LOCODE, or a
	// PORT_NOT_FOUND error.
	GetPort(ctx context.Context, unlocode string) (*maritime.Port, error)
	// SearchPorts performs a fuzzy search ordered by relevance
	// descending, name ascending.
	SearchPorts(ctx context.Context, q SearchQuery) ([]SearchResult, error)
	// NearbyPorts returns ports within radiusNM of center, nearest first.
	NearbyPorts(ctx context.Context, center geo.Coordinates, radiusNM float64, limit int, vessel *maritime.VesselConstraints) ([]NearbyResult, error)
	// Statistics summarizes the registry.
	Statistics(ctx context.Context) (*Statistics, error)
}

// retrying wraps a PortStore so that transient failures are retried once
// before surfacing as an upstream failure. Not-found results pass through
// untouched.
type retrying struct {
	inner PortStore
}

// WithRetry decorates a store with the single-retry policy.
func WithRetry(inner PortStore) PortStore {
	return &retrying{inner: inner}
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	switch apperror.Code(err) {
	case apperror.CodePortNotFound, apperror.CodePortInactive:
		return false
	}
	return true
}

func (r *retrying) GetPort(ctx context.Context, unlocode string) (*maritime.Port, error) {
	p, err := r.inner.GetPort(ctx, unlocode)
	if !retryable(err) {
		return p, err
	}

	logger.Warn("port lookup failed, retrying once", "unlocode", unlocode, "error", err)
	p, err = r.inner.GetPort(ctx, unlocode)
	if retryable(err) {
		return nil, apperror.Wrap(err, apperror.CodeUpstream, "port store unavailable")
	}
	return p, err
}

func (r *retrying) SearchPorts(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	res, err := r.inner.SearchPorts(ctx, q)
	if !retryable(err) {
		return res, err
	}

	logger.Warn("port search failed, retrying once", "query", q.Query, "error", err)
	res, err = r.inner.SearchPorts(ctx, q)
	if retryable(err) {
		return nil, apperror.Wrap(err, apperror.CodeUpstream, "port store unavailable")
	}
	return res, err
}

func (r *retrying) NearbyPorts(ctx context.Context, center geo.Coordinates, radiusNM float64, limit int, vessel *maritime.VesselConstraints) ([]NearbyResult, error) {
	res, err := r.inner.NearbyPorts(ctx, center, radiusNM, limit, vessel)
	if !retryable(err) {
		return res, err
	}

	logger.Warn("nearby port query failed, retrying once", "error", err)
	res, err = r.inner.NearbyPorts(ctx, center, radiusNM, limit, vessel)
	if retryable(err) {
		return nil, apperror.Wrap(err, apperror.CodeUpstream, "port store unavailable")
	}
	return res, err
}

func (r *retrying) Statistics(ctx context.Context) (*Statistics, error) {
	s, err := r.inner.Statistics(ctx)
	if !retryable(err) {
		return s, err
	}

	logger.Warn("port statistics failed, retrying once", "error", err)
	s, err = r.inner.Statistics(ctx)
	if retryable(err) {
		return nil, apperror.Wrap(err, apperror.CodeUpstream, "port store unavailable")
	}
	return s, err
}
