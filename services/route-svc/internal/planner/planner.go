package planner

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"seaway/pkg/apperror"
	"seaway/pkg/cache"
	"seaway/pkg/config"
	"seaway/pkg/logger"
	"seaway/pkg/metrics"
	"seaway/pkg/telemetry"
	"seaway/services/route-svc/internal/maritime"
	"seaway/services/route-svc/internal/pathfinding"
	"seaway/services/route-svc/internal/portstore"
)

// Planner computes detailed routes between seaports. It owns an immutable
// graph snapshot, a memoized port lookup, a two-tier route cache and the
// in-flight request deduplication group.
type Planner struct {
	cfg    *config.RoutingConfig
	store  portstore.PortStore
	shared *cache.Shared
	local  *cache.MemoryCache
	hubs   *pathfinding.HubRouter
	mat    *Materializer

	graph atomic.Pointer[pathfinding.Graph]

	// Copy-on-write port memo; readers never block.
	portsMu sync.Mutex
	ports   atomic.Pointer[map[string]*maritime.Port]

	flight singleflight.Group
}

// cachedRoutes is the cache payload: the full ranked candidate list, so
// responses with different alternative counts share one entry.
type cachedRoutes struct {
	Routes     []*maritime.DetailedRoute `json:"routes"`
	Candidates int                       `json:"candidates"`
}

// New builds a planner over the given port set. The shared cache is
// optional; without it only the in-process tier is used.
func New(cfg *config.RoutingConfig, store portstore.PortStore, shared *cache.Shared, ports []*maritime.Port) *Planner {
	p := &Planner{
		cfg:    cfg,
		store:  store,
		shared: shared,
		local: cache.NewMemoryCache(&cache.Options{
			DefaultTTL:    cfg.RouteTTL(),
			MaxEntries:    cfg.RouteCacheCapacity,
			EvictFraction: 0.1,
		}),
		hubs: pathfinding.NewHubRouter(cfg.HubCodes, cfg.HubDetourCap),
		mat:  NewMaterializer(cfg.FuelPriceUSDPerTon, cfg.DefaultDwellHours, cfg.DefaultLoadFactor),
	}

	empty := map[string]*maritime.Port{}
	p.ports.Store(&empty)
	p.UpdateGraph(ports)
	return p
}

// UpdateGraph rebuilds the routing graph from a fresh port set and swaps
// the snapshot atomically. In-flight searches keep the old snapshot.
func (p *Planner) UpdateGraph(ports []*maritime.Port) {
	g := pathfinding.NewGraph(ports, p.cfg.MaxEdgeDistanceNM)
	p.graph.Store(g)
	metrics.Get().RecordGraphSize(g.PortCount(), g.EdgeCount())
	logger.Info("routing graph rebuilt", "ports", g.PortCount(), "edges", g.EdgeCount())
}

// Close releases the in-process route cache.
func (p *Planner) Close() {
	p.local.Close()
}

// Plan runs the full calculation for one request.
func (p *Planner) Plan(ctx context.Context, req *maritime.RouteRequest) (*maritime.RouteResponse, error) {
	start := time.Now()

	normalize(req)
	if err := validateRequest(req, start); err != nil {
		metrics.Get().RecordRouteRequest(string(req.Criterion), "validation_error", time.Since(start))
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "Planner.Plan")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, req.Timeout())
	defer cancel()

	origin, err := p.resolvePort(ctx, req.Origin)
	if err != nil {
		metrics.Get().RecordRouteRequest(string(req.Criterion), "port_error", time.Since(start))
		return nil, err
	}
	destination, err := p.resolvePort(ctx, req.Destination)
	if err != nil {
		metrics.Get().RecordRouteRequest(string(req.Criterion), "port_error", time.Since(start))
		return nil, err
	}

	// Destination compatibility is enforced per edge during search; the
	// origin is only ever departed from, so it is checked once here.
	if !origin.CanAccommodate(req.Vessel) {
		metrics.Get().RecordRouteRequest(string(req.Criterion), "vessel_error", time.Since(start))
		return nil, apperror.NewWithField(apperror.CodeVesselConstraint,
			"vessel exceeds origin port limits", req.Origin)
	}

	fp := cache.RouteFingerprint{
		Origin:      req.Origin,
		Destination: req.Destination,
		VesselType:  string(req.Vessel.Type),
		VesselDWT:   req.Vessel.DWT,
		Criterion:   string(req.Criterion),
		MaxStops:    req.MaxConnectingPorts,
	}

	if cached, ok := p.cacheGet(ctx, fp); ok {
		metrics.Get().RecordRouteRequest(string(req.Criterion), "cache_hit", time.Since(start))
		return p.assemble(req, cached, start, true), nil
	}

	// Concurrent requests with the same fingerprint share one computation.
	// The computation is detached from any single caller's cancellation;
	// each waiter still honors its own deadline.
	outer := ctx
	ch := p.flight.DoChan(fp.Identifier(), func() (any, error) {
		cctx, ccancel := context.WithTimeout(context.WithoutCancel(outer), req.Timeout())
		defer ccancel()
		return p.compute(cctx, req, origin, destination, fp)
	})

	select {
	case <-ctx.Done():
		metrics.Get().RecordRouteRequest(string(req.Criterion), "timeout", time.Since(start))
		return nil, timeoutError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			metrics.Get().RecordRouteRequest(string(req.Criterion), "error", time.Since(start))
			return nil, res.Err
		}
		cached := res.Val.(*cachedRoutes)
		metrics.Get().RecordRouteRequest(string(req.Criterion), "success", time.Since(start))
		return p.assemble(req, cached, start, false), nil
	}
}

// compute is the uncached calculation path: generate, materialize, rank,
// and write both cache tiers.
func (p *Planner) compute(ctx context.Context, req *maritime.RouteRequest, origin, destination *maritime.Port, fp cache.RouteFingerprint) (*cachedRoutes, error) {
	ctx, span := telemetry.StartSpan(ctx, "Planner.compute")
	defer span.End()

	// A losing racer may have populated the cache before our flight won.
	if cached, ok := p.cacheGet(ctx, fp); ok {
		return cached, nil
	}

	g := p.graph.Load()

	pfStart := time.Now()
	candidates, expanded, err := p.generateCandidates(ctx, g, req, origin, destination)
	if err != nil {
		return nil, err
	}
	metrics.Get().RecordPathfinding(req.Criterion.AlgorithmTag(), time.Since(pfStart), expanded)
	metrics.Get().RecordCandidates(string(req.Criterion), len(candidates))

	if len(candidates) == 0 {
		return nil, apperror.NewWithField(apperror.CodeNoRoute,
			"no feasible route between ports", req.Origin+"-"+req.Destination)
	}

	routes, err := p.materializeAll(ctx, candidates, req)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, apperror.NewWithField(apperror.CodeNoRoute,
			"every candidate route was rejected", req.Origin+"-"+req.Destination)
	}

	rankRoutes(routes, req.Criterion)

	if err := ctx.Err(); err != nil {
		return nil, timeoutError(err)
	}

	result := &cachedRoutes{Routes: routes, Candidates: len(candidates)}
	p.cacheSet(ctx, fp, result)

	logger.Info("route calculated",
		"origin", req.Origin,
		"destination", req.Destination,
		"criterion", req.Criterion,
		"candidates", len(candidates),
		"routes", len(routes),
		"distance_nm", routes[0].Totals.DistanceNM,
	)
	return result, nil
}

// materializeAll costs candidates on a bounded worker group. Failed
// candidates are skipped; generation order is preserved for ranking ties.
func (p *Planner) materializeAll(ctx context.Context, candidates [][]string, req *maritime.RouteRequest) ([]*maritime.DetailedRoute, error) {
	built := make([]*maritime.DetailedRoute, len(candidates))

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, codes := range candidates {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			ports, err := p.resolveSequence(egCtx, codes)
			if err != nil {
				return err
			}

			route, err := p.mat.Build(i+1, ports, req.Vessel, req.Criterion)
			if err != nil {
				logger.Debug("candidate rejected",
					"ports", codes, "error", err)
				return nil
			}
			built[i] = route
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, timeoutError(err)
		}
		return nil, err
	}

	routes := make([]*maritime.DetailedRoute, 0, len(built))
	for _, r := range built {
		if r != nil {
			routes = append(routes, r)
		}
	}
	return routes, nil
}

// assemble builds the per-caller response around the shared ranked list.
func (p *Planner) assemble(req *maritime.RouteRequest, cached *cachedRoutes, start time.Time, hit bool) *maritime.RouteResponse {
	resp := &maritime.RouteResponse{
		RequestID:           uuid.NewString(),
		CalculatedAt:        time.Now().UTC(),
		CalculationDuration: time.Since(start),
		Route:               cached.Routes[0],
		Criterion:           req.Criterion,
		CandidatesEvaluated: cached.Candidates,
		CacheHit:            hit,
	}

	if req.IncludeAlternatives && len(cached.Routes) > 1 {
		n := req.MaxAlternatives
		if n > len(cached.Routes)-1 {
			n = len(cached.Routes) - 1
		}
		resp.Alternatives = cached.Routes[1 : 1+n]
	}
	return resp
}

// resolvePort looks up a port through the copy-on-write memo and rejects
// anything that is not active.
func (p *Planner) resolvePort(ctx context.Context, unlocode string) (*maritime.Port, error) {
	if port, ok := (*p.ports.Load())[unlocode]; ok {
		if !port.IsActive() {
			return nil, apperror.NewWithField(apperror.CodePortNotFound, "port is not active", unlocode)
		}
		return port, nil
	}

	port, err := p.store.GetPort(ctx, unlocode)
	if err != nil {
		return nil, err
	}

	p.portsMu.Lock()
	old := *p.ports.Load()
	next := make(map[string]*maritime.Port, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[unlocode] = port
	p.ports.Store(&next)
	p.portsMu.Unlock()

	if !port.IsActive() {
		return nil, apperror.NewWithField(apperror.CodePortNotFound, "port is not active", unlocode)
	}
	return port, nil
}

// resolveSequence maps candidate codes to port records, preferring the
// graph snapshot so materialization never blocks on the store.
func (p *Planner) resolveSequence(ctx context.Context, codes []string) ([]*maritime.Port, error) {
	g := p.graph.Load()
	ports := make([]*maritime.Port, 0, len(codes))
	for _, code := range codes {
		if port := g.Port(code); port != nil {
			ports = append(ports, port)
			continue
		}
		port, err := p.resolvePort(ctx, code)
		if err != nil {
			return nil, err
		}
		ports = append(ports, port)
	}
	return ports, nil
}

func (p *Planner) cacheGet(ctx context.Context, fp cache.RouteFingerprint) (*cachedRoutes, bool) {
	m := metrics.Get()

	if data, err := p.local.Get(ctx, fp.Key()); err == nil {
		m.RecordCacheOperation("local", "get", "hit")
		if cached := decodeRoutes(data); cached != nil {
			return cached, true
		}
	} else {
		m.RecordCacheOperation("local", "get", "miss")
	}

	if p.shared == nil {
		return nil, false
	}

	data, ok := p.shared.Get(ctx, cache.NamespaceRoute, fp.Identifier())
	if !ok {
		m.RecordCacheOperation("shared", "get", "miss")
		return nil, false
	}
	m.RecordCacheOperation("shared", "get", "hit")

	cached := decodeRoutes(data)
	if cached == nil {
		return nil, false
	}

	// Backfill the local tier so the next hit skips the network.
	if err := p.local.Set(ctx, fp.Key(), data, p.cfg.RouteTTL()); err != nil {
		logger.Warn("local cache backfill failed", "error", err)
	}
	return cached, true
}

func (p *Planner) cacheSet(ctx context.Context, fp cache.RouteFingerprint, cached *cachedRoutes) {
	data, err := json.Marshal(cached)
	if err != nil {
		logger.Warn("failed to encode routes for caching", "error", err)
		return
	}

	if err := p.local.Set(ctx, fp.Key(), data, p.cfg.RouteTTL()); err != nil {
		logger.Warn("local route cache write failed", "error", err)
	} else {
		metrics.Get().RecordCacheOperation("local", "set", "ok")
	}

	if p.shared != nil {
		outcome := "ok"
		if !p.shared.Set(ctx, cache.NamespaceRoute, fp.Identifier(), data, p.cfg.RouteTTL()) {
			outcome = "error"
		}
		metrics.Get().RecordCacheOperation("shared", "set", outcome)
	}
}

func decodeRoutes(data []byte) *cachedRoutes {
	var cached cachedRoutes
	if err := json.Unmarshal(data, &cached); err != nil || len(cached.Routes) == 0 {
		logger.Warn("undecodable route cache entry dropped", "error", err)
		return nil
	}
	return &cached
}

func timeoutError(cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return apperror.New(apperror.CodeTimeout, "route calculation timed out")
	}
	return apperror.Wrap(cause, apperror.CodeTimeout, "route calculation cancelled")
}
