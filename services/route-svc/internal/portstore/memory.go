package portstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"seaway/pkg/apperror"
	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

// MemoryStore is an in-memory port registry. It mirrors the relevance
// and ordering semantics of the PostgreSQL store and is used for seeding
// and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	ports map[string]*maritime.Port
}

// NewMemoryStore creates a registry preloaded with the given ports.
func NewMemoryStore(ports ...*maritime.Port) *MemoryStore {
	s := &MemoryStore{ports: make(map[string]*maritime.Port, len(ports))}
	for _, p := range ports {
		if p != nil {
			s.ports[p.UNLOCODE] = p
		}
	}
	return s
}

// Add inserts or replaces a port.
func (s *MemoryStore) Add(p *maritime.Port) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.ports[p.UNLOCODE] = p
	s.mu.Unlock()
}

func (s *MemoryStore) GetPort(ctx context.Context, unlocode string) (*maritime.Port, error) {
	s.mu.RLock()
	p, ok := s.ports[unlocode]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.NewWithField(apperror.CodePortNotFound, "port not found", unlocode)
	}
	cp := *p
	return &cp, nil
}

// relevanceFor applies the same bands as the SQL store: exact UN/LOCODE
// 100, exact name 95, UN/LOCODE prefix 90, name prefix 85, name substring
// 70, country prefix 50, anything else that matched 30.
func relevanceFor(p *maritime.Port, upper, lower string) (float64, bool) {
	name := strings.ToLower(p.Name)
	country := strings.ToLower(p.Country)

	matched := strings.HasPrefix(p.UNLOCODE, upper) ||
		strings.Contains(name, lower) ||
		strings.HasPrefix(country, lower)
	if !matched {
		return 0, false
	}

	switch {
	case p.UNLOCODE == upper:
		return 100, true
	case name == lower:
		return 95, true
	case strings.HasPrefix(p.UNLOCODE, upper):
		return 90, true
	case strings.HasPrefix(name, lower):
		return 85, true
	case strings.Contains(name, lower):
		return 70, true
	case strings.HasPrefix(country, lower):
		return 50, true
	}
	return 30, true
}

func (s *MemoryStore) SearchPorts(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	term := strings.TrimSpace(q.Query)
	upper := strings.ToUpper(term)
	lower := strings.ToLower(term)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []SearchResult
	for _, p := range s.ports {
		if !q.IncludeInactive && !p.IsActive() {
			continue
		}
		if q.Country != "" && p.Country != strings.ToUpper(q.Country) {
			continue
		}
		rel, ok := relevanceFor(p, upper, lower)
		if !ok {
			continue
		}
		if q.Vessel != nil && !p.CanAccommodate(q.Vessel) {
			continue
		}
		cp := *p
		results = append(results, SearchResult{Port: &cp, Relevance: rel})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Port.Name < results[j].Port.Name
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) NearbyPorts(ctx context.Context, center geo.Coordinates, radiusNM float64, limit int, vessel *maritime.VesselConstraints) ([]NearbyResult, error) {
	if radiusNM <= 0 {
		return nil, apperror.New(apperror.CodeInvalidDistance, "radius must be positive")
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []NearbyResult
	for _, p := range s.ports {
		if !p.IsActive() {
			continue
		}
		if vessel != nil && !p.CanAccommodate(vessel) {
			continue
		}
		d := geo.Distance(center, p.Coordinates)
		if d > radiusNM {
			continue
		}
		cp := *p
		results = append(results, NearbyResult{Port: &cp, DistanceNM: d})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceNM != results[j].DistanceNM {
			return results[i].DistanceNM < results[j].DistanceNM
		}
		return results[i].Port.UNLOCODE < results[j].Port.UNLOCODE
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) Statistics(ctx context.Context) (*Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Statistics{Types: make(map[string]int64)}
	countries := make(map[string]struct{})
	for _, p := range s.ports {
		stats.Total++
		if p.IsActive() {
			stats.Active++
		}
		countries[p.Country] = struct{}{}
		if p.Type != "" {
			stats.Types[p.Type]++
		}
	}
	stats.Countries = int64(len(countries))
	return stats, nil
}
