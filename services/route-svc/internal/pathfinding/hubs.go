package pathfinding

import (
	"context"
	"math"
	"sort"

	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

// =============================================================================
// Hub-Biased Routing
// =============================================================================
//
// Long voyages tend to pass through a small set of world transshipment
// hubs. The hub router stitches shortest paths through the hubs nearest
// the endpoints and accepts a stitched route when its total stays within a
// configurable detour cap of the direct shortest path.
// =============================================================================

// DefaultHubCodes are the world hubs considered for hub-biased routing.
var DefaultHubCodes = []string{
	"SGSIN", "NLRTM", "CNSHA", "AEJEA", "USLAX",
	"DEHAM", "HKHKG", "USPNY", "BEANR", "JPNGO",
}

// Hub selection and acceptance parameters.
const (
	nearestHubsPerSide  = 3
	DefaultHubDetourCap = 1.2
)

// HubRouter generates hub-mediated route candidates.
type HubRouter struct {
	hubs      []string
	detourCap float64
}

// NewHubRouter creates a hub router. Empty arguments fall back to the
// defaults.
func NewHubRouter(hubs []string, detourCap float64) *HubRouter {
	if len(hubs) == 0 {
		hubs = DefaultHubCodes
	}
	if detourCap < 1 {
		detourCap = DefaultHubDetourCap
	}
	return &HubRouter{hubs: hubs, detourCap: detourCap}
}

// nearestHubs returns up to n hubs closest to the port, by great circle,
// excluding the port itself. Hubs absent from the graph are skipped.
func (h *HubRouter) nearestHubs(g *Graph, code string, n int) []string {
	port := g.Port(code)
	if port == nil {
		return nil
	}

	type hubDist struct {
		code string
		dist float64
	}

	var candidates []hubDist
	for _, hub := range h.hubs {
		if hub == code {
			continue
		}
		hp := g.Port(hub)
		if hp == nil {
			continue
		}
		candidates = append(candidates, hubDist{hub, geo.Distance(port.Coordinates, hp.Coordinates)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].code < candidates[j].code
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.code
	}
	return out
}

// stitch joins two path legs sharing a middle port, dropping the
// duplicated join point.
func stitch(first, second *Result) *Result {
	ports := make([]string, 0, len(first.Ports)+len(second.Ports)-1)
	ports = append(ports, first.Ports...)
	ports = append(ports, second.Ports[1:]...)

	return &Result{
		Ports:         ports,
		DistanceNM:    first.DistanceNM + second.DistanceNM,
		NodesExpanded: first.NodesExpanded + second.NodesExpanded,
	}
}

// Candidates produces hub-mediated candidates between source and target,
// sorted by total distance, at most limit entries.
//
// directDistance is the distance of the direct shortest path; pass a
// non-positive value when no direct path exists, which disables the
// detour cap.
func (h *HubRouter) Candidates(ctx context.Context, g *Graph, source, target string, vessel *maritime.VesselConstraints, directDistance float64, limit int, allowTwoHop bool) ([]*Result, error) {
	budget := math.Inf(1)
	if directDistance > 0 {
		budget = h.detourCap * directDistance
	}

	originHubs := h.nearestHubs(g, source, nearestHubsPerSide)
	targetHubs := h.nearestHubs(g, target, nearestHubsPerSide)

	// Legs are shared across candidates; memoize them.
	legs := map[edgeKey]*Result{}
	leg := func(from, to string) *Result {
		key := edgeKey{from, to}
		if r, ok := legs[key]; ok {
			return r
		}
		r, err := Dijkstra(ctx, g, from, to, vessel)
		if err != nil {
			r = nil
		}
		legs[key] = r
		return r
	}

	seen := map[string]bool{}
	var out []*Result

	add := func(r *Result) {
		if r == nil || r.DistanceNM > budget {
			return
		}
		key := pathKey(r.Ports)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, r)
	}

	// Single-hub candidates over the union of both hub sets.
	for _, hub := range hubUnion(originHubs, targetHubs) {
		if hub == source || hub == target {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		first := leg(source, hub)
		if first == nil {
			continue
		}
		second := leg(hub, target)
		if second == nil {
			continue
		}
		add(stitch(first, second))
	}

	// Two-hub stitching, accepted only when strictly improving on the
	// best candidate so far.
	if allowTwoHop {
		best := math.Inf(1)
		for _, r := range out {
			if r.DistanceNM < best {
				best = r.DistanceNM
			}
		}

		for _, h1 := range originHubs {
			for _, h2 := range targetHubs {
				if h1 == h2 || h1 == source || h2 == target {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				first := leg(source, h1)
				if first == nil {
					continue
				}
				middle := leg(h1, h2)
				if middle == nil {
					continue
				}
				last := leg(h2, target)
				if last == nil {
					continue
				}

				r := stitch(stitch(first, middle), last)
				if r.DistanceNM < best && r.DistanceNM <= budget {
					best = r.DistanceNM
					add(r)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceNM != out[j].DistanceNM {
			return out[i].DistanceNM < out[j].DistanceNM
		}
		return pathKey(out[i].Ports) < pathKey(out[j].Ports)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func hubUnion(a, b []string) []string {
	seen := map[string]bool{}
	var union []string
	for _, code := range a {
		if !seen[code] {
			seen[code] = true
			union = append(union, code)
		}
	}
	for _, code := range b {
		if !seen[code] {
			seen[code] = true
			union = append(union, code)
		}
	}
	return union
}

func pathKey(ports []string) string {
	key := ""
	for i, p := range ports {
		if i > 0 {
			key += ">"
		}
		key += p
	}
	return key
}
