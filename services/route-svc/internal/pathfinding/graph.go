// Package pathfinding implements the port graph and the route search
// algorithms over it: Dijkstra, A*, hub-biased routing and penalty-based
// k-alternative search.
package pathfinding

import (
	"sort"

	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

// DefaultMaxEdgeDistanceNM bounds edge length in the port graph.
const DefaultMaxEdgeDistanceNM = 5000.0

// Graph is an immutable snapshot of the port network. Edges are
// bidirectional with equal weight in both directions; an edge exists iff
// the great-circle distance between its endpoints does not exceed the
// build threshold.
type Graph struct {
	ports map[string]*maritime.Port
	adj   map[string]map[string]float64
	edges int
}

// NewGraph builds a graph over the given port set. Build cost is
// quadratic in the number of ports; the snapshot is read-only afterwards.
func NewGraph(ports []*maritime.Port, maxEdgeNM float64) *Graph {
	if maxEdgeNM <= 0 {
		maxEdgeNM = DefaultMaxEdgeDistanceNM
	}

	g := &Graph{
		ports: make(map[string]*maritime.Port, len(ports)),
		adj:   make(map[string]map[string]float64, len(ports)),
	}

	codes := make([]string, 0, len(ports))
	for _, p := range ports {
		if p == nil || p.UNLOCODE == "" {
			continue
		}
		if _, dup := g.ports[p.UNLOCODE]; dup {
			continue
		}
		g.ports[p.UNLOCODE] = p
		g.adj[p.UNLOCODE] = make(map[string]float64)
		codes = append(codes, p.UNLOCODE)
	}
	sort.Strings(codes)

	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			u, v := codes[i], codes[j]
			d := geo.Distance(g.ports[u].Coordinates, g.ports[v].Coordinates)
			if d <= maxEdgeNM {
				g.adj[u][v] = d
				g.adj[v][u] = d
				g.edges++
			}
		}
	}

	return g
}

// Port returns the port record for a code, or nil.
func (g *Graph) Port(code string) *maritime.Port {
	return g.ports[code]
}

// HasPort reports whether the code is in the snapshot.
func (g *Graph) HasPort(code string) bool {
	_, ok := g.ports[code]
	return ok
}

// Neighbors returns the adjacency map of a port. The returned map must
// not be modified.
func (g *Graph) Neighbors(code string) map[string]float64 {
	return g.adj[code]
}

// Edge returns the weight of the edge (u,v) and whether it exists.
func (g *Graph) Edge(u, v string) (float64, bool) {
	d, ok := g.adj[u][v]
	return d, ok
}

// PortCount returns the number of ports in the snapshot.
func (g *Graph) PortCount() int {
	return len(g.ports)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Codes returns the sorted port codes of the snapshot.
func (g *Graph) Codes() []string {
	codes := make([]string, 0, len(g.ports))
	for code := range g.ports {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// admissible reports whether a vessel may sail the edge to port v with
// the given weight. The leg must fit the fuel range and the destination
// port must physically accept the vessel.
func (g *Graph) admissible(vessel *maritime.VesselConstraints, to string, weight float64) bool {
	if vessel == nil {
		return true
	}
	if vessel.MaxRange > 0 && weight > vessel.MaxRange {
		return false
	}
	return g.ports[to].CanAccommodate(vessel)
}
