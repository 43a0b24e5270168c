package pathfinding

import (
	"context"

	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

// =============================================================================
// A* Search
// =============================================================================
//
// A* with the great-circle distance to the target as heuristic. The
// heuristic is admissible: no sea route between two ports can be shorter
// than the great circle connecting them, so A* settles on the same optimal
// cost as Dijkstra while expanding fewer nodes on geographically
// well-structured graphs.
// =============================================================================

// AStar finds the shortest admissible path from source to target using the
// great-circle lower bound to the target.
func AStar(ctx context.Context, g *Graph, source, target string, vessel *maritime.VesselConstraints) (*Result, error) {
	opts := searchOptions{}
	if targetPort := g.Port(target); targetPort != nil {
		opts.heuristic = func(code string) float64 {
			return geo.Distance(g.Port(code).Coordinates, targetPort.Coordinates)
		}
	}
	return search(ctx, g, source, target, vessel, opts)
}
