package planner

import (
	"context"

	"seaway/pkg/apperror"
	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
	"seaway/services/route-svc/internal/pathfinding"
)

// hubCandidateLimit caps the number of hub-mediated candidates per request.
const hubCandidateLimit = 5

// generateCandidates produces ordered port-code sequences for a request:
// the direct great-circle candidate when the vessel can sail it, up to five
// hub-mediated candidates when connecting ports are allowed, and diverse
// penalty-based alternatives when two or more connecting ports are allowed.
// The second return value is the total node-expansion count of the graph
// searches involved.
func (p *Planner) generateCandidates(ctx context.Context, g *pathfinding.Graph, req *maritime.RouteRequest, origin, destination *maritime.Port) ([][]string, int, error) {
	seen := map[string]bool{}
	expanded := 0
	var out [][]string

	add := func(codes []string) {
		key := joinCodes(codes)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, codes)
	}

	vessel := req.Vessel
	directNM := geo.Distance(origin.Coordinates, destination.Coordinates)

	// Direct candidate: the single-leg great-circle sailing, allowed when
	// it fits within the range safety margin and the vessel clears both
	// the destination port and any inferred canal.
	withinRange := vessel.MaxRange <= 0 || directNM <= p.cfg.DirectSafetyMargin*vessel.MaxRange
	canal := maritime.InferCanal(origin.Coordinates, destination.Coordinates)
	if withinRange && destination.CanAccommodate(vessel) && vessel.CanTransit(canal) {
		add([]string{origin.UNLOCODE, destination.UNLOCODE})
	}

	if req.MaxConnectingPorts < 1 {
		return out, expanded, nil
	}

	// Graph shortest path is the detour-cap baseline for hub candidates.
	baseline := 0.0
	if direct, err := pathfinding.Dijkstra(ctx, g, origin.UNLOCODE, destination.UNLOCODE, vessel); err == nil {
		baseline = direct.DistanceNM
		expanded += direct.NodesExpanded
	} else if apperror.Is(err, apperror.CodeTimeout) {
		return nil, expanded, err
	}

	hubResults, err := p.hubs.Candidates(ctx, g, origin.UNLOCODE, destination.UNLOCODE,
		vessel, baseline, hubCandidateLimit, req.MaxConnectingPorts >= 2)
	if err != nil {
		return nil, expanded, apperror.Wrap(err, apperror.CodeTimeout, "hub candidate search cancelled")
	}
	for _, r := range hubResults {
		expanded += r.NodesExpanded
		if len(r.Ports)-2 <= req.MaxConnectingPorts {
			add(r.Ports)
		}
	}

	if req.MaxConnectingPorts >= 2 && req.MaxAlternatives > 0 {
		alts, err := pathfinding.Alternatives(ctx, g, origin.UNLOCODE, destination.UNLOCODE,
			vessel, req.MaxAlternatives, p.cfg.PenaltyFactor)
		if err != nil && apperror.Is(err, apperror.CodeTimeout) {
			return nil, expanded, err
		}
		for _, r := range alts {
			expanded += r.NodesExpanded
			if len(r.Ports)-2 <= req.MaxConnectingPorts {
				add(r.Ports)
			}
		}
	}

	return out, expanded, nil
}

func joinCodes(codes []string) string {
	key := ""
	for _, c := range codes {
		key += c + ">"
	}
	return key
}
