package pathfinding

import (
	"context"

	"seaway/pkg/apperror"
	"seaway/services/route-svc/internal/maritime"
)

// =============================================================================
// K-Alternative Paths
// =============================================================================
//
// Iterative penalty method: after each found path, its edges join a
// discouraged set whose members cost penaltyFactor times their real weight
// in subsequent searches. Edges are discouraged, never forbidden, so the
// method degrades gracefully on sparse graphs. Each reported distance is
// the real, unpenalized path weight.
// =============================================================================

// DefaultPenaltyFactor multiplies discouraged edge weights.
const DefaultPenaltyFactor = 2.0

// Alternatives finds up to k distinct near-optimal paths from source to
// target. The first result is always the unpenalized shortest path.
func Alternatives(ctx context.Context, g *Graph, source, target string, vessel *maritime.VesselConstraints, k int, penaltyFactor float64) ([]*Result, error) {
	if k <= 0 {
		return nil, nil
	}
	if penaltyFactor <= 1 {
		penaltyFactor = DefaultPenaltyFactor
	}

	discouraged := map[edgeKey]bool{}
	seen := map[string]bool{}
	var out []*Result

	for i := 0; i < k; i++ {
		if err := ctx.Err(); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeTimeout, "alternative search cancelled")
		}

		r, err := search(ctx, g, source, target, vessel, searchOptions{
			discouraged: discouraged,
			penalty:     penaltyFactor,
		})
		if err != nil {
			if apperror.Is(err, apperror.CodeNoRoute) && len(out) > 0 {
				break
			}
			return out, err
		}

		// Report the real weight, not the penalized search cost.
		r.DistanceNM = pathWeight(g, r.Ports)

		key := pathKey(r.Ports)
		if seen[key] {
			// The penalty no longer produces new paths.
			break
		}
		seen[key] = true
		out = append(out, r)

		for j := 0; j+1 < len(r.Ports); j++ {
			discouraged[edgeKey{r.Ports[j], r.Ports[j+1]}] = true
		}
	}

	return out, nil
}
