// services/route-svc/factory.go
package routesvc

import (
	"seaway/pkg/config"
	"seaway/services/route-svc/internal/maritime"
	"seaway/services/route-svc/internal/planner"
	"seaway/services/route-svc/internal/portstore"
)

// NewBenchmarkPlanner builds a planner over an in-memory port registry for
// external benchmarks. No database or shared cache is involved, so results
// measure the routing core alone.
func NewBenchmarkPlanner(ports []*maritime.Port) *planner.Planner {
	cfg := config.DefaultRoutingConfig()
	store := portstore.NewMemoryStore(ports...)
	return planner.New(&cfg, store, nil, ports)
}
