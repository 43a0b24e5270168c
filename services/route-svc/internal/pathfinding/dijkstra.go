package pathfinding

import (
	"container/heap"
	"context"
	"math"

	"seaway/pkg/apperror"
	"seaway/services/route-svc/internal/maritime"
)

// =============================================================================
// Dijkstra's Algorithm
// =============================================================================
//
// Standard single-pair shortest path over admissible edges with edge weight
// equal to great-circle distance. Ties are broken by insertion order so that
// results are deterministic across runs.
//
// Time Complexity: O((V + E) log V) with binary heap
// Space Complexity: O(V)
//
// Cancellation is polled at the priority-queue pop every 100 iterations;
// a cancelled search discards partial state and returns the context error.
// =============================================================================

// ctxPollInterval is the pop count between context checks.
const ctxPollInterval = 100

// Result is a found path with search statistics.
type Result struct {
	// Ports is the port code sequence from source to target inclusive.
	Ports []string

	// DistanceNM is the total path weight.
	DistanceNM float64

	// NodesExpanded counts settled nodes, for metrics.
	NodesExpanded int
}

// Via returns the intermediate port codes of the path.
func (r *Result) Via() []string {
	if len(r.Ports) <= 2 {
		return nil
	}
	return r.Ports[1 : len(r.Ports)-1]
}

// edgeKey identifies a directed edge for the discouraged set.
type edgeKey struct {
	from, to string
}

// searchOptions tune a single search.
type searchOptions struct {
	// discouraged edges have their weight multiplied by penalty.
	discouraged map[edgeKey]bool
	penalty     float64

	// heuristic is the admissible lower bound to the target; nil for
	// plain Dijkstra.
	heuristic func(code string) float64
}

// pqItem is an element of the search frontier.
type pqItem struct {
	node     string
	priority float64
	seq      int // insertion order, breaks ties deterministically
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// Dijkstra finds the shortest admissible path from source to target.
func Dijkstra(ctx context.Context, g *Graph, source, target string, vessel *maritime.VesselConstraints) (*Result, error) {
	return search(ctx, g, source, target, vessel, searchOptions{})
}

// search is the shared core of Dijkstra and A*. With a heuristic the
// priority becomes g + h; the heuristic must never overestimate.
func search(ctx context.Context, g *Graph, source, target string, vessel *maritime.VesselConstraints, opts searchOptions) (*Result, error) {
	if !g.HasPort(source) || !g.HasPort(target) {
		return nil, apperror.New(apperror.CodePortNotFound, "endpoint not in graph")
	}
	if source == target {
		return &Result{Ports: []string{source}}, nil
	}

	dist := map[string]float64{source: 0}
	parent := map[string]string{}
	settled := map[string]bool{}

	seq := 0
	pq := &priorityQueue{}
	heap.Init(pq)

	h0 := 0.0
	if opts.heuristic != nil {
		h0 = opts.heuristic(source)
	}
	heap.Push(pq, &pqItem{node: source, priority: h0, seq: seq})

	pops := 0
	expanded := 0

	for pq.Len() > 0 {
		pops++
		if pops%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperror.Wrap(err, apperror.CodeTimeout, "pathfinding cancelled")
			}
		}

		item := heap.Pop(pq).(*pqItem)
		u := item.node
		if settled[u] {
			continue
		}
		settled[u] = true
		expanded++

		if u == target {
			return &Result{
				Ports:         reconstruct(parent, source, target),
				DistanceNM:    dist[target],
				NodesExpanded: expanded,
			}, nil
		}

		for v, w := range g.Neighbors(u) {
			if settled[v] {
				continue
			}
			if !g.admissible(vessel, v, w) {
				continue
			}

			weight := w
			if opts.discouraged[edgeKey{u, v}] || opts.discouraged[edgeKey{v, u}] {
				weight *= opts.penalty
			}

			alt := dist[u] + weight
			if cur, seen := dist[v]; !seen || alt < cur {
				dist[v] = alt
				parent[v] = u

				priority := alt
				if opts.heuristic != nil {
					priority += opts.heuristic(v)
				}
				seq++
				heap.Push(pq, &pqItem{node: v, priority: priority, seq: seq})
			}
		}
	}

	return nil, apperror.New(apperror.CodeNoRoute, "no admissible path between ports")
}

// reconstruct rebuilds the path from the parent chain.
func reconstruct(parent map[string]string, source, target string) []string {
	var rev []string
	for at := target; ; {
		rev = append(rev, at)
		if at == source {
			break
		}
		at = parent[at]
	}

	path := make([]string, len(rev))
	for i, code := range rev {
		path[len(rev)-1-i] = code
	}
	return path
}

// pathWeight sums raw edge weights along a port sequence, ignoring any
// penalty that was applied during the search.
func pathWeight(g *Graph, ports []string) float64 {
	total := 0.0
	for i := 0; i+1 < len(ports); i++ {
		if w, ok := g.Edge(ports[i], ports[i+1]); ok {
			total += w
		} else {
			return math.Inf(1)
		}
	}
	return total
}
