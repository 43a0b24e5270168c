package pathfinding

import (
	"context"
	"math"
	"testing"

	"seaway/pkg/apperror"
	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

// testPort creates an active port at the given coordinates.
func testPort(code string, lat, lon float64) *maritime.Port {
	return &maritime.Port{
		UNLOCODE:    code,
		Name:        code,
		Status:      maritime.PortStatusActive,
		Coordinates: geo.Coordinates{Latitude: lat, Longitude: lon},
	}
}

// chainPorts builds a west-to-east chain of ports on the equator, spaced
// roughly 600 nm apart (10 degrees of longitude at the equator).
func chainPorts(n int) []*maritime.Port {
	ports := make([]*maritime.Port, n)
	for i := 0; i < n; i++ {
		code := "AA" + string(rune('A'+i)) + "AA"
		ports[i] = testPort(code, 0, float64(i*10))
	}
	return ports
}

func unconstrained() *maritime.VesselConstraints {
	return &maritime.VesselConstraints{
		Type:        maritime.VesselContainer,
		Length:      300,
		Beam:        45,
		Draft:       14,
		CruiseSpeed: 18,
		MaxRange:    20000,
	}
}

func TestNewGraph_EdgeSymmetry(t *testing.T) {
	ports := chainPorts(4)
	g := NewGraph(ports, 700)

	if g.PortCount() != 4 {
		t.Fatalf("PortCount = %d, want 4", g.PortCount())
	}

	for _, u := range g.Codes() {
		for v, w := range g.Neighbors(u) {
			back, ok := g.Edge(v, u)
			if !ok {
				t.Errorf("edge %s->%s has no reverse", u, v)
			}
			if back != w {
				t.Errorf("edge %s<->%s weights differ: %v vs %v", u, v, w, back)
			}
		}
	}
}

func TestNewGraph_EdgeThreshold(t *testing.T) {
	ports := chainPorts(4)

	// 10 degrees at the equator is about 600 nm; neighbors connect,
	// two-step pairs (about 1200 nm) do not.
	g := NewGraph(ports, 700)

	if _, ok := g.Edge(ports[0].UNLOCODE, ports[1].UNLOCODE); !ok {
		t.Error("adjacent ports should be connected")
	}
	if _, ok := g.Edge(ports[0].UNLOCODE, ports[2].UNLOCODE); ok {
		t.Error("ports beyond the threshold should not be connected")
	}
}

func TestDijkstra_ChainPath(t *testing.T) {
	ports := chainPorts(5)
	g := NewGraph(ports, 700)

	r, err := Dijkstra(context.Background(), g, ports[0].UNLOCODE, ports[4].UNLOCODE, unconstrained())
	if err != nil {
		t.Fatalf("Dijkstra failed: %v", err)
	}

	if len(r.Ports) != 5 {
		t.Errorf("path length = %d, want 5", len(r.Ports))
	}
	if r.Ports[0] != ports[0].UNLOCODE || r.Ports[len(r.Ports)-1] != ports[4].UNLOCODE {
		t.Errorf("path endpoints wrong: %v", r.Ports)
	}
}

func TestDijkstra_Unreachable(t *testing.T) {
	// Two clusters far apart with a short edge threshold
	ports := []*maritime.Port{
		testPort("AAAAA", 0, 0),
		testPort("BBBBB", 0, 5),
		testPort("CCCCC", 0, 120),
		testPort("DDDDD", 0, 125),
	}
	g := NewGraph(ports, 400)

	_, err := Dijkstra(context.Background(), g, "AAAAA", "CCCCC", unconstrained())
	if err == nil {
		t.Fatal("expected no-route error")
	}
	if apperror.Code(err) != apperror.CodeNoRoute {
		t.Errorf("code = %s, want NO_ROUTE", apperror.Code(err))
	}
}

func TestDijkstra_UnknownEndpoint(t *testing.T) {
	g := NewGraph(chainPorts(3), 700)

	_, err := Dijkstra(context.Background(), g, "ZZZZZ", "AAAAA", unconstrained())
	if err == nil {
		t.Fatal("expected error for unknown port")
	}
	if apperror.Code(err) != apperror.CodePortNotFound {
		t.Errorf("code = %s, want PORT_NOT_FOUND", apperror.Code(err))
	}
}

func TestDijkstra_RangeConstraint(t *testing.T) {
	ports := chainPorts(3)
	g := NewGraph(ports, 700)

	// The ~600 nm hops exceed a 500 nm range
	limited := unconstrained()
	limited.MaxRange = 500

	_, err := Dijkstra(context.Background(), g, ports[0].UNLOCODE, ports[2].UNLOCODE, limited)
	if err == nil {
		t.Fatal("expected no path for out-of-range vessel")
	}
}

func TestDijkstra_PortCompatibility(t *testing.T) {
	ports := chainPorts(3)
	// The middle port cannot take the vessel
	ports[1].MaxVesselDraft = 10

	g := NewGraph(ports, 700)

	deep := unconstrained()
	deep.Draft = 14

	_, err := Dijkstra(context.Background(), g, ports[0].UNLOCODE, ports[2].UNLOCODE, deep)
	if err == nil {
		t.Fatal("expected no path through an incompatible port")
	}
}

func TestDijkstra_Cancellation(t *testing.T) {
	// Enough nodes that the poll interval triggers
	ports := chainPorts(20)
	// Dense graph
	g := NewGraph(ports, 12000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dijkstra(ctx, g, ports[0].UNLOCODE, ports[19].UNLOCODE, unconstrained())
	// A small graph may finish before the first poll; when it does not,
	// the error must carry the timeout code.
	if err != nil && apperror.Code(err) != apperror.CodeTimeout {
		t.Errorf("code = %s, want CALCULATION_TIMEOUT", apperror.Code(err))
	}
}

func TestAStar_MatchesDijkstra(t *testing.T) {
	// Irregular port field
	ports := []*maritime.Port{
		testPort("AAAAA", 0, 0),
		testPort("BBBBB", 5, 8),
		testPort("CCCCC", -4, 12),
		testPort("DDDDD", 2, 20),
		testPort("EEEEE", -1, 28),
		testPort("FFFFF", 3, 36),
		testPort("GGGGG", 0, 44),
	}
	g := NewGraph(ports, 1500)
	v := unconstrained()
	ctx := context.Background()

	for _, target := range []string{"DDDDD", "GGGGG"} {
		dj, derr := Dijkstra(ctx, g, "AAAAA", target, v)
		as, aerr := AStar(ctx, g, "AAAAA", target, v)

		if derr != nil || aerr != nil {
			t.Fatalf("search failed: dijkstra=%v astar=%v", derr, aerr)
		}
		if math.Abs(dj.DistanceNM-as.DistanceNM) > 0.01 {
			t.Errorf("to %s: Dijkstra %v != A* %v", target, dj.DistanceNM, as.DistanceNM)
		}
		if as.Ports[0] != "AAAAA" || as.Ports[len(as.Ports)-1] != target {
			t.Errorf("A* endpoints wrong: %v", as.Ports)
		}
	}
}

func TestAStar_ExpandsNoMoreThanDijkstra(t *testing.T) {
	ports := chainPorts(12)
	g := NewGraph(ports, 1300)
	v := unconstrained()
	ctx := context.Background()

	dj, err := Dijkstra(ctx, g, ports[0].UNLOCODE, ports[11].UNLOCODE, v)
	if err != nil {
		t.Fatal(err)
	}
	as, err := AStar(ctx, g, ports[0].UNLOCODE, ports[11].UNLOCODE, v)
	if err != nil {
		t.Fatal(err)
	}

	if as.NodesExpanded > dj.NodesExpanded {
		t.Errorf("A* expanded %d nodes, Dijkstra %d", as.NodesExpanded, dj.NodesExpanded)
	}
}

func TestHubRouter_Candidates(t *testing.T) {
	// A geometry where hubs sit near the endpoints
	ports := []*maritime.Port{
		testPort("AAAAA", 0, 0),
		testPort("SGSIN", 1, 9),
		testPort("HKHKG", -2, 11),
		testPort("CCCCC", 0, 20),
		testPort("NLRTM", 1, 31),
		testPort("ZZZZZ", 0, 40),
	}
	g := NewGraph(ports, 800)
	v := unconstrained()
	ctx := context.Background()

	direct, err := Dijkstra(ctx, g, "AAAAA", "ZZZZZ", v)
	if err != nil {
		t.Fatalf("direct path failed: %v", err)
	}

	router := NewHubRouter(nil, 1.2)
	candidates, err := router.Candidates(ctx, g, "AAAAA", "ZZZZZ", v, direct.DistanceNM, 5, false)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}

	if len(candidates) == 0 {
		t.Fatal("expected at least one hub candidate")
	}

	for _, c := range candidates {
		if c.Ports[0] != "AAAAA" || c.Ports[len(c.Ports)-1] != "ZZZZZ" {
			t.Errorf("candidate endpoints wrong: %v", c.Ports)
		}
		if c.DistanceNM > 1.2*direct.DistanceNM+0.01 {
			t.Errorf("candidate %v exceeds the detour cap: %v > 1.2*%v", c.Ports, c.DistanceNM, direct.DistanceNM)
		}
		// The stitched path must pass through at least one hub
		hasHub := false
		for _, p := range c.Via() {
			for _, h := range DefaultHubCodes {
				if p == h {
					hasHub = true
				}
			}
		}
		if !hasHub {
			t.Errorf("candidate %v passes through no hub", c.Ports)
		}
	}
}

func TestHubRouter_NoDirectPathDisablesCap(t *testing.T) {
	ports := []*maritime.Port{
		testPort("AAAAA", 0, 0),
		testPort("SGSIN", 0, 9),
		testPort("ZZZZZ", 0, 18),
	}
	g := NewGraph(ports, 700)
	v := unconstrained()

	// No direct edge A->Z; a non-positive direct distance must still
	// allow hub candidates.
	candidates, err := NewHubRouter(nil, 1.2).Candidates(context.Background(), g, "AAAAA", "ZZZZZ", v, 0, 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected hub candidate without a direct baseline")
	}
}

func TestAlternatives_DistinctAndBounded(t *testing.T) {
	// A grid with multiple comparable paths
	ports := []*maritime.Port{
		testPort("AAAAA", 0, 0),
		testPort("BBBBB", 4, 8),
		testPort("CCCCC", -4, 8),
		testPort("DDDDD", 4, 16),
		testPort("EEEEE", -4, 16),
		testPort("ZZZZZ", 0, 24),
	}
	g := NewGraph(ports, 900)
	v := unconstrained()
	ctx := context.Background()

	optimal, err := Dijkstra(ctx, g, "AAAAA", "ZZZZZ", v)
	if err != nil {
		t.Fatal(err)
	}

	alts, err := Alternatives(ctx, g, "AAAAA", "ZZZZZ", v, 3, 2.0)
	if err != nil {
		t.Fatalf("Alternatives failed: %v", err)
	}
	if len(alts) < 2 {
		t.Fatalf("expected at least 2 alternatives, got %d", len(alts))
	}

	// First result is the optimum
	if math.Abs(alts[0].DistanceNM-optimal.DistanceNM) > 0.01 {
		t.Errorf("first alternative %v is not optimal %v", alts[0].DistanceNM, optimal.DistanceNM)
	}

	seen := map[string]bool{}
	for _, alt := range alts {
		key := pathKey(alt.Ports)
		if seen[key] {
			t.Errorf("duplicate alternative %v", alt.Ports)
		}
		seen[key] = true

		if alt.DistanceNM > 2.0*optimal.DistanceNM+0.01 {
			t.Errorf("alternative %v exceeds penalty bound: %v", alt.Ports, alt.DistanceNM)
		}
		if alt.Ports[0] != "AAAAA" || alt.Ports[len(alt.Ports)-1] != "ZZZZZ" {
			t.Errorf("alternative endpoints wrong: %v", alt.Ports)
		}
	}
}

func TestAlternatives_SingleCorridor(t *testing.T) {
	// Only one possible path; duplicates must be suppressed
	ports := chainPorts(4)
	g := NewGraph(ports, 700)

	alts, err := Alternatives(context.Background(), g, ports[0].UNLOCODE, ports[3].UNLOCODE, unconstrained(), 5, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(alts) != 1 {
		t.Errorf("single-corridor graph should yield exactly one path, got %d", len(alts))
	}
}

func TestResult_Via(t *testing.T) {
	r := &Result{Ports: []string{"AAAAA", "SGSIN", "ZZZZZ"}}
	via := r.Via()
	if len(via) != 1 || via[0] != "SGSIN" {
		t.Errorf("Via = %v", via)
	}

	direct := &Result{Ports: []string{"AAAAA", "ZZZZZ"}}
	if direct.Via() != nil {
		t.Errorf("direct Via = %v, want nil", direct.Via())
	}
}
