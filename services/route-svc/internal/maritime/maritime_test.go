package maritime

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"seaway/pkg/geo"
)

func TestValidUNLOCODE(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"SGSIN", true},
		{"NLRTM", true},
		{"sgsin", false},
		{"SGSI", false},
		{"SGSIN1", false},
		{"SG SI", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidUNLOCODE(tt.code); got != tt.want {
			t.Errorf("ValidUNLOCODE(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestPort_CanAccommodate(t *testing.T) {
	port := &Port{
		UNLOCODE:        "SGSIN",
		Status:          PortStatusActive,
		MaxVesselLength: 400,
		MaxVesselBeam:   60,
		MaxVesselDraft:  16,
	}

	fits := &VesselConstraints{Length: 300, Beam: 45, Draft: 14}
	if !port.CanAccommodate(fits) {
		t.Error("vessel within maxima should fit")
	}

	tooLong := &VesselConstraints{Length: 450, Beam: 45, Draft: 14}
	if port.CanAccommodate(tooLong) {
		t.Error("vessel over max length should not fit")
	}

	tooDeep := &VesselConstraints{Length: 300, Beam: 45, Draft: 17}
	if port.CanAccommodate(tooDeep) {
		t.Error("vessel over max draft should not fit")
	}

	// Zero maxima mean unconstrained
	open := &Port{UNLOCODE: "XXOPN", Status: PortStatusActive}
	huge := &VesselConstraints{Length: 500, Beam: 80, Draft: 25}
	if !open.CanAccommodate(huge) {
		t.Error("port without maxima should accept any vessel")
	}
}

func TestPort_IsActive(t *testing.T) {
	active := &Port{Status: PortStatusActive}
	if !active.IsActive() {
		t.Error("active port should be active")
	}

	for _, status := range []PortStatus{PortStatusRestricted, PortStatusMaintenance, PortStatusInactive} {
		p := &Port{Status: status}
		if p.IsActive() {
			t.Errorf("port with status %s should not be active", status)
		}
	}

	var nilPort *Port
	if nilPort.IsActive() {
		t.Error("nil port should not be active")
	}
}

func TestVesselType_Valid(t *testing.T) {
	for _, vt := range VesselTypes {
		if !vt.Valid() {
			t.Errorf("%s should be valid", vt)
		}
	}
	if VesselType("submarine").Valid() {
		t.Error("unknown type should not be valid")
	}
}

func TestVessel_CanTransit(t *testing.T) {
	v := &VesselConstraints{SuezCompatible: true, PanamaCompatible: false}

	if !v.CanTransit(CanalSuez) {
		t.Error("Suez-compatible vessel should transit Suez")
	}
	if v.CanTransit(CanalPanama) {
		t.Error("Panama-incompatible vessel should not transit Panama")
	}
	if !v.CanTransit(CanalNone) {
		t.Error("no canal means no restriction")
	}
}

func TestCriterion_Valid(t *testing.T) {
	for _, c := range Criteria {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Criterion("cheapest").Valid() {
		t.Error("unknown criterion should not be valid")
	}
}

func TestCriterion_AlgorithmTag(t *testing.T) {
	tests := []struct {
		criterion Criterion
		want      string
	}{
		{CriterionFastest, "a_star"},
		{CriterionMostEconomical, "dijkstra"},
		{CriterionMostReliable, "maritime_custom"},
		{CriterionBalanced, "hybrid"},
		{CriterionEnvironmental, "dijkstra"},
	}

	for _, tt := range tests {
		if got := tt.criterion.AlgorithmTag(); got != tt.want {
			t.Errorf("%s AlgorithmTag = %s, want %s", tt.criterion, got, tt.want)
		}
	}
}

func TestCriterion_WeightsSumToOne(t *testing.T) {
	for _, c := range Criteria {
		w := c.Weights()
		sum := w.Efficiency + w.Reliability + w.Environmental
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("%s weights sum to %v, want 1", c, sum)
		}
	}
}

func TestInferCanal(t *testing.T) {
	singapore := geo.Coordinates{Latitude: 1.2644, Longitude: 103.84}
	rotterdam := geo.Coordinates{Latitude: 51.95, Longitude: 4.14}
	losAngeles := geo.Coordinates{Latitude: 33.73, Longitude: -118.26}
	newYork := geo.Coordinates{Latitude: 40.67, Longitude: -74.04}

	if got := InferCanal(rotterdam, singapore); got != CanalSuez {
		t.Errorf("Rotterdam-Singapore canal = %s, want suez", got)
	}
	if got := InferCanal(singapore, rotterdam); got != CanalSuez {
		t.Error("canal inference should be symmetric")
	}
	if got := InferCanal(losAngeles, newYork); got != CanalPanama {
		t.Errorf("LA-NewYork canal = %s, want panama", got)
	}
	if got := InferCanal(rotterdam, newYork); got != CanalNone {
		t.Errorf("Rotterdam-NewYork canal = %s, want none", got)
	}
}

func TestRiskScores_Mean(t *testing.T) {
	r := DefaultRiskScores()
	want := (10.0 + 5.0 + 5.0) / 3.0
	if got := r.Mean(); got != want {
		t.Errorf("Mean = %v, want %v", got, want)
	}
}

func TestRouteName(t *testing.T) {
	if got := RouteName(1, "SGSIN", "NLRTM", nil); got != "Route 1: SGSIN → NLRTM" {
		t.Errorf("direct name = %q", got)
	}

	got := RouteName(2, "SGSIN", "NLRTM", []string{"AEJEA"})
	if got != "Route 2: SGSIN → NLRTM via AEJEA" {
		t.Errorf("hub name = %q", got)
	}

	got = RouteName(3, "SGSIN", "USLAX", []string{"HKHKG", "JPNGO"})
	if !strings.HasSuffix(got, "via HKHKG, JPNGO") {
		t.Errorf("multi-hub name = %q", got)
	}
}

func TestDetailedRoute_Ports(t *testing.T) {
	origin := &Port{UNLOCODE: "SGSIN"}
	hub := &Port{UNLOCODE: "AEJEA"}
	dest := &Port{UNLOCODE: "NLRTM"}

	r := &DetailedRoute{Origin: origin, Destination: dest, Intermediate: []*Port{hub}}
	ports := r.Ports()

	if len(ports) != 3 {
		t.Fatalf("Ports() returned %d, want 3", len(ports))
	}
	if ports[0] != origin || ports[1] != hub || ports[2] != dest {
		t.Error("Ports() order wrong")
	}
}

func TestWireFormatting(t *testing.T) {
	origin := &Port{UNLOCODE: "SGSIN", Name: "Singapore", Country: "SG",
		Coordinates: geo.Coordinates{Latitude: 1.2644, Longitude: 103.84}}
	dest := &Port{UNLOCODE: "NLRTM", Name: "Rotterdam", Country: "NL",
		Coordinates: geo.Coordinates{Latitude: 51.95, Longitude: 4.14}}

	seg := &RouteSegment{
		Index:        0,
		Origin:       origin,
		Destination:  dest,
		DistanceNM:   8288.456,
		TransitHours: 460.47,
		FuelTons:     1234.56,
		FuelCost:     740736.789,
		PortFees:     45000.5,
		BearingDeg:   330.123,
		Risk:         DefaultRiskScores(),
	}

	route := &DetailedRoute{
		ID:          "r1",
		Name:        "Route 1: SGSIN → NLRTM",
		Origin:      origin,
		Destination: dest,
		Segments:    []*RouteSegment{seg},
		Totals: RouteTotals{
			DistanceNM: 8288.456,
			TimeHours:  460.47,
			FuelTons:   1234.56,
			CostUSD:    785737.289,
		},
		Criterion: CriterionBalanced,
		Algorithm: "hybrid",
	}

	resp := &RouteResponse{
		RequestID:           "req-1",
		CalculatedAt:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		CalculationDuration: 125 * time.Millisecond,
		Route:               route,
		Criterion:           CriterionBalanced,
		CandidatesEvaluated: 1,
	}

	wire := resp.ToWire()

	if wire.CalculatedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("timestamp = %s", wire.CalculatedAt)
	}
	if wire.CalculationSeconds != "0.125" {
		t.Errorf("duration = %s", wire.CalculationSeconds)
	}
	if wire.Route.TotalDistanceNM != "8288.46" {
		t.Errorf("distance = %s, want two decimals", wire.Route.TotalDistanceNM)
	}
	if wire.Route.TotalTimeHours != "460.5" {
		t.Errorf("time = %s, want one decimal", wire.Route.TotalTimeHours)
	}
	if wire.Route.TotalCost != "785737.29" {
		t.Errorf("cost = %s, want cent precision", wire.Route.TotalCost)
	}
	if wire.Route.Segments[0].BearingDeg != "330.1" {
		t.Errorf("bearing = %s, want one decimal", wire.Route.Segments[0].BearingDeg)
	}

	// The payload must be serializable
	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"cache_hit":false`) {
		t.Error("cache_hit flag missing from payload")
	}
}
