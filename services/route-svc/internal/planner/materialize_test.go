package planner

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaway/pkg/apperror"
	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/maritime"
)

func harborAt(code string, lat, lon float64) *maritime.Port {
	return &maritime.Port{
		UNLOCODE:    code,
		Name:        code,
		Country:     code[:2],
		Coordinates: geo.Coordinates{Latitude: lat, Longitude: lon},
		Type:        "container",
		Status:      maritime.PortStatusActive,
		BerthCount:  20,
	}
}

func planningVessel() *maritime.VesselConstraints {
	return &maritime.VesselConstraints{
		Type:           maritime.VesselContainer,
		Length:         300,
		Beam:           45,
		Draft:          14,
		CruiseSpeed:    18,
		DWT:            85000,
		MaxRange:       10000,
		SuezCompatible: true,
	}
}

func TestMaterializer_DirectRoute(t *testing.T) {
	m := NewMaterializer(600, 24, 0.8)
	a := harborAt("AAAAA", 0, 0)
	b := harborAt("BBBBB", 0, 10)

	route, err := m.Build(1, []*maritime.Port{a, b}, planningVessel(), maritime.CriterionBalanced)
	require.NoError(t, err)

	require.Len(t, route.Segments, 1)
	seg := route.Segments[0]

	assert.InDelta(t, 600, seg.DistanceNM, 1.0)
	assert.Equal(t, seg.DistanceNM, route.Totals.DistanceNM)
	assert.Equal(t, seg.TransitHours, route.Totals.TimeHours)
	assert.Equal(t, seg.FuelTons, route.Totals.FuelTons)
	assert.Equal(t, seg.TotalCost(), route.Totals.CostUSD)

	// Sailing 600 nm at 18 kn plus the buffer.
	assert.GreaterOrEqual(t, seg.TransitHours, 600.0/18.0+2.0-0.05)

	assert.Equal(t, "Route 1: AAAAA → BBBBB", route.Name)
	assert.Equal(t, "hybrid", route.Algorithm)
	assert.Empty(t, route.Intermediate)

	// Direct route, perfect efficiency.
	assert.InDelta(t, 100.0, route.Scores.Efficiency, 0.01)
	assert.InDelta(t, 100.0-maritime.DefaultRiskScores().Mean(), route.Scores.Reliability, 0.01)

	// Long leg gets a midpoint waypoint.
	require.Len(t, seg.Waypoints, 1)
	assert.InDelta(t, 5.0, seg.Waypoints[0].Longitude, 0.01)
}

func TestMaterializer_ShortLegHasNoWaypoint(t *testing.T) {
	m := NewMaterializer(600, 24, 0.8)
	a := harborAt("AAAAA", 0, 0)
	b := harborAt("BBBBB", 0, 4) // 240 nm

	route, err := m.Build(1, []*maritime.Port{a, b}, planningVessel(), maritime.CriterionFastest)
	require.NoError(t, err)
	assert.Empty(t, route.Segments[0].Waypoints)
}

func TestMaterializer_MultiLegTotals(t *testing.T) {
	m := NewMaterializer(600, 24, 0.8)
	ports := []*maritime.Port{
		harborAt("AAAAA", 0, 0),
		harborAt("CCCCC", 0, 10),
		harborAt("BBBBB", 0, 20),
	}

	route, err := m.Build(2, ports, planningVessel(), maritime.CriterionMostEconomical)
	require.NoError(t, err)
	require.Len(t, route.Segments, 2)

	var dist, timeH, fuel, cost float64
	for _, s := range route.Segments {
		dist += s.DistanceNM
		timeH += s.TransitHours
		fuel += s.FuelTons
		cost += s.TotalCost()
	}
	assert.InDelta(t, dist, route.Totals.DistanceNM, 1e-6)
	assert.InDelta(t, timeH, route.Totals.TimeHours, 1e-6)
	assert.InDelta(t, fuel, route.Totals.FuelTons, 1e-6)
	assert.InDelta(t, cost, route.Totals.CostUSD, 1e-6)

	// Fees are charged at each leg's destination.
	assert.Positive(t, route.Segments[0].PortFees)
	assert.Positive(t, route.Segments[1].PortFees)

	assert.True(t, strings.Contains(route.Name, "via CCCCC"), route.Name)
	require.Len(t, route.Intermediate, 1)
	assert.Equal(t, "CCCCC", route.Intermediate[0].UNLOCODE)
	assert.Equal(t, "dijkstra", route.Algorithm)

	// Segment endpoints chain through the port sequence.
	assert.Equal(t, "AAAAA", route.Segments[0].Origin.UNLOCODE)
	assert.Equal(t, "CCCCC", route.Segments[0].Destination.UNLOCODE)
	assert.Equal(t, "CCCCC", route.Segments[1].Origin.UNLOCODE)
	assert.Equal(t, "BBBBB", route.Segments[1].Destination.UNLOCODE)
}

func TestMaterializer_ScoreBounds(t *testing.T) {
	m := NewMaterializer(600, 24, 0.8)
	ports := []*maritime.Port{
		harborAt("AAAAA", 0, 0),
		harborAt("CCCCC", 20, 10),
		harborAt("BBBBB", 0, 20),
	}

	route, err := m.Build(1, ports, planningVessel(), maritime.CriterionBalanced)
	require.NoError(t, err)

	assert.LessOrEqual(t, route.Scores.Efficiency, 100.0)
	assert.GreaterOrEqual(t, route.Scores.Efficiency, 0.0)
	assert.Less(t, route.Scores.Efficiency, 100.0, "detour must cost efficiency")
	assert.InDelta(t, 50.0, route.Scores.Overall, 50.0)
	assert.GreaterOrEqual(t, route.Scores.Reliability, 0.0)
	assert.LessOrEqual(t, route.Scores.Reliability, 100.0)
}

func TestMaterializer_CanalRejection(t *testing.T) {
	m := NewMaterializer(600, 24, 0.8)
	// Longitudes 5 and 70 straddle the Suez heuristic window.
	a := harborAt("AAAAA", 30, 5)
	b := harborAt("BBBBB", 25, 70)

	vessel := planningVessel()
	vessel.SuezCompatible = false

	_, err := m.Build(1, []*maritime.Port{a, b}, vessel, maritime.CriterionBalanced)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeCanalRestricted))

	vessel.SuezCompatible = true
	route, err := m.Build(1, []*maritime.Port{a, b}, vessel, maritime.CriterionBalanced)
	require.NoError(t, err)
	assert.Equal(t, maritime.CanalSuez, route.Segments[0].Canal)
	assert.Zero(t, route.Segments[0].CanalFees)
}

func TestMaterializer_InputGuards(t *testing.T) {
	m := NewMaterializer(0, 0, 0)
	assert.Equal(t, 600.0, m.FuelPriceUSDPerTon)
	assert.Equal(t, 24.0, m.DwellHours)
	assert.InDelta(t, 0.8, m.LoadFactor, 1e-9)

	a := harborAt("AAAAA", 0, 0)

	_, err := m.Build(1, []*maritime.Port{a}, planningVessel(), maritime.CriterionBalanced)
	require.Error(t, err)

	_, err = m.Build(1, []*maritime.Port{a, harborAt("BBBBB", 0, 5)}, nil, maritime.CriterionBalanced)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeNilInput))
}

func TestMaterializer_FuelCostUsesPrice(t *testing.T) {
	cheap := NewMaterializer(300, 24, 0.8)
	dear := NewMaterializer(900, 24, 0.8)

	ports := []*maritime.Port{harborAt("AAAAA", 0, 0), harborAt("BBBBB", 0, 10)}

	r1, err := cheap.Build(1, ports, planningVessel(), maritime.CriterionBalanced)
	require.NoError(t, err)
	r2, err := dear.Build(1, ports, planningVessel(), maritime.CriterionBalanced)
	require.NoError(t, err)

	assert.Equal(t, r1.Totals.FuelTons, r2.Totals.FuelTons)
	assert.InDelta(t, 3.0, r2.Totals.FuelCostUSD/r1.Totals.FuelCostUSD, 1e-6)
	assert.False(t, math.IsNaN(r1.Scores.Overall))
}
