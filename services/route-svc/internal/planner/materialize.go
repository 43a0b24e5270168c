package planner

import (
	"math"

	"github.com/google/uuid"

	"seaway/pkg/apperror"
	"seaway/pkg/geo"
	"seaway/services/route-svc/internal/costmodel"
	"seaway/services/route-svc/internal/maritime"
)

// Segments longer than this get a spherical midpoint waypoint.
const waypointThresholdNM = 500.0

// Materializer turns an ordered port sequence into a fully costed route.
type Materializer struct {
	FuelPriceUSDPerTon float64
	DwellHours         float64
	LoadFactor         float64
}

// NewMaterializer applies defaults for unset knobs: 600 USD/ton bunker
// price, 24-hour dwell, 80% load.
func NewMaterializer(fuelPrice, dwellHours, loadFactor float64) *Materializer {
	if fuelPrice <= 0 {
		fuelPrice = 600.0
	}
	if dwellHours <= 0 {
		dwellHours = costmodel.DefaultDwellHours
	}
	if loadFactor <= 0 {
		loadFactor = costmodel.DefaultLoadFactor
	}
	return &Materializer{
		FuelPriceUSDPerTon: fuelPrice,
		DwellHours:         dwellHours,
		LoadFactor:         loadFactor,
	}
}

// Build costs the k-th candidate over the given port sequence. A canal on
// any leg that the vessel cannot transit rejects the whole candidate.
func (m *Materializer) Build(k int, ports []*maritime.Port, vessel *maritime.VesselConstraints, criterion maritime.Criterion) (*maritime.DetailedRoute, error) {
	if len(ports) < 2 {
		return nil, apperror.New(apperror.CodeInvalidArgument, "route needs at least two ports")
	}
	if vessel == nil {
		return nil, apperror.ErrNilVessel
	}

	segments := make([]*maritime.RouteSegment, 0, len(ports)-1)
	var totals maritime.RouteTotals
	riskSum := 0.0

	for i := 0; i < len(ports)-1; i++ {
		seg, err := m.buildSegment(i, ports[i], ports[i+1], vessel)
		if err != nil {
			return nil, err
		}

		segments = append(segments, seg)
		totals.DistanceNM += seg.DistanceNM
		totals.TimeHours += seg.TransitHours
		totals.FuelTons += seg.FuelTons
		totals.FuelCostUSD += seg.FuelCost
		totals.PortFeesUSD += seg.PortFees
		totals.CanalFeesUSD += seg.CanalFees
		riskSum += seg.RiskScore()
	}
	totals.CostUSD = totals.FuelCostUSD + totals.PortFeesUSD + totals.CanalFeesUSD

	origin, destination := ports[0], ports[len(ports)-1]
	intermediate := ports[1 : len(ports)-1]

	via := make([]string, 0, len(intermediate))
	for _, p := range intermediate {
		via = append(via, p.UNLOCODE)
	}

	directNM := geo.Distance(origin.Coordinates, destination.Coordinates)
	meanRisk := riskSum / float64(len(segments))

	return &maritime.DetailedRoute{
		ID:           uuid.NewString(),
		Name:         maritime.RouteName(k, origin.UNLOCODE, destination.UNLOCODE, via),
		Origin:       origin,
		Destination:  destination,
		Intermediate: intermediate,
		Segments:     segments,
		Totals:       totals,
		Scores:       costmodel.RouteScores(criterion, directNM, totals.DistanceNM, totals.FuelTons, meanRisk),
		Algorithm:    criterion.AlgorithmTag(),
		Criterion:    criterion,
	}, nil
}

func (m *Materializer) buildSegment(index int, from, to *maritime.Port, vessel *maritime.VesselConstraints) (*maritime.RouteSegment, error) {
	canal := maritime.InferCanal(from.Coordinates, to.Coordinates)
	if canal != maritime.CanalNone && !vessel.CanTransit(canal) {
		return nil, apperror.NewWithField(apperror.CodeCanalRestricted,
			"vessel cannot transit canal on this leg", string(canal))
	}

	d := geo.Distance(from.Coordinates, to.Coordinates)

	transit, err := costmodel.TransitHours(d, vessel.CruiseSpeed, costmodel.NeutralFactors())
	if err != nil {
		return nil, err
	}

	fuel, err := costmodel.FuelTons(costmodel.FuelInput{
		DistanceNM: d,
		Vessel:     vessel,
		LoadFactor: m.LoadFactor,
	})
	if err != nil {
		return nil, err
	}

	fees, err := costmodel.PortFees(costmodel.PortFeeInput{
		Port:       to,
		Vessel:     vessel,
		DwellHours: m.DwellHours,
	})
	if err != nil {
		return nil, err
	}

	// The operational buffer is already folded into TransitHours; the
	// approach figure is reported for harbor planning.
	sailing := d / vessel.CruiseSpeed
	approach := math.Round(math.Max(sailing*0.05, 2.0)*10) / 10

	var waypoints []geo.Coordinates
	if d > waypointThresholdNM {
		waypoints = []geo.Coordinates{geo.Midpoint(from.Coordinates, to.Coordinates, 0.5)}
	}

	return &maritime.RouteSegment{
		Index:         index,
		Origin:        from,
		Destination:   to,
		DistanceNM:    d,
		TransitHours:  transit,
		ApproachHours: approach,
		FuelTons:      fuel,
		FuelCost:      math.Round(fuel*m.FuelPriceUSDPerTon*100) / 100,
		PortFees:      fees.Total,
		CanalFees:     0,
		Canal:         canal,
		BearingDeg:    geo.Bearing(from.Coordinates, to.Coordinates),
		Waypoints:     waypoints,
		Risk:          maritime.DefaultRiskScores(),
	}, nil
}
