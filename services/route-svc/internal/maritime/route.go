package maritime

import (
	"fmt"
	"strings"
	"time"

	"seaway/pkg/geo"
)

// Canal identifies a canal transit inferred for a route.
type Canal string

const (
	CanalNone   Canal = ""
	CanalSuez   Canal = "suez"
	CanalPanama Canal = "panama"
)

// InferCanal applies the longitude heuristic to a pair of endpoints.
// Crossing from the eastern Pacific to the Atlantic implies Panama,
// crossing between the Mediterranean side and the Indian Ocean side
// implies Suez.
func InferCanal(a, b geo.Coordinates) Canal {
	lo, hi := a.Longitude, b.Longitude
	if lo > hi {
		lo, hi = hi, lo
	}

	if lo < -100 && hi > -40 {
		return CanalPanama
	}
	if lo < 40 && hi > 60 {
		return CanalSuez
	}
	return CanalNone
}

// RiskScores are static per-segment risk components, each in [0,100].
type RiskScores struct {
	Weather   float64
	Piracy    float64
	Political float64
}

// Mean returns the aggregate segment risk.
func (r RiskScores) Mean() float64 {
	return (r.Weather + r.Piracy + r.Political) / 3.0
}

// DefaultRiskScores returns the static risk coefficients used when no
// feed-specific data is available.
func DefaultRiskScores() RiskScores {
	return RiskScores{Weather: 10.0, Piracy: 5.0, Political: 5.0}
}

// RouteSegment is one leg of a route between two consecutive ports.
type RouteSegment struct {
	Index       int
	Origin      *Port
	Destination *Port

	DistanceNM    float64
	TransitHours  float64
	ApproachHours float64

	FuelTons  float64
	FuelCost  float64 // USD
	PortFees  float64 // USD, charged at the destination port
	CanalFees float64 // USD

	Canal      Canal
	BearingDeg float64
	Waypoints  []geo.Coordinates

	Risk RiskScores
}

// RiskScore is the mean of the three risk components.
func (s *RouteSegment) RiskScore() float64 {
	return s.Risk.Mean()
}

// TotalCost is the full segment cost in USD.
func (s *RouteSegment) TotalCost() float64 {
	return s.FuelCost + s.PortFees + s.CanalFees
}

// RouteTotals aggregates segment values over a route.
type RouteTotals struct {
	DistanceNM float64
	TimeHours  float64
	FuelTons   float64
	CostUSD    float64

	FuelCostUSD  float64
	PortFeesUSD  float64
	CanalFeesUSD float64
}

// RouteScores are the composite quality scores of a route, each in [0,100].
type RouteScores struct {
	Efficiency          float64
	Reliability         float64
	EnvironmentalImpact float64 // lower is better
	Overall             float64
}

// DetailedRoute is a fully costed candidate route.
type DetailedRoute struct {
	ID   string
	Name string

	Origin       *Port
	Destination  *Port
	Intermediate []*Port
	Segments     []*RouteSegment

	Totals RouteTotals
	Scores RouteScores

	Algorithm string
	Criterion Criterion
}

// Ports returns the full ordered port sequence of the route.
func (r *DetailedRoute) Ports() []*Port {
	ports := make([]*Port, 0, len(r.Intermediate)+2)
	ports = append(ports, r.Origin)
	ports = append(ports, r.Intermediate...)
	return append(ports, r.Destination)
}

// RouteName builds the canonical display name for the k-th candidate.
func RouteName(k int, origin, destination string, via []string) string {
	name := fmt.Sprintf("Route %d: %s → %s", k, origin, destination)
	if len(via) > 0 {
		name += " via " + strings.Join(via, ", ")
	}
	return name
}

// RouteResponse is the result of one route calculation.
type RouteResponse struct {
	RequestID           string
	CalculatedAt        time.Time
	CalculationDuration time.Duration
	Route               *DetailedRoute
	Alternatives        []*DetailedRoute
	Criterion           Criterion
	CandidatesEvaluated int
	CacheHit            bool
}
