package maritime

import "time"

// Criterion is the objective routes are ranked against.
type Criterion string

const (
	CriterionFastest        Criterion = "fastest"
	CriterionMostEconomical Criterion = "most_economical"
	CriterionMostReliable   Criterion = "most_reliable"
	CriterionBalanced       Criterion = "balanced"
	CriterionEnvironmental  Criterion = "environmental"
)

// Criteria lists every recognized optimization criterion.
var Criteria = []Criterion{
	CriterionFastest,
	CriterionMostEconomical,
	CriterionMostReliable,
	CriterionBalanced,
	CriterionEnvironmental,
}

// Valid reports whether c is a recognized criterion.
func (c Criterion) Valid() bool {
	for _, known := range Criteria {
		if c == known {
			return true
		}
	}
	return false
}

// AlgorithmTag names the pathfinding strategy associated with a criterion.
func (c Criterion) AlgorithmTag() string {
	switch c {
	case CriterionFastest:
		return "a_star"
	case CriterionMostEconomical, CriterionEnvironmental:
		return "dijkstra"
	case CriterionMostReliable:
		return "maritime_custom"
	default:
		return "hybrid"
	}
}

// ScoreWeights are the per-criterion weights applied to the efficiency,
// reliability and environmental components of the overall score.
type ScoreWeights struct {
	Efficiency    float64
	Reliability   float64
	Environmental float64
}

// Weights returns the score weighting for the criterion. The environmental
// criterion ranks by impact directly, so its composite uses the balanced mix.
func (c Criterion) Weights() ScoreWeights {
	switch c {
	case CriterionFastest:
		return ScoreWeights{Efficiency: 0.6, Reliability: 0.3, Environmental: 0.1}
	case CriterionMostEconomical:
		return ScoreWeights{Efficiency: 0.4, Reliability: 0.2, Environmental: 0.4}
	case CriterionMostReliable:
		return ScoreWeights{Efficiency: 0.3, Reliability: 0.6, Environmental: 0.1}
	default:
		third := 1.0 / 3.0
		return ScoreWeights{Efficiency: third, Reliability: third, Environmental: third}
	}
}

// Request bounds.
const (
	MaxAlternatives     = 10
	MaxConnectingPorts  = 5
	MinTimeoutSeconds   = 5
	MaxTimeoutSeconds   = 120
	DefaultTimeoutSecs  = 30
	DefaultAlternatives = 3
)

// RouteRequest is a single route calculation order.
type RouteRequest struct {
	Origin      string
	Destination string
	Vessel      *VesselConstraints
	Criterion   Criterion
	Departure   time.Time

	IncludeAlternatives bool
	MaxAlternatives     int // [0,10]
	MaxConnectingPorts  int // [0,5]
	TimeoutSeconds      int // [5,120]
}

// Timeout returns the request deadline as a duration.
func (r *RouteRequest) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}
