package costmodel

import (
	"seaway/services/route-svc/internal/maritime"
)

// clamp bounds v to [0,100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ReliabilityScore converts the mean segment risk into a score in [0,100].
func ReliabilityScore(meanRisk float64) float64 {
	return clamp(100.0 - meanRisk)
}

// EfficiencyScore compares the actual sailed distance against the direct
// great-circle distance. A degenerate zero-length route scores 100.
func EfficiencyScore(directNM, totalNM float64) float64 {
	if directNM == 0 && totalNM == 0 {
		return 100
	}
	if totalNM <= 0 {
		return 0
	}
	return clamp(100.0 * directNM / totalNM)
}

// EnvironmentalImpact maps fuel intensity, in tons per 1000 nm, to a
// bucketed impact figure. Lower is better.
func EnvironmentalImpact(totalFuelTons, totalDistanceNM float64) float64 {
	if totalDistanceNM <= 0 {
		return 80
	}

	intensity := 1000.0 * totalFuelTons / totalDistanceNM
	switch {
	case intensity < 30:
		return 10
	case intensity < 40:
		return 25
	case intensity < 50:
		return 40
	case intensity < 70:
		return 60
	default:
		return 80
	}
}

// OverallScore combines the component scores using the criterion weights.
// The environmental component enters as 100 minus the impact.
func OverallScore(c maritime.Criterion, efficiency, reliability, envImpact float64) float64 {
	w := c.Weights()
	envScore := clamp(100.0 - envImpact)
	return clamp(w.Efficiency*efficiency + w.Reliability*reliability + w.Environmental*envScore)
}

// RouteScores computes the full score set for a route.
func RouteScores(c maritime.Criterion, directNM, totalNM, totalFuelTons, meanRisk float64) maritime.RouteScores {
	efficiency := EfficiencyScore(directNM, totalNM)
	reliability := ReliabilityScore(meanRisk)
	impact := EnvironmentalImpact(totalFuelTons, totalNM)

	return maritime.RouteScores{
		Efficiency:          efficiency,
		Reliability:         reliability,
		EnvironmentalImpact: impact,
		Overall:             OverallScore(c, efficiency, reliability, impact),
	}
}
