package planner

import (
	"sort"

	"seaway/services/route-svc/internal/maritime"
)

// rankRoutes orders candidates by the request criterion. The sort is stable
// so equally scored candidates keep their generation order (direct, hubs,
// alternatives).
func rankRoutes(routes []*maritime.DetailedRoute, c maritime.Criterion) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		switch c {
		case maritime.CriterionFastest:
			return a.Totals.TimeHours < b.Totals.TimeHours
		case maritime.CriterionMostEconomical:
			return a.Totals.CostUSD < b.Totals.CostUSD
		case maritime.CriterionMostReliable:
			return a.Scores.Reliability > b.Scores.Reliability
		case maritime.CriterionEnvironmental:
			return a.Scores.EnvironmentalImpact < b.Scores.EnvironmentalImpact
		default:
			return a.Scores.Overall > b.Scores.Overall
		}
	})
}
