package maritime

import (
	"fmt"
	"time"

	"seaway/pkg/geo"
)

// Wire representation of a RouteResponse. Monetary amounts are decimal
// strings with cent precision, distances carry two decimals, times one,
// bearings one. Timestamps are ISO-8601 UTC.

// WireCoordinates is a coordinate pair on the wire.
type WireCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WirePort is the port summary embedded in route payloads.
type WirePort struct {
	UNLOCODE    string          `json:"unlocode"`
	Name        string          `json:"name"`
	Country     string          `json:"country"`
	Coordinates WireCoordinates `json:"coordinates"`
}

// WireSegment is one route leg on the wire.
type WireSegment struct {
	Index         int               `json:"index"`
	From          WirePort          `json:"from"`
	To            WirePort          `json:"to"`
	DistanceNM    string            `json:"distance_nm"`
	TransitHours  string            `json:"transit_hours"`
	ApproachHours string            `json:"approach_hours"`
	FuelTons      string            `json:"fuel_tons"`
	FuelCost      string            `json:"fuel_cost"`
	PortFees      string            `json:"port_fees"`
	CanalFees     string            `json:"canal_fees"`
	Canal         string            `json:"canal,omitempty"`
	BearingDeg    string            `json:"bearing_deg"`
	Waypoints     []WireCoordinates `json:"waypoints,omitempty"`
	RiskWeather   float64           `json:"risk_weather"`
	RiskPiracy    float64           `json:"risk_piracy"`
	RiskPolitical float64           `json:"risk_political"`
	RiskScore     float64           `json:"risk_score"`
}

// WireRoute is a fully costed route on the wire.
type WireRoute struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Origin       WirePort      `json:"origin"`
	Destination  WirePort      `json:"destination"`
	Intermediate []WirePort    `json:"intermediate_ports"`
	Segments     []WireSegment `json:"segments"`

	TotalDistanceNM string `json:"total_distance_nm"`
	TotalTimeHours  string `json:"total_time_hours"`
	TotalFuelTons   string `json:"total_fuel_tons"`
	TotalCost       string `json:"total_cost"`
	FuelCost        string `json:"fuel_cost"`
	PortFees        string `json:"port_fees"`
	CanalFees       string `json:"canal_fees"`

	Efficiency          float64 `json:"efficiency_score"`
	Reliability         float64 `json:"reliability_score"`
	EnvironmentalImpact float64 `json:"environmental_impact"`
	Overall             float64 `json:"overall_score"`

	Algorithm string `json:"algorithm_used"`
	Criterion string `json:"optimization_criterion"`
}

// WireResponse is the top-level route calculation payload.
type WireResponse struct {
	RequestID           string      `json:"request_id"`
	CalculatedAt        string      `json:"calculation_timestamp"`
	CalculationSeconds  string      `json:"calculation_duration_seconds"`
	Route               *WireRoute  `json:"route"`
	Alternatives        []WireRoute `json:"alternatives,omitempty"`
	Criterion           string      `json:"optimization_criterion"`
	CandidatesEvaluated int         `json:"candidates_evaluated"`
	CacheHit            bool        `json:"cache_hit"`
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func distance(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func hours(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func bearing(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func wireCoordinates(c geo.Coordinates) WireCoordinates {
	return WireCoordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func wirePort(p *Port) WirePort {
	if p == nil {
		return WirePort{}
	}
	return WirePort{
		UNLOCODE:    p.UNLOCODE,
		Name:        p.Name,
		Country:     p.Country,
		Coordinates: wireCoordinates(p.Coordinates),
	}
}

func wireSegment(s *RouteSegment) WireSegment {
	ws := WireSegment{
		Index:         s.Index,
		From:          wirePort(s.Origin),
		To:            wirePort(s.Destination),
		DistanceNM:    distance(s.DistanceNM),
		TransitHours:  hours(s.TransitHours),
		ApproachHours: hours(s.ApproachHours),
		FuelTons:      fmt.Sprintf("%.1f", s.FuelTons),
		FuelCost:      money(s.FuelCost),
		PortFees:      money(s.PortFees),
		CanalFees:     money(s.CanalFees),
		Canal:         string(s.Canal),
		BearingDeg:    bearing(s.BearingDeg),
		RiskWeather:   s.Risk.Weather,
		RiskPiracy:    s.Risk.Piracy,
		RiskPolitical: s.Risk.Political,
		RiskScore:     s.RiskScore(),
	}
	for _, wp := range s.Waypoints {
		ws.Waypoints = append(ws.Waypoints, wireCoordinates(wp))
	}
	return ws
}

// ToWire converts a route to its wire form.
func (r *DetailedRoute) ToWire() WireRoute {
	wr := WireRoute{
		ID:          r.ID,
		Name:        r.Name,
		Origin:      wirePort(r.Origin),
		Destination: wirePort(r.Destination),

		TotalDistanceNM: distance(r.Totals.DistanceNM),
		TotalTimeHours:  hours(r.Totals.TimeHours),
		TotalFuelTons:   fmt.Sprintf("%.1f", r.Totals.FuelTons),
		TotalCost:       money(r.Totals.CostUSD),
		FuelCost:        money(r.Totals.FuelCostUSD),
		PortFees:        money(r.Totals.PortFeesUSD),
		CanalFees:       money(r.Totals.CanalFeesUSD),

		Efficiency:          r.Scores.Efficiency,
		Reliability:         r.Scores.Reliability,
		EnvironmentalImpact: r.Scores.EnvironmentalImpact,
		Overall:             r.Scores.Overall,

		Algorithm: r.Algorithm,
		Criterion: string(r.Criterion),
	}

	wr.Intermediate = make([]WirePort, 0, len(r.Intermediate))
	for _, p := range r.Intermediate {
		wr.Intermediate = append(wr.Intermediate, wirePort(p))
	}

	wr.Segments = make([]WireSegment, 0, len(r.Segments))
	for _, s := range r.Segments {
		wr.Segments = append(wr.Segments, wireSegment(s))
	}

	return wr
}

// ToWire converts a response to its wire form.
func (r *RouteResponse) ToWire() WireResponse {
	resp := WireResponse{
		RequestID:           r.RequestID,
		CalculatedAt:        r.CalculatedAt.UTC().Format(time.RFC3339),
		CalculationSeconds:  fmt.Sprintf("%.3f", r.CalculationDuration.Seconds()),
		Criterion:           string(r.Criterion),
		CandidatesEvaluated: r.CandidatesEvaluated,
		CacheHit:            r.CacheHit,
	}

	if r.Route != nil {
		wr := r.Route.ToWire()
		resp.Route = &wr
	}

	for _, alt := range r.Alternatives {
		resp.Alternatives = append(resp.Alternatives, alt.ToWire())
	}

	return resp
}
