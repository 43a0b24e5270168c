package costmodel

import (
	"math"
	"testing"

	"seaway/services/route-svc/internal/maritime"
)

func TestReliabilityScore(t *testing.T) {
	tests := []struct {
		risk float64
		want float64
	}{
		{0, 100},
		{6.67, 93.33},
		{100, 0},
		{150, 0},  // clamped
		{-10, 100}, // clamped
	}

	for _, tt := range tests {
		if got := ReliabilityScore(tt.risk); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("ReliabilityScore(%v) = %v, want %v", tt.risk, got, tt.want)
		}
	}
}

func TestEfficiencyScore(t *testing.T) {
	if got := EfficiencyScore(8000, 8000); got != 100 {
		t.Errorf("direct route efficiency = %v, want 100", got)
	}
	if got := EfficiencyScore(8000, 10000); got != 80 {
		t.Errorf("detour efficiency = %v, want 80", got)
	}
	if got := EfficiencyScore(0, 0); got != 100 {
		t.Errorf("zero-length route efficiency = %v, want 100", got)
	}
	// Rounded distances can make direct slightly exceed total; clamp at 100
	if got := EfficiencyScore(8000.01, 8000); got != 100 {
		t.Errorf("efficiency = %v, want clamp at 100", got)
	}
}

func TestEnvironmentalImpact_Buckets(t *testing.T) {
	tests := []struct {
		fuel, distance, want float64
	}{
		{100, 10000, 10},  // 10 t/1000nm
		{290, 10000, 10},  // just under 30
		{350, 10000, 25},  // 35
		{450, 10000, 40},  // 45
		{600, 10000, 60},  // 60
		{900, 10000, 80},  // 90
		{100, 0, 80},      // degenerate distance
	}

	for _, tt := range tests {
		if got := EnvironmentalImpact(tt.fuel, tt.distance); got != tt.want {
			t.Errorf("EnvironmentalImpact(%v,%v) = %v, want %v", tt.fuel, tt.distance, got, tt.want)
		}
	}
}

func TestOverallScore_CriterionWeighting(t *testing.T) {
	// efficiency 90, reliability 60, impact 10 (env score 90)
	fastest := OverallScore(maritime.CriterionFastest, 90, 60, 10)
	wantFastest := 0.6*90 + 0.3*60 + 0.1*90
	if math.Abs(fastest-wantFastest) > 0.001 {
		t.Errorf("fastest = %v, want %v", fastest, wantFastest)
	}

	reliable := OverallScore(maritime.CriterionMostReliable, 90, 60, 10)
	wantReliable := 0.3*90 + 0.6*60 + 0.1*90
	if math.Abs(reliable-wantReliable) > 0.001 {
		t.Errorf("most_reliable = %v, want %v", reliable, wantReliable)
	}

	balanced := OverallScore(maritime.CriterionBalanced, 90, 60, 10)
	wantBalanced := (90.0 + 60.0 + 90.0) / 3.0
	if math.Abs(balanced-wantBalanced) > 0.001 {
		t.Errorf("balanced = %v, want %v", balanced, wantBalanced)
	}

	// environmental uses the balanced mix
	environmental := OverallScore(maritime.CriterionEnvironmental, 90, 60, 10)
	if math.Abs(environmental-balanced) > 0.001 {
		t.Errorf("environmental = %v, want balanced %v", environmental, balanced)
	}
}

func TestRouteScores_Bounds(t *testing.T) {
	for _, c := range maritime.Criteria {
		s := RouteScores(c, 8000, 9500, 1500, 6.67)

		if s.Efficiency < 0 || s.Efficiency > 100 {
			t.Errorf("%s efficiency out of range: %v", c, s.Efficiency)
		}
		if s.Reliability < 0 || s.Reliability > 100 {
			t.Errorf("%s reliability out of range: %v", c, s.Reliability)
		}
		if s.Overall < 0 || s.Overall > 100 {
			t.Errorf("%s overall out of range: %v", c, s.Overall)
		}
	}
}
