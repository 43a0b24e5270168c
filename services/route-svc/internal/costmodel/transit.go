package costmodel

import (
	"math"

	"seaway/pkg/apperror"
)

// Operational factors on transit time. 1.0 is neutral.
type TransitFactors struct {
	Weather  float64 // 1.3 for rough seas
	Traffic  float64 // 1.2 for heavy traffic
	Seasonal float64 // 1.1 for monsoon season
}

// NeutralFactors returns factors for calm conditions.
func NeutralFactors() TransitFactors {
	return TransitFactors{Weather: 1.0, Traffic: 1.0, Seasonal: 1.0}
}

const (
	bufferFraction = 0.05
	minBufferHours = 2.0
)

// TransitHours estimates the transit time for a segment in hours, rounded
// to 0.1 h. An operational buffer of 5% with a two-hour floor is added on
// top of the factor-adjusted sailing time.
func TransitHours(distanceNM, speedKnots float64, f TransitFactors) (float64, error) {
	if distanceNM <= 0 {
		return 0, apperror.New(apperror.CodeInvalidDistance, "distance must be positive")
	}
	if speedKnots <= 0 {
		return 0, apperror.New(apperror.CodeInvalidSpeed, "speed must be positive")
	}

	if f.Weather == 0 {
		f.Weather = 1.0
	}
	if f.Traffic == 0 {
		f.Traffic = 1.0
	}
	if f.Seasonal == 0 {
		f.Seasonal = 1.0
	}

	base := distanceNM / speedKnots
	adjusted := base * f.Weather * f.Traffic * f.Seasonal
	buffer := math.Max(adjusted*bufferFraction, minBufferHours)

	return math.Round((adjusted+buffer)*10) / 10, nil
}
