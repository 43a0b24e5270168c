// Package costmodel implements the deterministic maritime cost formulas:
// fuel consumption, tiered port fees, transit time and route scoring.
package costmodel

import (
	"math"

	"seaway/pkg/apperror"
	"seaway/services/route-svc/internal/maritime"
)

// fuelProfile holds the per-day consumption coefficients of a vessel class
// at design speed.
type fuelProfile struct {
	mainPerDay float64 // tons per day, main engine
	auxPerDay  float64 // tons per day, auxiliaries
	speedExp   float64 // exponent of the speed law
}

// fuelProfiles are calibrated defaults per vessel type. Types without their
// own calibration fall back to the container profile.
var fuelProfiles = map[maritime.VesselType]fuelProfile{
	maritime.VesselContainer:   {mainPerDay: 150, auxPerDay: 15, speedExp: 3.2},
	maritime.VesselBulkCarrier: {mainPerDay: 120, auxPerDay: 12, speedExp: 3.1},
	maritime.VesselTanker:      {mainPerDay: 140, auxPerDay: 14, speedExp: 3.0},
	maritime.VesselGasCarrier:  {mainPerDay: 160, auxPerDay: 18, speedExp: 3.3},
}

func profileFor(t maritime.VesselType) fuelProfile {
	if p, ok := fuelProfiles[t]; ok {
		return p
	}
	return fuelProfiles[maritime.VesselContainer]
}

// Reference values of the fuel law.
const (
	referenceDWT        = 50000.0
	referenceSpeedKnots = 20.0
	sizeExponent        = 0.7
	loadImpactSlope     = 0.15
	minTonsPerDay       = 5.0

	// DefaultLoadFactor is the assumed cargo load when none is given.
	DefaultLoadFactor = 0.8

	// DefaultOperationalEfficiency assumes a well-run vessel.
	DefaultOperationalEfficiency = 1.0
)

// FuelInput are the parameters of one fuel estimate.
type FuelInput struct {
	DistanceNM    float64
	Vessel        *maritime.VesselConstraints
	WeatherFactor float64 // [0.5, 2.0]
	LoadFactor    float64 // [0, 1], 0 means use the default
	OpEfficiency  float64 // 0 means use the default
}

// FuelTons estimates fuel consumption in tons for a segment, rounded to
// 0.1 ton. The estimate follows a speed-cubed law scaled by vessel size
// and cargo load, with a floor on daily consumption.
func FuelTons(in FuelInput) (float64, error) {
	if in.Vessel == nil {
		return 0, apperror.ErrNilVessel
	}
	if in.DistanceNM <= 0 {
		return 0, apperror.New(apperror.CodeInvalidDistance, "distance must be positive")
	}
	speed := in.Vessel.CruiseSpeed
	if speed <= 0 {
		return 0, apperror.New(apperror.CodeInvalidSpeed, "cruise speed must be positive")
	}

	weather := in.WeatherFactor
	if weather == 0 {
		weather = 1.0
	}
	if weather < 0.5 || weather > 2.0 {
		return 0, apperror.New(apperror.CodeInvalidFactor, "weather factor out of range [0.5, 2.0]")
	}

	load := in.LoadFactor
	if load == 0 {
		load = DefaultLoadFactor
	}
	if load < 0 || load > 1 {
		return 0, apperror.New(apperror.CodeInvalidFactor, "load factor out of range [0, 1]")
	}

	opEff := in.OpEfficiency
	if opEff == 0 {
		opEff = DefaultOperationalEfficiency
	}

	dwt := in.Vessel.DWT
	if dwt <= 0 {
		dwt = referenceDWT
	}

	p := profileFor(in.Vessel.Type)

	days := in.DistanceNM / (speed * 24.0)
	sizeFactor := math.Pow(dwt/referenceDWT, sizeExponent)
	speedFactor := math.Pow(speed/referenceSpeedKnots, p.speedExp)
	loadImpact := 1.0 + loadImpactSlope*load

	perDay := p.mainPerDay*sizeFactor*speedFactor*loadImpact*weather*opEff +
		p.auxPerDay*sizeFactor
	if perDay < minTonsPerDay {
		perDay = minTonsPerDay
	}

	tons := perDay * days
	return math.Round(tons*10) / 10, nil
}
