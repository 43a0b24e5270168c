package costmodel

import (
	"math"

	"seaway/pkg/apperror"
	"seaway/services/route-svc/internal/maritime"
)

// PortTier classifies ports for fee scaling.
type PortTier int

const (
	Tier1 PortTier = 1 // major international hubs
	Tier2 PortTier = 2 // regional major ports
	Tier3 PortTier = 3 // secondary ports
	Tier4 PortTier = 4 // local and smaller ports
)

// tierMultipliers scale every fee component by port tier.
var tierMultipliers = map[PortTier]float64{
	Tier1: 1.5,
	Tier2: 1.0,
	Tier3: 0.7,
	Tier4: 0.5,
}

// tier1Hubs are always classified tier 1 regardless of recorded facilities.
var tier1Hubs = map[string]bool{
	"SGSIN": true,
	"NLRTM": true,
	"CNSHA": true,
	"AEJEA": true,
	"USLAX": true,
	"DEHAM": true,
}

// Fee schedule constants, USD.
const (
	pilotageBase     = 2000.0
	duesPerGRT       = 0.15
	berthPerMeterDay = 50.0
	agencyBase       = 2500.0
	cargoPerTon      = 25.0
	additionalBase   = 1500.0

	minBerthDays = 0.5

	// DefaultDwellHours is the assumed port stay when none is given.
	DefaultDwellHours = 24.0

	defaultGRT = 30000.0
	grtFromDWT = 0.6
)

// TierFor classifies a port by hub membership, then by facility and
// berth counts.
func TierFor(p *maritime.Port) PortTier {
	if p == nil {
		return Tier4
	}
	if tier1Hubs[p.UNLOCODE] {
		return Tier1
	}

	facilities := p.FacilityCount()
	berths := p.BerthCount

	switch {
	case facilities >= 10 && berths >= 20:
		return Tier1
	case facilities >= 5 && berths >= 10:
		return Tier2
	case facilities >= 3 && berths >= 5:
		return Tier3
	default:
		return Tier4
	}
}

// grossTonnage estimates GRT from deadweight.
func grossTonnage(v *maritime.VesselConstraints) float64 {
	if v.DWT > 0 {
		return v.DWT * grtFromDWT
	}
	return defaultGRT
}

// PortFeeBreakdown itemizes a port call.
type PortFeeBreakdown struct {
	Tier       PortTier
	Pilotage   float64
	Dues       float64
	Berth      float64
	Agency     float64
	Cargo      float64
	Additional float64
	Total      float64
}

// PortFeeInput are the parameters of one port call.
type PortFeeInput struct {
	Port       *maritime.Port
	Vessel     *maritime.VesselConstraints
	DwellHours float64 // 0 means the 24h default
	CargoTons  float64 // 0 means no cargo handling charge
}

// PortFees computes the six fee components for a vessel call, each scaled
// by the port tier multiplier. The total is rounded to the cent.
func PortFees(in PortFeeInput) (*PortFeeBreakdown, error) {
	if in.Vessel == nil {
		return nil, apperror.ErrNilVessel
	}
	if in.Port == nil {
		return nil, apperror.New(apperror.CodeNilInput, "port is required")
	}

	dwell := in.DwellHours
	if dwell == 0 {
		dwell = DefaultDwellHours
	}
	if dwell < 0 {
		return nil, apperror.New(apperror.CodeInvalidFactor, "dwell time must be positive")
	}

	tier := TierFor(in.Port)
	mult := tierMultipliers[tier]
	grt := grossTonnage(in.Vessel)

	b := &PortFeeBreakdown{Tier: tier}
	b.Pilotage = pilotageBase * mult * math.Sqrt(grt/10000.0)
	b.Dues = duesPerGRT * grt * mult
	b.Berth = berthPerMeterDay * in.Vessel.Length * math.Max(dwell/24.0, minBerthDays) * mult
	b.Agency = agencyBase * agencySizeFactor(in.Vessel) * mult
	if in.CargoTons > 0 {
		b.Cargo = cargoPerTon * in.CargoTons * mult
	}
	b.Additional = additionalBase * mult

	total := b.Pilotage + b.Dues + b.Berth + b.Agency + b.Cargo + b.Additional
	b.Total = math.Round(total*100) / 100

	return b, nil
}

func agencySizeFactor(v *maritime.VesselConstraints) float64 {
	switch {
	case v.DWT > 100000:
		return 1.5
	case v.DWT > 50000:
		return 1.2
	default:
		return 1.0
	}
}
