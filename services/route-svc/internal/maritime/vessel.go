package maritime

// VesselType classifies the vessel for fuel and fee purposes.
type VesselType string

const (
	VesselContainer    VesselType = "container"
	VesselBulkCarrier  VesselType = "bulk_carrier"
	VesselTanker       VesselType = "tanker"
	VesselGasCarrier   VesselType = "gas_carrier"
	VesselGeneralCargo VesselType = "general_cargo"
	VesselRoRo         VesselType = "roro"
	VesselPassenger    VesselType = "passenger"
	VesselOffshore     VesselType = "offshore"
	VesselFishing      VesselType = "fishing"
)

// VesselTypes lists every recognized vessel type.
var VesselTypes = []VesselType{
	VesselContainer,
	VesselBulkCarrier,
	VesselTanker,
	VesselGasCarrier,
	VesselGeneralCargo,
	VesselRoRo,
	VesselPassenger,
	VesselOffshore,
	VesselFishing,
}

// Valid reports whether t is a recognized vessel type.
func (t VesselType) Valid() bool {
	for _, vt := range VesselTypes {
		if t == vt {
			return true
		}
	}
	return false
}

// MaxCruiseSpeedKnots bounds the accepted cruise speed.
const MaxCruiseSpeedKnots = 40.0

// VesselConstraints describes the vessel a route is planned for.
type VesselConstraints struct {
	Type        VesselType
	Length      float64 // meters
	Beam        float64 // meters
	Draft       float64 // meters
	CruiseSpeed float64 // knots, (0, 40]
	DWT         float64 // deadweight tonnage, 0 if unknown
	MaxRange    float64 // nautical miles

	SuezCompatible   bool
	PanamaCompatible bool
}

// CanTransit reports whether the vessel may pass the given canal.
func (v *VesselConstraints) CanTransit(c Canal) bool {
	if v == nil {
		return false
	}
	switch c {
	case CanalSuez:
		return v.SuezCompatible
	case CanalPanama:
		return v.PanamaCompatible
	default:
		return true
	}
}
