// Package maritime holds the domain model of the route service: ports,
// vessel constraints, route requests and the fully costed routes returned
// to callers.
package maritime

import (
	"regexp"

	"seaway/pkg/geo"
)

// PortStatus is the operational state of a port.
type PortStatus string

const (
	PortStatusActive      PortStatus = "active"
	PortStatusRestricted  PortStatus = "restricted"
	PortStatusMaintenance PortStatus = "maintenance"
	PortStatusInactive    PortStatus = "inactive"
)

// unlocodePattern matches exactly five uppercase letters.
var unlocodePattern = regexp.MustCompile(`^[A-Z]{5}$`)

// ValidUNLOCODE reports whether code is a well-formed UN/LOCODE.
func ValidUNLOCODE(code string) bool {
	return unlocodePattern.MatchString(code)
}

// Port is a seaport record. UNLOCODE is unique across the store.
type Port struct {
	UNLOCODE    string
	Name        string
	Country     string
	Coordinates geo.Coordinates
	Type        string
	Status      PortStatus

	// Optional physical maxima; zero means unconstrained.
	MaxVesselLength float64 // meters
	MaxVesselBeam   float64 // meters
	MaxVesselDraft  float64 // meters

	// Facilities is a free-form facility map, opaque to the routing core.
	Facilities map[string]any
	BerthCount int
}

// IsActive reports whether the port may participate in routing.
func (p *Port) IsActive() bool {
	return p != nil && p.Status == PortStatusActive
}

// CanAccommodate checks the vessel's dimensions against the port maxima.
// A zero maximum means the port does not constrain that dimension.
func (p *Port) CanAccommodate(v *VesselConstraints) bool {
	if p == nil || v == nil {
		return false
	}
	if p.MaxVesselLength > 0 && v.Length > p.MaxVesselLength {
		return false
	}
	if p.MaxVesselBeam > 0 && v.Beam > p.MaxVesselBeam {
		return false
	}
	if p.MaxVesselDraft > 0 && v.Draft > p.MaxVesselDraft {
		return false
	}
	return true
}

// FacilityCount returns the number of recorded facilities.
func (p *Port) FacilityCount() int {
	if p == nil {
		return 0
	}
	return len(p.Facilities)
}
