// Package planner orchestrates route calculation: request validation, port
// resolution, candidate generation, materialization, ranking, and the
// two-tier route cache with shared in-flight computations.
package planner

import (
	"fmt"
	"time"

	"seaway/pkg/apperror"
	"seaway/services/route-svc/internal/maritime"
)

// normalize fills request defaults in place. Zero criterion means fastest,
// zero timeout means the 30-second default, alternatives default to 3 when
// requested but unset.
func normalize(req *maritime.RouteRequest) {
	if req.Criterion == "" {
		req.Criterion = maritime.CriterionFastest
	}
	if req.TimeoutSeconds == 0 {
		req.TimeoutSeconds = maritime.DefaultTimeoutSecs
	}
	if req.IncludeAlternatives && req.MaxAlternatives == 0 {
		req.MaxAlternatives = maritime.DefaultAlternatives
	}
}

// validateRequest checks a normalized request. All violations are collected
// so the caller sees the full list in logs; the first one is returned.
func validateRequest(req *maritime.RouteRequest, now time.Time) error {
	if req == nil {
		return apperror.New(apperror.CodeNilInput, "route request is nil")
	}

	v := apperror.NewValidationErrors()

	if !maritime.ValidUNLOCODE(req.Origin) {
		v.AddErrorWithField(apperror.CodeInvalidLocode, "origin must be a five-letter UN/LOCODE", "origin")
	}
	if !maritime.ValidUNLOCODE(req.Destination) {
		v.AddErrorWithField(apperror.CodeInvalidLocode, "destination must be a five-letter UN/LOCODE", "destination")
	}
	if req.Origin != "" && req.Origin == req.Destination {
		v.AddError(apperror.CodeSameEndpoints, "origin and destination must differ")
	}

	validateVessel(v, req.Vessel)

	if !req.Criterion.Valid() {
		v.AddErrorWithField(apperror.CodeInvalidCriterion,
			fmt.Sprintf("unknown optimization criterion %q", req.Criterion), "criterion")
	}
	if !req.Departure.IsZero() && req.Departure.Before(now) {
		v.AddErrorWithField(apperror.CodePastDeparture, "departure time is in the past", "departure")
	}
	if req.MaxAlternatives < 0 || req.MaxAlternatives > maritime.MaxAlternatives {
		v.AddErrorWithField(apperror.CodeOutOfRange,
			fmt.Sprintf("max_alternatives must be in [0,%d]", maritime.MaxAlternatives), "max_alternatives")
	}
	if req.MaxConnectingPorts < 0 || req.MaxConnectingPorts > maritime.MaxConnectingPorts {
		v.AddErrorWithField(apperror.CodeOutOfRange,
			fmt.Sprintf("max_connecting_ports must be in [0,%d]", maritime.MaxConnectingPorts), "max_connecting_ports")
	}
	if req.TimeoutSeconds < maritime.MinTimeoutSeconds || req.TimeoutSeconds > maritime.MaxTimeoutSeconds {
		v.AddErrorWithField(apperror.CodeOutOfRange,
			fmt.Sprintf("timeout_seconds must be in [%d,%d]", maritime.MinTimeoutSeconds, maritime.MaxTimeoutSeconds), "timeout_seconds")
	}

	if v.HasErrors() {
		return v.First()
	}
	return nil
}

func validateVessel(v *apperror.ValidationErrors, vessel *maritime.VesselConstraints) {
	if vessel == nil {
		v.AddError(apperror.CodeInvalidVessel, "vessel constraints are required")
		return
	}
	if !vessel.Type.Valid() {
		v.AddErrorWithField(apperror.CodeInvalidVessel,
			fmt.Sprintf("unknown vessel type %q", vessel.Type), "vessel_type")
	}
	if vessel.Length <= 0 {
		v.AddErrorWithField(apperror.CodeInvalidVessel, "vessel length must be positive", "length")
	}
	if vessel.Beam <= 0 {
		v.AddErrorWithField(apperror.CodeInvalidVessel, "vessel beam must be positive", "beam")
	}
	if vessel.Draft <= 0 {
		v.AddErrorWithField(apperror.CodeInvalidVessel, "vessel draft must be positive", "draft")
	}
	if vessel.CruiseSpeed <= 0 || vessel.CruiseSpeed > maritime.MaxCruiseSpeedKnots {
		v.AddErrorWithField(apperror.CodeInvalidVessel,
			fmt.Sprintf("cruise speed must be in (0,%.0f] knots", maritime.MaxCruiseSpeedKnots), "cruise_speed")
	}
	if vessel.DWT < 0 {
		v.AddErrorWithField(apperror.CodeInvalidVessel, "deadweight tonnage cannot be negative", "dwt")
	}
	if vessel.MaxRange < 0 {
		v.AddErrorWithField(apperror.CodeInvalidVessel, "max range cannot be negative", "max_range")
	}
}
