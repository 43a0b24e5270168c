// Package geo provides great-circle geometry over nautical coordinates:
// haversine distance, initial bearing, and spherical interpolation.
package geo

import (
	"fmt"
	"math"

	"seaway/pkg/logger"
)

const (
	// EarthRadiusNM is the mean radius of Earth in nautical miles.
	EarthRadiusNM = 3440.0647948

	// MaxSurfaceDistanceNM is half the circumference, the longest possible
	// great-circle distance between two points.
	MaxSurfaceDistanceNM = 21600.0
)

// Coordinates is an immutable geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinates lie within valid ranges.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", c.Longitude)
	}
	return nil
}

// Distance returns the great-circle distance between two points in nautical
// miles via the haversine formula, rounded to 0.01 nm. Coincident points
// yield exactly 0.
func Distance(a, b Coordinates) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := degToRad(a.Latitude)
	lat2 := degToRad(b.Latitude)
	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	d := roundTo(EarthRadiusNM*c, 2)
	if d < 0 || d > MaxSurfaceDistanceNM {
		logger.Warn("great-circle distance out of expected range",
			"distance_nm", d,
			"from", a,
			"to", b,
		)
	}

	return d
}

// Bearing returns the initial bearing from a to b in degrees within [0,360).
// Identical points have bearing 0 by definition.
func Bearing(a, b Coordinates) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := degToRad(a.Latitude)
	lat2 := degToRad(b.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	x := math.Sin(dLon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := radToDeg(math.Atan2(x, y))
	return math.Mod(deg+360, 360)
}

// Midpoint returns the point at fraction f of the great-circle arc from a
// to b. f=0 returns a exactly, f=1 returns b exactly.
func Midpoint(a, b Coordinates, f float64) Coordinates {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}

	lat1 := degToRad(a.Latitude)
	lon1 := degToRad(a.Longitude)
	lat2 := degToRad(b.Latitude)
	lon2 := degToRad(b.Longitude)

	// Angular distance between the endpoints
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	delta := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	if delta == 0 {
		return a
	}

	// Spherical linear interpolation
	wa := math.Sin((1-f)*delta) / math.Sin(delta)
	wb := math.Sin(f*delta) / math.Sin(delta)

	x := wa*math.Cos(lat1)*math.Cos(lon1) + wb*math.Cos(lat2)*math.Cos(lon2)
	y := wa*math.Cos(lat1)*math.Sin(lon1) + wb*math.Cos(lat2)*math.Sin(lon2)
	z := wa*math.Sin(lat1) + wb*math.Sin(lat2)

	return Coordinates{
		Latitude:  radToDeg(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Longitude: radToDeg(math.Atan2(y, x)),
	}
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func radToDeg(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
