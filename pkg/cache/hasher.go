package cache

import (
	"crypto/md5" //nolint:gosec // cache fingerprint, not a security boundary
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RouteFingerprint identifies a route request for caching purposes. Fields
// that do not change the computed result (timestamps, flags controlling the
// response shape) are deliberately excluded.
type RouteFingerprint struct {
	Origin      string
	Destination string
	VesselType  string
	VesselDWT   float64
	Criterion   string
	MaxStops    int
}

// canonical returns the canonical JSON form with keys in sorted order.
func (f RouteFingerprint) canonical() []byte {
	// encoding/json emits map keys sorted, which gives a stable byte form
	m := map[string]any{
		"destination":  f.Destination,
		"max_stops":    f.MaxStops,
		"optimization": f.Criterion,
		"origin":       f.Origin,
		"vessel_size":  f.VesselDWT,
		"vessel_type":  f.VesselType,
	}
	data, _ := json.Marshal(m)
	return data
}

// Key hashes the fingerprint to a namespaced 128-bit hex key.
func (f RouteFingerprint) Key() string {
	sum := md5.Sum(f.canonical()) //nolint:gosec
	return "route:" + hex.EncodeToString(sum[:])
}

// Identifier returns the hex digest without the namespace prefix.
func (f RouteFingerprint) Identifier() string {
	sum := md5.Sum(f.canonical()) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// PortKey builds the cache key for a memoized port record.
func PortKey(unlocode string) string {
	return fmt.Sprintf("port:%s", unlocode)
}

// QuickHash returns a full sha256 hex digest of arbitrary data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns a 16-character sha256 digest.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
