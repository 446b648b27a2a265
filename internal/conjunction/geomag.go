package conjunction

import (
	"errors"
	"time"
)

// ErrNoGeoMag is returned when the magnetic coordinate frame is requested
// but no geomagnetic transform was provided.
var ErrNoGeoMag = errors.New("magnetic frame requested but no geomagnetic transform configured")

// GeoMag is the external apex geomagnetic transform. Implementations wrap
// a field model (IGRF-based apex coordinates); the evaluator only calls it
// when the magnetic frame is selected.
type GeoMag interface {
	// ToApex converts geodetic latitude/longitude (degrees) at an altitude
	// (kilometers) to apex magnetic latitude/longitude (degrees) for the
	// field model epoch nearest to when.
	ToApex(latDeg, lonDeg, altKm float64, when time.Time) (apexLat, apexLon float64, err error)

	// ZenithBasis returns the east/north/up components of the apex e3
	// basis vector at the site, the magnetic-zenith direction used by the
	// zenith criterion in the magnetic frame.
	ZenithBasis(latDeg, lonDeg, altKm float64, when time.Time) (e, n, u float64, err error)
}
