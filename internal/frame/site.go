package frame

import "math"

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378137.0             // semi-major axis (meters)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

const deg2rad = math.Pi / 180.0

// Site is the fixed ground point proximity is measured against. The
// earth-fixed position and local-vertical unit vector are computed once at
// construction and reused for every sample.
type Site struct {
	LatDeg, LonDeg, AltM float64
	ECEF                 [3]float64 // meters
	Zenith               [3]float64 // unit vector, earth-fixed
}

// NewSite builds the site geometry from geodetic coordinates. Latitude and
// longitude in degrees, altitude in meters above the WGS-84 ellipsoid.
func NewSite(latDeg, lonDeg, altM float64) Site {
	lat := latDeg * deg2rad
	lon := lonDeg * deg2rad

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	// Radius of curvature in the prime vertical.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Site{
		LatDeg: latDeg,
		LonDeg: lonDeg,
		AltM:   altM,
		ECEF: [3]float64{
			(n + altM) * cosLat * cosLon,
			(n + altM) * cosLat * sinLon,
			(n*(1-wgs84E2) + altM) * sinLat,
		},
		Zenith: ENUToECEF(0, 0, 1, latDeg, lonDeg),
	}
}

// ENUToECEF rotates a local east/north/up vector at the given geodetic
// location into earth-fixed axes. Input magnitude is preserved.
func ENUToECEF(e, n, u, latDeg, lonDeg float64) [3]float64 {
	lat := latDeg * deg2rad
	lon := lonDeg * deg2rad

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	return [3]float64{
		-sinLon*e - sinLat*cosLon*n + cosLat*cosLon*u,
		cosLon*e - sinLat*sinLon*n + cosLat*sinLon*u,
		cosLat*n + sinLat*u,
	}
}

// ECEFToGeodetic converts an earth-fixed position (meters) to geodetic
// latitude, longitude (degrees) and altitude (meters), iterating Bowring's
// method. Converges in a few iterations for any orbit altitude.
func ECEFToGeodetic(x, y, z float64) (latDeg, lonDeg, altM float64) {
	lon := math.Atan2(y, x)
	p := math.Sqrt(x*x + y*y)

	lat := math.Atan2(z, p*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(z+wgs84E2*n*sinLat, p)
	}

	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - n
	} else {
		alt = math.Abs(z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return lat / deg2rad, lon / deg2rad, alt
}
