// Package frame converts between the pseudo-inertial frame produced by
// orbit propagation and the earth-fixed frame the proximity tests run in.
//
// The rotation uses Greenwich Mean Sidereal Time only (IAU-82 model,
// Vallado "Fundamentals of Astrodynamics" Ch. 3). Precession, nutation, and
// polar motion are intentionally omitted; the resulting pseudo-earth-fixed
// frame is within tens of meters of ITRF, which is far below the geometric
// tolerances this system works with.
package frame

import (
	"math"
	"time"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00 TT).
const j2000 = 2451545.0

// JulianDate converts a UTC time to Julian Date using the standard
// astronomical algorithm.
func JulianDate(t time.Time) float64 {
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// January and February count as months 13 and 14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0

	return jd
}

// GMST returns Greenwich Mean Sidereal Time in radians for a UTC time.
//
// Vallado Eq 3-47, seconds of time:
//
//	θ = 67310.54841 + (876600h + 8640184.812866)·T + 0.093104·T² − 6.2e-6·T³
//
// with T in Julian centuries of UT1 from J2000.0.
func GMST(t time.Time) float64 {
	tUT1 := (JulianDate(t.UTC()) - j2000) / 36525.0

	sec := 67310.54841 +
		(876600*3600+8640184.812866)*tUT1 +
		0.093104*tUT1*tUT1 -
		6.2e-6*tUT1*tUT1*tUT1

	sec = math.Mod(sec, 86400.0)
	if sec < 0 {
		sec += 86400.0
	}
	return sec / 86400.0 * 2.0 * math.Pi
}

// RotateToEarthFixed rotates a pseudo-inertial position into the
// earth-fixed frame at time t: a rotation about the polar axis by -GMST.
// Units pass through unchanged. Pure function, safe for concurrent use.
func RotateToEarthFixed(x, y, z float64, t time.Time) (float64, float64, float64) {
	g := GMST(t)
	cosG, sinG := math.Cos(g), math.Sin(g)
	return x*cosG + y*sinG, -x*sinG + y*cosG, z
}
