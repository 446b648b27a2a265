package conjunction

import (
	"fmt"
	"math"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/frame"
	"github.com/isr-tools/conjunction-engine/internal/resolve"
)

const rad2deg = 180.0 / math.Pi

// Evaluator computes the per-sample conjunction mask for one site and one
// criterion configuration. Immutable; safe for concurrent use.
type Evaluator struct {
	Site      frame.Site
	Criterion Criterion
	Frame     CoordFrame

	// ZenithToleranceDeg applies to CriterionZenith.
	ZenithToleranceDeg float64

	// LatToleranceDeg and LonToleranceDeg apply to CriterionLatLon.
	LatToleranceDeg float64
	LonToleranceDeg float64

	// GeoMag is required only for FrameMagnetic.
	GeoMag GeoMag
}

// Mask evaluates the proximity criterion for every sample of the series.
// at is the reference time for the geomagnetic field model epoch; it is
// ignored in the geographic frame.
func (e Evaluator) Mask(series resolve.Series, at time.Time) ([]bool, error) {
	switch e.Criterion {
	case CriterionZenith:
		angles, err := e.ZenithAngles(series, at)
		if err != nil {
			return nil, err
		}
		mask := make([]bool, len(angles))
		for i, a := range angles {
			mask[i] = a < e.ZenithToleranceDeg
		}
		return mask, nil

	case CriterionLatLon:
		return e.latLonMask(series, at)

	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCriterion, int(e.Criterion))
	}
}

// ZenithAngles returns the angle in degrees between each satellite-site
// vector and the reference zenith vector. A zero-length satellite-site
// vector (satellite exactly at the site) yields angle 0 rather than NaN.
func (e Evaluator) ZenithAngles(series resolve.Series, at time.Time) ([]float64, error) {
	zen := e.Site.Zenith
	if e.Frame == FrameMagnetic {
		if e.GeoMag == nil {
			return nil, ErrNoGeoMag
		}
		en, nn, un, err := e.GeoMag.ZenithBasis(e.Site.LatDeg, e.Site.LonDeg, e.Site.AltM/1000.0, at)
		if err != nil {
			return nil, fmt.Errorf("magnetic zenith basis: %w", err)
		}
		zen = frame.ENUToECEF(en, nn, un, e.Site.LatDeg, e.Site.LonDeg)
		norm := math.Sqrt(zen[0]*zen[0] + zen[1]*zen[1] + zen[2]*zen[2])
		if norm == 0 {
			return nil, fmt.Errorf("magnetic zenith basis: zero-length vector")
		}
		zen[0] /= norm
		zen[1] /= norm
		zen[2] /= norm
	}

	angles := make([]float64, len(series))
	for i, s := range series {
		vx := s.X - e.Site.ECEF[0]
		vy := s.Y - e.Site.ECEF[1]
		vz := s.Z - e.Site.ECEF[2]

		r := math.Sqrt(vx*vx + vy*vy + vz*vz)
		if r == 0 {
			angles[i] = 0
			continue
		}

		cosA := (vx*zen[0] + vy*zen[1] + vz*zen[2]) / r
		cosA = math.Max(-1, math.Min(1, cosA))
		angles[i] = math.Acos(cosA) * rad2deg
	}
	return angles, nil
}

// latLonMask flags samples whose latitude and longitude both fall within
// the tolerance box around the site, in the configured frame.
func (e Evaluator) latLonMask(series resolve.Series, at time.Time) ([]bool, error) {
	siteLat, siteLon := e.Site.LatDeg, e.Site.LonDeg
	if e.Frame == FrameMagnetic {
		if e.GeoMag == nil {
			return nil, ErrNoGeoMag
		}
		var err error
		siteLat, siteLon, err = e.GeoMag.ToApex(e.Site.LatDeg, e.Site.LonDeg, e.Site.AltM/1000.0, at)
		if err != nil {
			return nil, fmt.Errorf("site apex coordinates: %w", err)
		}
	}

	mask := make([]bool, len(series))
	for i, s := range series {
		lat, lon, alt := frame.ECEFToGeodetic(s.X, s.Y, s.Z)
		if e.Frame == FrameMagnetic {
			var err error
			lat, lon, err = e.GeoMag.ToApex(lat, lon, alt/1000.0, at)
			if err != nil {
				return nil, fmt.Errorf("satellite apex coordinates: %w", err)
			}
		}
		mask[i] = math.Abs(lat-siteLat) < e.LatToleranceDeg && math.Abs(lon-siteLon) < e.LonToleranceDeg
	}
	return mask, nil
}
