// Package conjunction evaluates geometric proximity between a satellite
// position series and a fixed ground site, and segments the resulting
// boolean series into discrete passes.
package conjunction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCriterion is returned for unrecognized criterion names.
	ErrInvalidCriterion = errors.New("invalid conjunction criterion")

	// ErrInvalidFrame is returned for unrecognized coordinate frame names.
	ErrInvalidFrame = errors.New("invalid coordinate frame")
)

// Criterion selects the proximity test.
type Criterion int

const (
	// CriterionZenith flags samples within an angular distance of the
	// site's local vertical.
	CriterionZenith Criterion = iota

	// CriterionLatLon flags samples inside a latitude/longitude box
	// centered on the site.
	CriterionLatLon
)

// ParseCriterion maps a configuration string to a Criterion.
func ParseCriterion(s string) (Criterion, error) {
	switch s {
	case "zenith":
		return CriterionZenith, nil
	case "latlon":
		return CriterionLatLon, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCriterion, s)
	}
}

func (c Criterion) String() string {
	switch c {
	case CriterionZenith:
		return "zenith"
	case CriterionLatLon:
		return "latlon"
	default:
		return fmt.Sprintf("criterion(%d)", int(c))
	}
}

// CoordFrame selects whether the proximity test runs in geodetic or apex
// geomagnetic coordinates. The frame only changes which reference vector,
// position, and latitude/longitude pair are used; the criterion logic is
// identical in both.
type CoordFrame int

const (
	FrameGeographic CoordFrame = iota
	FrameMagnetic
)

// ParseCoordFrame maps a configuration string to a CoordFrame.
func ParseCoordFrame(s string) (CoordFrame, error) {
	switch s {
	case "geo":
		return FrameGeographic, nil
	case "mag":
		return FrameMagnetic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrame, s)
	}
}

func (f CoordFrame) String() string {
	switch f {
	case FrameGeographic:
		return "geo"
	case FrameMagnetic:
		return "mag"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}
