package propagate

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/isr-tools/conjunction-engine/internal/tle"
)

// SGP4 propagates element snapshots with the go-satellite SGP4
// implementation. The model is initialized once per Positions call, so
// grouping timestamps by snapshot amortizes the setup cost.
//
// go-satellite reports propagation failures through NaN output rather than
// error codes, so results are checked for NaN/Inf and for physically
// impossible magnitudes.
type SGP4 struct{}

// Positions implements Propagator. Errors from model initialization or
// propagation are surfaced unchanged; nothing is retried or suppressed.
func (SGP4) Positions(snap tle.Snapshot, times []time.Time) ([]Position, error) {
	if err := validateLines(snap.Line1, snap.Line2); err != nil {
		return nil, fmt.Errorf("object %d: invalid element set: %w", snap.ObjectID, err)
	}

	sat := satellite.TLEToSat(snap.Line1, snap.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("object %d: sgp4 init failed: code=%d %s", snap.ObjectID, sat.Error, sat.ErrorStr)
	}

	out := make([]Position, len(times))
	for i, t := range times {
		t = t.UTC()
		pos, _ := satellite.Propagate(sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
			math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
			return nil, fmt.Errorf("object %d: sgp4 propagation failed at %s: output is NaN/Inf", snap.ObjectID, t.Format(time.RFC3339))
		}

		// Anything below the surface or beyond high orbit means the model
		// has decayed or diverged for this epoch.
		mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
		if mag < 6200.0 || mag > 50000.0 {
			return nil, fmt.Errorf("object %d: sgp4 propagation failed at %s: unreasonable magnitude %.1f km", snap.ObjectID, t.Format(time.RFC3339), mag)
		}

		out[i] = Position{X: pos.X, Y: pos.Y, Z: pos.Z}
	}

	return out, nil
}

// validateLines checks basic TLE line format before handing the lines to
// go-satellite, which log.Fatals on malformed input.
func validateLines(line1, line2 string) error {
	line1 = strings.TrimRight(line1, " ")
	line2 = strings.TrimRight(line2, " ")

	if len(line1) < 62 {
		return fmt.Errorf("line 1 length %d, expected 69", len(line1))
	}
	if len(line2) < 62 {
		return fmt.Errorf("line 2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line 1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line 2 must start with '2', got %q", line2[0])
	}
	return nil
}
