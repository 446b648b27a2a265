// Package propagate defines the orbital propagation primitive the position
// resolver calls into. The propagation model is a black box from the rest
// of the system's point of view: an element snapshot plus timestamps in,
// pseudo-inertial positions out.
package propagate

import (
	"time"

	"github.com/isr-tools/conjunction-engine/internal/tle"
)

// Position is a pseudo-inertial (TEME) position in kilometers.
type Position struct {
	X, Y, Z float64
}

// Propagator computes pseudo-inertial positions for a batch of timestamps
// from one element snapshot. Implementations must be deterministic and
// side-effect free; results are only meaningful near the snapshot's epoch,
// a bound this interface does not enforce.
type Propagator interface {
	Positions(snap tle.Snapshot, times []time.Time) ([]Position, error)
}
