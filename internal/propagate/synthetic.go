package propagate

import (
	"math"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/tle"
)

const (
	earthMuKm3 = 398600.4418 // km^3/s^2
	earthRadKm = 6378.136
	degToRad   = math.Pi / 180.0
)

// Synthetic is a circular-orbit propagator for demo mode and tests. It
// ignores the snapshot's element lines and flies an ideal circular orbit
// referenced to the snapshot epoch: phase PhaseDeg at epoch, advancing at
// the Keplerian mean motion for the configured altitude.
type Synthetic struct {
	AltitudeKm     float64
	InclinationDeg float64
	NodeDeg        float64 // right ascension of the orbit plane
	PhaseDeg       float64 // argument along the orbit at the snapshot epoch
}

// Positions implements Propagator. Never fails.
func (s Synthetic) Positions(snap tle.Snapshot, times []time.Time) ([]Position, error) {
	a := earthRadKm + s.AltitudeKm
	n := math.Sqrt(earthMuKm3 / (a * a * a)) // rad/s

	inc := s.InclinationDeg * degToRad
	node := s.NodeDeg * degToRad
	cosI, sinI := math.Cos(inc), math.Sin(inc)
	cosO, sinO := math.Cos(node), math.Sin(node)

	out := make([]Position, len(times))
	for i, t := range times {
		theta := s.PhaseDeg*degToRad + n*t.Sub(snap.Epoch).Seconds()
		cosT, sinT := math.Cos(theta), math.Sin(theta)

		out[i] = Position{
			X: a * (cosT*cosO - sinT*cosI*sinO),
			Y: a * (cosT*sinO + sinT*cosI*cosO),
			Z: a * sinT * sinI,
		}
	}
	return out, nil
}
