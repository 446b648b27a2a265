package propagate

import (
	"math"
	"testing"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/tle"
)

const (
	issLine1 = "1 25544U 98067A   25138.37048074  .00007749  00000+0  14567-3 0  9994"
	issLine2 = "2 25544  51.6369  94.7823 0002558 120.7586  15.7840 15.49587957510533"
)

func issSnapshot() tle.Snapshot {
	return tle.Snapshot{
		ObjectID: 25544,
		Name:     "ISS (ZARYA)",
		Epoch:    time.Date(2025, 5, 18, 8, 53, 29, 0, time.UTC),
		Line1:    issLine1,
		Line2:    issLine2,
	}
}

func TestSGP4Positions(t *testing.T) {
	snap := issSnapshot()
	times := []time.Time{
		snap.Epoch,
		snap.Epoch.Add(10 * time.Minute),
		snap.Epoch.Add(45 * time.Minute),
	}

	positions, err := SGP4{}.Positions(snap, times)
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(positions) != len(times) {
		t.Fatalf("got %d positions, want %d", len(positions), len(times))
	}

	// ISS orbits near 420 km altitude, so each radius should be close to
	// 6371 + 420 km.
	for i, p := range positions {
		mag := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		if mag < 6600 || mag > 6900 {
			t.Errorf("sample %d: radius = %.1f km, want ~6790", i, mag)
		}
	}

	// 10 minutes is a substantial fraction of an orbit; the satellite must
	// have moved thousands of kilometers.
	dx := positions[1].X - positions[0].X
	dy := positions[1].Y - positions[0].Y
	dz := positions[1].Z - positions[0].Z
	if moved := math.Sqrt(dx*dx + dy*dy + dz*dz); moved < 1000 {
		t.Errorf("moved only %.1f km in 10 minutes", moved)
	}
}

func TestSGP4RejectsMalformedLines(t *testing.T) {
	cases := []struct {
		name         string
		line1, line2 string
	}{
		{"empty", "", ""},
		{"short", "1 25544U", "2 25544"},
		{"swapped prefixes", issLine2, issLine1},
	}
	for _, c := range cases {
		snap := tle.Snapshot{ObjectID: 25544, Line1: c.line1, Line2: c.line2}
		if _, err := (SGP4{}).Positions(snap, []time.Time{time.Now()}); err == nil {
			t.Errorf("%s: expected error for malformed element lines", c.name)
		}
	}
}

func TestSyntheticCircularOrbit(t *testing.T) {
	prop := Synthetic{AltitudeKm: 400, InclinationDeg: 90}
	epoch := time.Date(2023, 2, 6, 12, 0, 0, 0, time.UTC)
	snap := tle.Snapshot{ObjectID: 900001, Epoch: epoch}

	var times []time.Time
	for i := 0; i < 120; i++ {
		times = append(times, epoch.Add(time.Duration(i)*time.Minute))
	}

	positions, err := prop.Positions(snap, times)
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}

	wantRadius := 6378.136 + 400
	for i, p := range positions {
		mag := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		if math.Abs(mag-wantRadius) > 1e-6 {
			t.Errorf("sample %d: radius = %.9f km, want %.3f", i, mag, wantRadius)
		}
	}

	// A 400 km circular orbit has a period near 92.5 minutes; after one
	// period the satellite should be back near its start.
	period := 2 * math.Pi / math.Sqrt(398600.4418/math.Pow(wantRadius, 3))
	if period < 5500 || period > 5600 {
		t.Fatalf("unexpected period %.1f s for test setup", period)
	}
}

func TestSyntheticPhaseAtEpoch(t *testing.T) {
	epoch := time.Date(2023, 2, 6, 12, 0, 0, 0, time.UTC)
	prop := Synthetic{AltitudeKm: 400, InclinationDeg: 90, PhaseDeg: 90}
	snap := tle.Snapshot{ObjectID: 900001, Epoch: epoch}

	positions, err := prop.Positions(snap, []time.Time{epoch})
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}

	// Phase 90 on a 90-degree inclination orbit puts the satellite at the
	// north point of the orbit: all radius in +Z.
	p := positions[0]
	wantZ := 6378.136 + 400
	if math.Abs(p.Z-wantZ) > 1e-6 || math.Abs(p.X) > 1e-6 || math.Abs(p.Y) > 1e-6 {
		t.Errorf("position at epoch = (%.3f, %.3f, %.3f), want (0, 0, %.3f)", p.X, p.Y, p.Z, wantZ)
	}
}
