package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/conjunction"
	"github.com/isr-tools/conjunction-engine/internal/frame"
	"github.com/isr-tools/conjunction-engine/internal/propagate"
	"github.com/isr-tools/conjunction-engine/internal/search"
	"github.com/isr-tools/conjunction-engine/internal/tle"
)

// demoObjectID is the fabricated catalog number the demo satellite flies
// under. High enough to never collide with a real NORAD number.
const demoObjectID = 900001

// demoLoop runs searches against a synthetic satellite so the daemon, CLI,
// and event stream can be exercised end-to-end without a real element
// catalog or network access. The synthetic orbit is aimed so that it
// crosses the site zenith once per demo window, guaranteeing a pass.
func (a *App) demoLoop(ctx context.Context) {
	a.emit("demo", map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "demo mode active: searching a synthetic orbit",
	})

	interval := time.Duration(a.cfg.Demo.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	if !sleepOrCancel(ctx, 2*time.Second) {
		return
	}
	a.runDemoSearch(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.runDemoSearch(ctx)
		}
	}
}

// runDemoSearch builds a one-object synthetic library, aims the orbit at the
// site, and runs a 24-hour search centered on the overhead time.
func (a *App) runDemoSearch(ctx context.Context) {
	overhead := time.Now().UTC().Truncate(time.Minute).Add(12 * time.Hour)
	start := overhead.Add(-12 * time.Hour)
	end := overhead.Add(12 * time.Hour)

	const altKm = 400.0
	prop := overheadOrbit(a.site, altKm, overhead)

	lib := tle.NewLibrary([]tle.Snapshot{{
		ObjectID: demoObjectID,
		Name:     "DEMO SAT",
		Epoch:    overhead,
	}})

	params := search.Params{
		Step:               time.Duration(a.cfg.Search.StepSeconds * float64(time.Second)),
		Criterion:          conjunction.CriterionZenith,
		ZenithToleranceDeg: a.cfg.Search.ZenithToleranceDeg,
		Workers:            1,
	}

	s := search.New(search.Options{
		Library:    lib,
		Propagator: prop,
		Site:       a.site,
		Hub:        a.wsHub,
		Logger:     a.log,
		Params:     params,
	})

	a.transition("SEARCHING")
	defer a.transition("IDLE")

	res, err := s.Conjunctions(ctx, demoObjectID, start, end)
	if err != nil {
		a.log.Printf("demo search failed: %v", err)
		return
	}

	a.emit("demo", map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("demo search found %d pass(es) over %s to %s",
			len(res.Passes), start.Format(time.RFC3339), end.Format(time.RFC3339)),
	})
}

// overheadOrbit returns a circular polar orbit whose ground track crosses
// directly over the site at the given time. The site zenith point is pushed
// out to orbital radius, rotated back into the inertial frame at t0, and
// read off as the node and in-plane phase of a 90-degree-inclination orbit.
func overheadOrbit(site frame.Site, altKm float64, t0 time.Time) propagate.Synthetic {
	a := 6378.136 + altKm

	xE := a * site.Zenith[0]
	yE := a * site.Zenith[1]
	zE := a * site.Zenith[2]

	g := frame.GMST(t0)
	cosG, sinG := math.Cos(g), math.Sin(g)
	xI := xE*cosG - yE*sinG
	yI := xE*sinG + yE*cosG

	const radToDeg = 180.0 / math.Pi
	return propagate.Synthetic{
		AltitudeKm:     altKm,
		InclinationDeg: 90,
		NodeDeg:        math.Atan2(yI, xI) * radToDeg,
		PhaseDeg:       math.Asin(zE/a) * radToDeg,
	}
}

func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
