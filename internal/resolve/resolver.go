// Package resolve produces earth-fixed position series for arbitrary
// timestamp grids. It partitions the grid by nearest element epoch, runs
// the propagation primitive once per epoch group, rotates each group into
// the earth-fixed frame, and reassembles everything in input order.
package resolve

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/isr-tools/conjunction-engine/internal/frame"
	"github.com/isr-tools/conjunction-engine/internal/propagate"
	"github.com/isr-tools/conjunction-engine/internal/tle"
)

// Sample is one earth-fixed position (meters) at one timestamp.
type Sample struct {
	Time    time.Time
	X, Y, Z float64
}

// Series is a position series aligned 1:1 with the timestamp grid it was
// resolved for: Series[i].Time equals the i-th input timestamp.
type Series []Sample

// Times returns the timestamp grid of the series.
func (s Series) Times() []time.Time {
	ts := make([]time.Time, len(s))
	for i, smp := range s {
		ts[i] = smp.Time
	}
	return ts
}

// Resolver combines the element library, the propagation primitive, and the
// frame rotation. Safe for concurrent use; it holds no mutable state.
type Resolver struct {
	lib     *tle.Library
	prop    propagate.Propagator
	workers int
}

// New creates a resolver. workers bounds how many epoch groups propagate
// concurrently; values below 1 mean no limit.
func New(lib *tle.Library, prop propagate.Propagator, workers int) *Resolver {
	return &Resolver{lib: lib, prop: prop, workers: workers}
}

// Positions resolves earth-fixed positions for the object at every
// timestamp. The output is aligned with the input: out[i] corresponds to
// times[i] regardless of how the internal epoch grouping split the work.
// An empty timestamp slice yields an empty series. A failure in any epoch
// group fails the whole call; partial results are never returned.
func (r *Resolver) Positions(ctx context.Context, objectID int, times []time.Time) (Series, error) {
	if len(times) == 0 {
		return Series{}, nil
	}

	groups, err := r.lib.NearestEpochGroups(objectID, times)
	if err != nil {
		return nil, err
	}
	snaps, err := r.lib.Snapshots(objectID)
	if err != nil {
		return nil, err
	}

	out := make(Series, len(times))

	// Epoch groups are independent and write to disjoint output indices,
	// so they can propagate in parallel.
	g, ctx := errgroup.WithContext(ctx)
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}

	for snapIdx, idxs := range groups {
		snap := snaps[snapIdx]
		idxs := idxs
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			sub := make([]time.Time, len(idxs))
			for k, j := range idxs {
				sub[k] = times[j]
			}

			positions, err := r.prop.Positions(snap, sub)
			if err != nil {
				return fmt.Errorf("epoch %s: %w", snap.Epoch.Format(time.RFC3339), err)
			}
			if len(positions) != len(sub) {
				return fmt.Errorf("epoch %s: propagator returned %d positions for %d timestamps",
					snap.Epoch.Format(time.RFC3339), len(positions), len(sub))
			}

			for k, j := range idxs {
				x, y, z := frame.RotateToEarthFixed(positions[k].X, positions[k].Y, positions[k].Z, sub[k])
				out[j] = Sample{Time: sub[k], X: x * 1000.0, Y: y * 1000.0, Z: z * 1000.0}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
