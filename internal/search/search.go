// Package search runs conjunction searches: it samples a time window,
// resolves satellite positions, evaluates the proximity criterion, and
// segments the result into passes — optionally restricted to the intervals
// a sensor was actually operating.
package search

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/isr-tools/conjunction-engine/internal/conjunction"
	"github.com/isr-tools/conjunction-engine/internal/frame"
	"github.com/isr-tools/conjunction-engine/internal/propagate"
	"github.com/isr-tools/conjunction-engine/internal/resolve"
	"github.com/isr-tools/conjunction-engine/internal/tle"
	"github.com/isr-tools/conjunction-engine/internal/windows"
	"github.com/isr-tools/conjunction-engine/internal/ws"
)

// Params are the knobs of one search configuration.
//
// Step and the tolerances interact: the smaller the step, the less chance
// of skipping over a tight conjunction, at the cost of proportionally more
// propagation work. Ideally several steps of footprint motion fit inside
// the tolerance at the site.
type Params struct {
	Step               time.Duration
	Criterion          conjunction.Criterion
	Frame              conjunction.CoordFrame
	ZenithToleranceDeg float64
	LatToleranceDeg    float64
	LonToleranceDeg    float64
	MaxEpochAge        time.Duration
	Workers            int
}

// Options holds everything a Searcher needs from the caller. Windows, Hub,
// and GeoMag are optional; Logger defaults to the standard logger.
type Options struct {
	Library    *tle.Library
	Propagator propagate.Propagator
	Site       frame.Site
	GeoMag     conjunction.GeoMag
	Windows    *windows.Store
	Hub        *ws.Hub
	Logger     *log.Logger
	Params     Params
}

// Result is the outcome of one search run.
type Result struct {
	RunID    string             `json:"run_id"`
	ObjectID int                `json:"object_id"`
	Start    time.Time          `json:"start"`
	End      time.Time          `json:"end"`
	Passes   []conjunction.Pass `json:"passes"`
}

// Searcher wires the element library, resolver, and evaluator into the
// full pipeline. Read-only after construction; safe to share across
// concurrent searches for different objects or windows.
type Searcher struct {
	lib      *tle.Library
	resolver *resolve.Resolver
	eval     conjunction.Evaluator
	windows  *windows.Store
	hub      *ws.Hub
	log      *log.Logger
	params   Params
}

// New creates a searcher from the given options.
func New(opts Options) *Searcher {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Searcher{
		lib:      opts.Library,
		resolver: resolve.New(opts.Library, opts.Propagator, opts.Params.Workers),
		eval: conjunction.Evaluator{
			Site:               opts.Site,
			Criterion:          opts.Params.Criterion,
			Frame:              opts.Params.Frame,
			ZenithToleranceDeg: opts.Params.ZenithToleranceDeg,
			LatToleranceDeg:    opts.Params.LatToleranceDeg,
			LonToleranceDeg:    opts.Params.LonToleranceDeg,
			GeoMag:             opts.GeoMag,
		},
		windows: opts.Windows,
		hub:     opts.Hub,
		log:     logger,
		params:  opts.Params,
	}
}

// Site returns the site geometry the searcher evaluates against.
func (s *Searcher) Site() frame.Site { return s.eval.Site }

// Conjunctions finds all passes of the object over [start, end), sampled
// at the configured step.
func (s *Searcher) Conjunctions(ctx context.Context, objectID int, start, end time.Time) (Result, error) {
	res := Result{
		RunID:    uuid.NewString(),
		ObjectID: objectID,
		Start:    start,
		End:      end,
	}

	passes, err := s.run(ctx, res.RunID, objectID, start, end, "", "")
	if err != nil {
		return res, err
	}
	res.Passes = passes
	return res, nil
}

// WindowConjunctions finds passes restricted to the sensor's operating
// windows inside [start, end). Each pass carries the label and mode of the
// window it fell in. A failure inside one window is logged and skipped;
// it never aborts the remaining windows.
func (s *Searcher) WindowConjunctions(ctx context.Context, objectID int, start, end time.Time) (Result, error) {
	res := Result{
		RunID:    uuid.NewString(),
		ObjectID: objectID,
		Start:    start,
		End:      end,
	}

	if s.windows == nil {
		return res, fmt.Errorf("no operating-window store configured")
	}

	wins, err := s.windows.Windows(ctx, start, end)
	if err != nil {
		return res, err
	}

	for i, w := range wins {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		wStart, wEnd := w.Start, w.End
		if wStart.Before(start) {
			wStart = start
		}
		if wEnd.After(end) {
			wEnd = end
		}

		passes, err := s.run(ctx, res.RunID, objectID, wStart, wEnd, w.Label, w.Mode)
		if err != nil {
			s.log.Printf("search: window %s (%s) failed: %v", w.Label, w.Mode, err)
			s.broadcast(map[string]any{
				"type":    "log",
				"level":   "warn",
				"message": fmt.Sprintf("window %s failed: %v", w.Label, err),
			})
			continue
		}
		res.Passes = append(res.Passes, passes...)

		s.broadcast(map[string]any{
			"type":    "progress",
			"run_id":  res.RunID,
			"stage":   "windows",
			"percent": float64(i+1) / float64(len(wins)) * 100,
			"detail":  fmt.Sprintf("window %s: %d passes", w.Label, len(passes)),
		})
	}

	return res, nil
}

// run executes the core pipeline over one interval and labels the passes.
func (s *Searcher) run(ctx context.Context, runID string, objectID int, start, end time.Time, label, mode string) ([]conjunction.Pass, error) {
	grid := timeGrid(start, end, s.params.Step)
	if len(grid) == 0 {
		return nil, nil
	}

	if s.params.MaxEpochAge > 0 {
		stale, err := s.lib.StaleCount(objectID, grid, s.params.MaxEpochAge)
		if err != nil {
			return nil, err
		}
		if stale > 0 {
			s.log.Printf("search: object %d: %d of %d samples further than %s from the nearest element epoch",
				objectID, stale, len(grid), s.params.MaxEpochAge)
		}
	}

	series, err := s.resolver.Positions(ctx, objectID, grid)
	if err != nil {
		return nil, err
	}

	mask, err := s.eval.Mask(series, start)
	if err != nil {
		return nil, err
	}

	passes := conjunction.Segment(series, mask, s.params.Step)
	for i := range passes {
		passes[i].Label = label
		passes[i].Mode = mode

		s.broadcast(map[string]any{
			"type":      "pass",
			"run_id":    runID,
			"object_id": objectID,
			"window":    label,
			"mode":      mode,
			"start":     passes[i].Start().UTC().Format(time.RFC3339),
			"end":       passes[i].End().UTC().Format(time.RFC3339),
			"samples":   len(passes[i].Samples),
		})
	}
	return passes, nil
}

// broadcast stamps a payload with a timestamp and component name, then
// pushes it to every connected WebSocket client. No-op without a hub.
func (s *Searcher) broadcast(v map[string]any) {
	if s.hub == nil {
		return
	}
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "search"
	s.hub.BroadcastJSON(v)
}

// timeGrid samples [start, end) at the given step, start inclusive.
func timeGrid(start, end time.Time, step time.Duration) []time.Time {
	if step <= 0 || !start.Before(end) {
		return nil
	}
	n := int(end.Sub(start)/step) + 1
	grid := make([]time.Time, 0, n)
	for t := start; t.Before(end); t = t.Add(step) {
		grid = append(grid, t)
	}
	return grid
}
