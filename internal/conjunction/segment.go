package conjunction

import (
	"time"

	"github.com/isr-tools/conjunction-engine/internal/resolve"
)

// Pass is one maximal run of in-conjunction samples. Immutable once built.
// Label and Mode are filled in by the operating-window join when the search
// is restricted to sensor windows.
type Pass struct {
	Samples resolve.Series
	Label   string
	Mode    string
}

// Start returns the first sample time of the pass.
func (p Pass) Start() time.Time { return p.Samples[0].Time }

// End returns the last sample time of the pass.
func (p Pass) End() time.Time { return p.Samples[len(p.Samples)-1].Time }

// Representative returns the mean sample time, the single timestamp used
// when a pass is reported as one event.
func (p Pass) Representative() time.Time {
	var sum int64
	for _, s := range p.Samples {
		sum += s.Time.Unix()
	}
	return time.Unix(sum/int64(len(p.Samples)), 0).UTC()
}

// Segment splits a masked position series into discrete passes. Walking
// the mask-true samples in time order, a pass boundary falls wherever the
// gap between consecutive samples exceeds the sampling interval. A lone
// sample with no in-tolerance neighbors becomes a one-sample pass; an
// all-false mask yields no passes.
//
// The gap rule assumes the series was sampled on a uniform grid with the
// given interval; the resolver preserves that property since it returns
// samples in input order.
func Segment(series resolve.Series, mask []bool, interval time.Duration) []Pass {
	var hits resolve.Series
	for i, ok := range mask {
		if i < len(series) && ok {
			hits = append(hits, series[i])
		}
	}
	if len(hits) == 0 {
		return nil
	}

	var passes []Pass
	runStart := 0
	for i := 1; i < len(hits); i++ {
		if hits[i].Time.Sub(hits[i-1].Time) > interval {
			passes = append(passes, Pass{Samples: hits[runStart:i:i]})
			runStart = i
		}
	}
	passes = append(passes, Pass{Samples: hits[runStart:]})

	return passes
}
