package conjunction

import (
	"testing"
	"time"

	"github.com/isr-tools/conjunction-engine/internal/resolve"
)

func gridSeries(start time.Time, step time.Duration, n int) resolve.Series {
	s := make(resolve.Series, n)
	for i := range s {
		s[i] = resolve.Sample{Time: start.Add(time.Duration(i) * step)}
	}
	return s
}

func TestSegmentSplitsOnGaps(t *testing.T) {
	start := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	step := time.Minute
	series := gridSeries(start, step, 6)
	mask := []bool{true, true, false, true, true, true}

	passes := Segment(series, mask, step)
	if len(passes) != 2 {
		t.Fatalf("got %d passes, want 2", len(passes))
	}
	if n := len(passes[0].Samples); n != 2 {
		t.Errorf("first pass has %d samples, want 2", n)
	}
	if n := len(passes[1].Samples); n != 3 {
		t.Errorf("second pass has %d samples, want 3", n)
	}
	if !passes[0].Start().Equal(start) || !passes[0].End().Equal(start.Add(step)) {
		t.Errorf("first pass spans %v to %v", passes[0].Start(), passes[0].End())
	}
	if !passes[1].Start().Equal(start.Add(3*step)) || !passes[1].End().Equal(start.Add(5*step)) {
		t.Errorf("second pass spans %v to %v", passes[1].Start(), passes[1].End())
	}
}

func TestSegmentAllFalse(t *testing.T) {
	start := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	series := gridSeries(start, time.Minute, 4)

	passes := Segment(series, []bool{false, false, false, false}, time.Minute)
	if passes != nil {
		t.Errorf("got %d passes for all-false mask, want none", len(passes))
	}
}

func TestSegmentSingleSamplePasses(t *testing.T) {
	start := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	step := time.Minute
	series := gridSeries(start, step, 5)
	mask := []bool{true, false, true, false, true}

	passes := Segment(series, mask, step)
	if len(passes) != 3 {
		t.Fatalf("got %d passes, want 3 one-sample passes", len(passes))
	}
	for i, p := range passes {
		if len(p.Samples) != 1 {
			t.Errorf("pass %d has %d samples, want 1", i, len(p.Samples))
		}
		if !p.Start().Equal(p.End()) {
			t.Errorf("pass %d: one-sample pass has Start != End", i)
		}
	}
}

func TestSegmentAllTrue(t *testing.T) {
	start := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	series := gridSeries(start, time.Minute, 4)

	passes := Segment(series, []bool{true, true, true, true}, time.Minute)
	if len(passes) != 1 {
		t.Fatalf("got %d passes, want 1", len(passes))
	}
	if len(passes[0].Samples) != 4 {
		t.Errorf("pass has %d samples, want 4", len(passes[0].Samples))
	}
}

func TestSegmentMaskLongerThanSeries(t *testing.T) {
	start := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	series := gridSeries(start, time.Minute, 2)

	// Masks longer than the series must not panic; extra entries are ignored.
	passes := Segment(series, []bool{true, true, true, true}, time.Minute)
	if len(passes) != 1 || len(passes[0].Samples) != 2 {
		t.Errorf("got %v, want one 2-sample pass", passes)
	}
}

func TestSegmentIdempotent(t *testing.T) {
	start := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	step := time.Minute
	series := gridSeries(start, step, 8)
	mask := []bool{true, true, false, true, false, true, true, true}

	passes := Segment(series, mask, step)
	if len(passes) != 3 {
		t.Fatalf("got %d passes, want 3", len(passes))
	}

	// Re-segmenting a pass's own samples with an all-true mask must give
	// back the same pass.
	for i, p := range passes {
		allTrue := make([]bool, len(p.Samples))
		for j := range allTrue {
			allTrue[j] = true
		}
		again := Segment(p.Samples, allTrue, step)
		if len(again) != 1 {
			t.Fatalf("pass %d re-segmented into %d passes, want 1", i, len(again))
		}
		if len(again[0].Samples) != len(p.Samples) {
			t.Errorf("pass %d re-segmented to %d samples, want %d", i, len(again[0].Samples), len(p.Samples))
		}
		if !again[0].Start().Equal(p.Start()) || !again[0].End().Equal(p.End()) {
			t.Errorf("pass %d re-segmented span %v to %v, want %v to %v",
				i, again[0].Start(), again[0].End(), p.Start(), p.End())
		}
	}
}

func TestPassRepresentative(t *testing.T) {
	start := time.Date(2023, 2, 6, 12, 0, 0, 0, time.UTC)
	p := Pass{Samples: gridSeries(start, time.Minute, 3)}

	// Mean of T, T+1m, T+2m is T+1m.
	if got := p.Representative(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Representative = %v, want %v", got, start.Add(time.Minute))
	}
}
