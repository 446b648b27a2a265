package tle

import (
	"errors"
	"testing"
	"time"
)

// snap builds a minimal snapshot for library tests; the element lines are
// never propagated here so they stay empty.
func snap(objectID int, epoch time.Time) Snapshot {
	return Snapshot{ObjectID: objectID, Epoch: epoch}
}

func TestNewLibrarySortsAndDedupes(t *testing.T) {
	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	lib := NewLibrary([]Snapshot{
		snap(101, base.Add(48*time.Hour)),
		snap(101, base),
		snap(101, base.Add(24*time.Hour)),
		snap(101, base), // duplicate epoch, dropped
		snap(202, base),
	})

	ids := lib.Objects()
	if len(ids) != 2 || ids[0] != 101 || ids[1] != 202 {
		t.Fatalf("Objects() = %v, want [101 202]", ids)
	}

	seq, err := lib.Snapshots(101)
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if len(seq) != 3 {
		t.Fatalf("got %d snapshots for 101, want 3 after dedupe", len(seq))
	}
	for i := 1; i < len(seq); i++ {
		if !seq[i-1].Epoch.Before(seq[i].Epoch) {
			t.Errorf("epochs not strictly increasing at %d: %v >= %v", i, seq[i-1].Epoch, seq[i].Epoch)
		}
	}
}

func TestSnapshotsUnknownObject(t *testing.T) {
	lib := NewLibrary([]Snapshot{snap(101, time.Now())})

	if _, err := lib.Snapshots(999); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("err = %v, want ErrUnknownObject", err)
	}
	if _, err := lib.NearestEpochGroups(999, []time.Time{time.Now()}); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("NearestEpochGroups err = %v, want ErrUnknownObject", err)
	}
}

func TestNearestEpochGroups(t *testing.T) {
	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	e0, e1, e2 := base, base.Add(24*time.Hour), base.Add(48*time.Hour)
	lib := NewLibrary([]Snapshot{snap(101, e1), snap(101, e2), snap(101, e0)})

	times := []time.Time{
		e0.Add(-time.Hour),       // before all epochs -> snapshot 0
		e0.Add(time.Hour),        // near e0
		e1.Add(-2 * time.Hour),   // still nearest e1
		e2.Add(100 * time.Hour),  // after all epochs -> last snapshot
		e0.Add(30 * time.Minute), // near e0, out of sorted order
	}

	groups, err := lib.NearestEpochGroups(101, times)
	if err != nil {
		t.Fatalf("NearestEpochGroups failed: %v", err)
	}

	want := map[int][]int{
		0: {0, 1, 4},
		1: {2},
		2: {3},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d: %v", len(groups), len(want), groups)
	}
	for snapIdx, idxs := range want {
		got := groups[snapIdx]
		if len(got) != len(idxs) {
			t.Errorf("group %d = %v, want %v", snapIdx, got, idxs)
			continue
		}
		for k := range idxs {
			if got[k] != idxs[k] {
				t.Errorf("group %d = %v, want %v", snapIdx, got, idxs)
				break
			}
		}
	}

	// Every input index appears in exactly one group.
	seen := make(map[int]bool)
	for _, idxs := range groups {
		for _, j := range idxs {
			if seen[j] {
				t.Errorf("timestamp index %d assigned twice", j)
			}
			seen[j] = true
		}
	}
	if len(seen) != len(times) {
		t.Errorf("%d of %d timestamp indices assigned", len(seen), len(times))
	}
}

func TestNearestEpochTieBreaksEarlier(t *testing.T) {
	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	lib := NewLibrary([]Snapshot{
		snap(101, base),
		snap(101, base.Add(2*time.Hour)),
	})

	// Exactly halfway between the two epochs.
	groups, err := lib.NearestEpochGroups(101, []time.Time{base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("NearestEpochGroups failed: %v", err)
	}
	if _, ok := groups[0]; !ok {
		t.Errorf("tie resolved to %v, want earlier snapshot 0", groups)
	}
}

func TestStaleCount(t *testing.T) {
	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	lib := NewLibrary([]Snapshot{snap(101, base)})

	times := []time.Time{
		base.Add(time.Hour),           // fresh
		base.Add(10 * 24 * time.Hour), // fresh at 14d limit
		base.Add(20 * 24 * time.Hour), // stale
		base.Add(-15 * 24 * time.Hour), // stale on the early side too
	}
	stale, err := lib.StaleCount(101, times, 14*24*time.Hour)
	if err != nil {
		t.Fatalf("StaleCount failed: %v", err)
	}
	if stale != 2 {
		t.Errorf("stale = %d, want 2", stale)
	}
}
