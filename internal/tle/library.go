package tle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrEmptyLibrary is returned when an object has no snapshots at all.
	ErrEmptyLibrary = errors.New("element library holds no snapshots")

	// ErrUnknownObject is returned when the requested object identifier is
	// absent from the library.
	ErrUnknownObject = errors.New("object not in element library")
)

// Library maps object identifiers to epoch-ordered snapshot sequences.
// Read-only after construction; safe for concurrent use.
type Library struct {
	objects map[int][]Snapshot
}

// NewLibrary builds a library from parsed snapshots. Snapshots are grouped
// by object and sorted by epoch; duplicate epochs for the same object keep
// the first occurrence so epochs stay strictly increasing.
func NewLibrary(snaps []Snapshot) *Library {
	objects := make(map[int][]Snapshot)
	for _, s := range snaps {
		objects[s.ObjectID] = append(objects[s.ObjectID], s)
	}

	for id, seq := range objects {
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].Epoch.Before(seq[j].Epoch)
		})
		dedup := seq[:0]
		for i, s := range seq {
			if i > 0 && s.Epoch.Equal(dedup[len(dedup)-1].Epoch) {
				continue
			}
			dedup = append(dedup, s)
		}
		objects[id] = dedup
	}

	return &Library{objects: objects}
}

// Objects returns the identifiers present in the library, sorted ascending.
func (l *Library) Objects() []int {
	ids := make([]int, 0, len(l.objects))
	for id := range l.objects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Snapshots returns the epoch-ordered snapshots for an object. The returned
// slice must not be modified.
func (l *Library) Snapshots(objectID int) ([]Snapshot, error) {
	seq, ok := l.objects[objectID]
	if !ok {
		return nil, fmt.Errorf("object %d: %w", objectID, ErrUnknownObject)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("object %d: %w", objectID, ErrEmptyLibrary)
	}
	return seq, nil
}

// NearestEpochGroups partitions the given timestamps by the snapshot whose
// epoch is closest to each. The result maps a snapshot index (into
// Snapshots(objectID)) to the indices of the timestamps it serves, so every
// snapshot is initialized for propagation at most once. Timestamps need not
// be sorted or fall inside the library's epoch range. Ties between two
// equidistant epochs resolve to the earlier snapshot.
func (l *Library) NearestEpochGroups(objectID int, times []time.Time) (map[int][]int, error) {
	seq, err := l.Snapshots(objectID)
	if err != nil {
		return nil, err
	}

	groups := make(map[int][]int)
	for j, t := range times {
		i := nearestEpoch(seq, t)
		groups[i] = append(groups[i], j)
	}
	return groups, nil
}

// StaleCount reports how many of the timestamps are further than maxAge
// from their nearest epoch. Propagation accuracy degrades past one to two
// weeks from epoch; staleness is worth a warning but is never an error.
func (l *Library) StaleCount(objectID int, times []time.Time, maxAge time.Duration) (int, error) {
	seq, err := l.Snapshots(objectID)
	if err != nil {
		return 0, err
	}

	stale := 0
	for _, t := range times {
		i := nearestEpoch(seq, t)
		if absDuration(t.Sub(seq[i].Epoch)) > maxAge {
			stale++
		}
	}
	return stale, nil
}

// nearestEpoch returns the index into seq whose epoch minimizes the
// absolute difference to t. seq must be sorted by epoch. On a tie the
// earlier index wins.
func nearestEpoch(seq []Snapshot, t time.Time) int {
	i := sort.Search(len(seq), func(i int) bool {
		return !seq[i].Epoch.Before(t)
	})
	if i == 0 {
		return 0
	}
	if i == len(seq) {
		return len(seq) - 1
	}
	if absDuration(t.Sub(seq[i-1].Epoch)) <= absDuration(seq[i].Epoch.Sub(t)) {
		return i - 1
	}
	return i
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
