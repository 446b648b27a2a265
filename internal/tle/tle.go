// Package tle manages two-line element snapshots for the objects being
// tracked: parsing catalog text, holding the per-object epoch-ordered
// snapshot library, and partitioning query times by nearest epoch so each
// snapshot is propagated at most once per resolution.
package tle

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"
)

// Snapshot is one timestamped element set for an object. The raw lines are
// kept verbatim; everything downstream treats them as opaque propagation
// input. Immutable once parsed.
type Snapshot struct {
	ObjectID int
	Name     string
	Epoch    time.Time
	Line1    string
	Line2    string
}

// Parse reads catalog text from r and returns the snapshots it contains.
// Both the 3-line form (name, line 1, line 2) served by CelesTrak and the
// bare 2-line form returned by space-track with format=tle are accepted.
// Malformed groups are skipped.
func Parse(r io.Reader) ([]Snapshot, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var snaps []Snapshot
	for i := 0; i < len(lines); {
		name := ""
		if !strings.HasPrefix(lines[i], "1 ") {
			name = strings.TrimSpace(lines[i])
			i++
		}
		if i+1 >= len(lines) || !strings.HasPrefix(lines[i], "1 ") || !strings.HasPrefix(lines[i+1], "2 ") {
			i++
			continue
		}
		line1, line2 := lines[i], lines[i+1]
		i += 2

		snap, err := parseSnapshot(name, line1, line2)
		if err != nil {
			continue
		}
		snaps = append(snaps, snap)
	}

	return snaps, nil
}

// parseSnapshot validates one element group through the SGP4 library and
// extracts the epoch from the fixed-width field on line 1. Two-line input
// gets a synthesized name so the parser always sees the 3-line form.
func parseSnapshot(name, line1, line2 string) (Snapshot, error) {
	if len(line1) < 32 || len(line2) < 7 {
		return Snapshot{}, fmt.Errorf("element line too short: %d/%d bytes", len(line1), len(line2))
	}
	if name == "" {
		id := strings.TrimSpace(line1[2:7])
		name = "OBJECT " + id
	}

	group := name + "\n" + line1 + "\n" + line2
	parsed, err := sgp4.ParseTLE(group)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse element set: %w", err)
	}

	epoch, err := parseEpoch(line1)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		ObjectID: parsed.SatelliteNumber,
		Name:     strings.TrimSpace(name),
		Epoch:    epoch,
		Line1:    line1,
		Line2:    line2,
	}, nil
}

// parseEpoch decodes the line-1 epoch field (bytes 18..32): two-digit year
// followed by fractional day of year. Years 57-99 are 1900s, 00-56 are
// 2000s, per the NORAD convention.
func parseEpoch(line1 string) (time.Time, error) {
	if len(line1) < 32 {
		return time.Time{}, fmt.Errorf("element line too short for epoch: %d bytes", len(line1))
	}
	field := strings.TrimSpace(line1[18:32])
	if len(field) < 5 {
		return time.Time{}, fmt.Errorf("epoch field too short: %q", field)
	}

	year, err := strconv.Atoi(field[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch year %q: %w", field[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	doy, err := strconv.ParseFloat(field[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch day %q: %w", field[2:], err)
	}

	// Day of year is 1-based: day 1.0 is midnight January 1.
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration((doy - 1) * float64(24*time.Hour))), nil
}
