// Package windows reads sensor operating windows and site coordinates from
// the experiment database: an SQLite file with an `experiment` table of
// unix-time operating intervals and a `site` table of radar locations.
package windows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Window is one interval during which the sensor was operating.
type Window struct {
	Label string // experiment identifier, typically yyyymmdd.xxx
	Mode  string // mode the sensor was running, e.g. WorldDay40.v01
	Start time.Time
	End   time.Time
}

// SiteRecord is a site row from the database.
type SiteRecord struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Store is a read-only handle on the experiment database. Safe for
// concurrent use; database/sql pools connections internally.
type Store struct {
	db *sql.DB
}

// Open opens the experiment database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open experiment db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Windows returns operating windows overlapping [start, end), ordered by
// start time. A window counts as overlapping when it ends after start and
// begins before end.
func (s *Store) Windows(ctx context.Context, start, end time.Time) ([]Window, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT experiment, mode, start_time, end_time
		   FROM experiment
		  WHERE end_time > ? AND start_time < ?
		  ORDER BY start_time`,
		start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query operating windows: %w", err)
	}
	defer rows.Close()

	var out []Window
	for rows.Next() {
		var (
			w            Window
			ustart, uend int64
		)
		if err := rows.Scan(&w.Label, &w.Mode, &ustart, &uend); err != nil {
			return nil, fmt.Errorf("scan operating window: %w", err)
		}
		w.Start = time.Unix(ustart, 0).UTC()
		w.End = time.Unix(uend, 0).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

// Site looks up a site's coordinates by its short name (case-insensitive).
func (s *Store) Site(ctx context.Context, shortname string) (SiteRecord, error) {
	var rec SiteRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, altitude FROM site WHERE shortname = ?`,
		strings.ToLower(shortname),
	).Scan(&rec.Latitude, &rec.Longitude, &rec.Altitude)
	if errors.Is(err, sql.ErrNoRows) {
		return SiteRecord{}, fmt.Errorf("unknown site %q", shortname)
	}
	if err != nil {
		return SiteRecord{}, fmt.Errorf("query site %q: %w", shortname, err)
	}
	return rec, nil
}
