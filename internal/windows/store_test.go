package windows

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiments.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE experiment (
			experiment TEXT,
			mode       TEXT,
			start_time INTEGER,
			end_time   INTEGER
		)`,
		`CREATE TABLE site (
			shortname TEXT,
			latitude  REAL,
			longitude REAL,
			altitude  REAL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		label, mode string
		start, end  time.Time
	}{
		{"20230206.001", "WorldDay40.v01", base, base.Add(4 * time.Hour)},
		{"20230206.002", "IPY27.v01", base.Add(6 * time.Hour), base.Add(10 * time.Hour)},
		{"20230207.001", "WorldDay40.v01", base.Add(24 * time.Hour), base.Add(30 * time.Hour)},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO experiment (experiment, mode, start_time, end_time) VALUES (?, ?, ?, ?)`,
			r.label, r.mode, r.start.Unix(), r.end.Unix(),
		); err != nil {
			t.Fatalf("insert experiment: %v", err)
		}
	}

	if _, err := db.Exec(
		`INSERT INTO site (shortname, latitude, longitude, altitude) VALUES (?, ?, ?, ?)`,
		"pfisr", 65.12, -147.47, 213.0,
	); err != nil {
		t.Fatalf("insert site: %v", err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestWindowsOverlap(t *testing.T) {
	store, _ := newTestDB(t)
	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)

	// A range covering the first two experiments but ending before the third.
	wins, err := store.Windows(context.Background(), base.Add(time.Hour), base.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("Windows failed: %v", err)
	}
	if len(wins) != 2 {
		t.Fatalf("got %d windows, want 2", len(wins))
	}
	if wins[0].Label != "20230206.001" || wins[1].Label != "20230206.002" {
		t.Errorf("labels = %s, %s; want start-time order", wins[0].Label, wins[1].Label)
	}
	if wins[0].Mode != "WorldDay40.v01" {
		t.Errorf("mode = %s, want WorldDay40.v01", wins[0].Mode)
	}
	if !wins[0].Start.Equal(base) || !wins[0].End.Equal(base.Add(4*time.Hour)) {
		t.Errorf("window 0 spans %v to %v", wins[0].Start, wins[0].End)
	}
}

func TestWindowsBoundarySemantics(t *testing.T) {
	store, _ := newTestDB(t)
	base := time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC)

	// A query starting exactly when the first experiment ends excludes it:
	// overlap requires end_time > start.
	wins, err := store.Windows(context.Background(), base.Add(4*time.Hour), base.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("Windows failed: %v", err)
	}
	if len(wins) != 0 {
		t.Errorf("got %d windows, want 0 for back-to-back boundary", len(wins))
	}
}

func TestWindowsEmptyRange(t *testing.T) {
	store, _ := newTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	wins, err := store.Windows(context.Background(), base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Windows failed: %v", err)
	}
	if len(wins) != 0 {
		t.Errorf("got %d windows outside all experiments, want 0", len(wins))
	}
}

func TestSiteLookup(t *testing.T) {
	store, _ := newTestDB(t)

	rec, err := store.Site(context.Background(), "PFISR")
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if rec.Latitude != 65.12 || rec.Longitude != -147.47 || rec.Altitude != 213.0 {
		t.Errorf("site = %+v", rec)
	}

	if _, err := store.Site(context.Background(), "nosuch"); err == nil {
		t.Error("expected error for unknown site")
	}
}
