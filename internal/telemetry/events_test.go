package telemetry

import (
	"encoding/json"
	"testing"
	"time"
)

// The daemon broadcasts events as map[string]any; these structs document
// the schema. Marshal one of each and check the wire keys stay in sync
// with what the clients parse.
func TestEventWireKeys(t *testing.T) {
	pass := PassDetected{
		Event:    Event{Type: EventPass, TS: NowTS()},
		RunID:    "run-1",
		ObjectID: 25544,
		Window:   "20230206.001",
		Mode:     "WorldDay40.v01",
		Start:    "2023-02-06T11:58:00Z",
		End:      "2023-02-06T12:02:00Z",
		Samples:  5,
	}

	b, err := json.Marshal(pass)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"type", "ts", "run_id", "object_id", "window", "mode", "start", "end", "samples"} {
		if _, ok := m[key]; !ok {
			t.Errorf("pass event missing wire key %q", key)
		}
	}
	if m["type"] != "pass" {
		t.Errorf("type = %v, want pass", m["type"])
	}
}

func TestPassDetectedOmitsEmptyWindow(t *testing.T) {
	pass := PassDetected{
		Event: Event{Type: EventPass, TS: NowTS()},
		RunID: "run-2",
	}
	b, err := json.Marshal(pass)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["window"]; ok {
		t.Error("empty window should be omitted from unrestricted searches")
	}
}

func TestNowTSRoundTrips(t *testing.T) {
	ts := NowTS()
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Errorf("NowTS() = %q is not RFC 3339: %v", ts, err)
	}
}
