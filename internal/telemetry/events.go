// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between conjunctiond and its clients. These types
// document the event schema; most internal code still broadcasts events as
// map[string]any for flexibility.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat EventType = "heartbeat"
	EventState     EventType = "state"
	EventProgress  EventType = "progress"
	EventLog       EventType = "log"
	EventPass      EventType = "pass"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. IDLE -> SEARCHING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// Progress reports incremental completion of a long-running search, one
// update per operating window or sampling chunk.
type Progress struct {
	Event
	RunID   string  `json:"run_id"`
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Detail  string  `json:"detail"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// PassDetected announces one conjunction pass as the search finds it.
type PassDetected struct {
	Event
	RunID    string `json:"run_id"`
	ObjectID int    `json:"object_id"`
	Window   string `json:"window,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Samples  int    `json:"samples"`
}
