package model

import "time"

// EventRecord is the audit trail entry written for each dispatched event.
type EventRecord struct {
	ID              int64     `json:"id"`
	RunID           string    `json:"run_id"`
	FrameIndex      uint64    `json:"frame_index"`
	Timestamp       time.Time `json:"timestamp"`
	SnapshotPath    string    `json:"snapshot_path,omitempty"`
	ActuationOK     bool      `json:"actuation_ok"`
	ActuationResult string    `json:"actuation_result"`
}

// DetectionRecord is one detection attached to an event.
type DetectionRecord struct {
	ID         int64   `json:"id"`
	EventID    int64   `json:"event_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
}
