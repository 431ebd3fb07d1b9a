// EventMessage is broadcast to live viewers for every dispatched event.
package dto

import (
	"time"

	"signalguard/internal/model"
)

type EventMessage struct {
	Type         string                `json:"type"`
	RunID        string                `json:"runId"`
	FrameIndex   uint64                `json:"frameIndex"`
	Timestamp    time.Time             `json:"timestamp"`
	Detections   []model.Detection     `json:"detections"`
	SnapshotPath string                `json:"snapshotPath,omitempty"`
	Results      []model.ChannelResult `json:"results"`
}
