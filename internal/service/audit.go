package service

import (
	"fmt"
	"time"

	"signalguard/internal/model"
	"signalguard/internal/repository"
)

// AuditRecorder writes dispatched events into the audit trail.
type AuditRecorder struct {
	runID      string
	events     repository.EventRepository
	detections repository.DetectionRepository
}

// NewAuditRecorder stamps every record with runID.
func NewAuditRecorder(runID string, events repository.EventRepository, detections repository.DetectionRepository) *AuditRecorder {
	return &AuditRecorder{runID: runID, events: events, detections: detections}
}

// Record stores the event and its detections. The actuation outcome is
// taken from report.
func (r *AuditRecorder) Record(event model.ActuationEvent, report *model.DispatchReport) error {
	record := &model.EventRecord{
		RunID:        r.runID,
		FrameIndex:   event.FrameIndex,
		Timestamp:    time.Now(),
		SnapshotPath: report.SnapshotPath,
	}
	if res, ok := report.Result(model.ChannelActuation); ok {
		record.ActuationOK = res.OK
		record.ActuationResult = res.Message
	} else {
		record.ActuationResult = "not attempted"
	}
	if event.Frame != nil && !event.Frame.CapturedAt.IsZero() {
		record.Timestamp = event.Frame.CapturedAt
	}

	eventID, err := r.events.Insert(record)
	if err != nil {
		return err
	}

	rows := make([]model.DetectionRecord, 0, len(event.Detections))
	for _, det := range event.Detections {
		rows = append(rows, model.DetectionRecord{
			EventID:    eventID,
			Label:      det.Label,
			Confidence: det.Confidence,
			X1:         det.Box.Min.X,
			Y1:         det.Box.Min.Y,
			X2:         det.Box.Max.X,
			Y2:         det.Box.Max.Y,
		})
	}
	if err := r.detections.InsertBatch(rows); err != nil {
		return fmt.Errorf("event %d stored without detections: %w", eventID, err)
	}
	return nil
}
