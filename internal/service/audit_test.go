package service

import (
	"context"
	"path/filepath"
	"testing"

	"signalguard/internal/model"
	"signalguard/internal/repository/sqlite"
)

func setupAudit(t *testing.T, runID string) (*AuditRecorder, *sqlite.EventRepository, *sqlite.DetectionRepository) {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	events := sqlite.NewEventRepository(db)
	detections := sqlite.NewDetectionRepository(db)
	return NewAuditRecorder(runID, events, detections), events, detections
}

func TestAuditRecorder_RecordsEventAndDetections(t *testing.T) {
	rec, events, detections := setupAudit(t, "run-42")

	event, _ := testEvent()
	report := model.DispatchReport{FrameIndex: event.FrameIndex, SnapshotPath: "latest_detection.jpg"}
	report.Add(model.Failed(model.ChannelActuation, "endpoint returned status 503"))

	if err := rec.Record(event, &report); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	stored, err := events.GetByRunID("run-42")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(stored))
	}
	got := stored[0]
	if got.FrameIndex != 30 || got.SnapshotPath != "latest_detection.jpg" {
		t.Errorf("Unexpected event %+v", got)
	}
	if got.ActuationOK || got.ActuationResult != "endpoint returned status 503" {
		t.Errorf("Unexpected actuation outcome %+v", got)
	}

	dets, err := detections.GetByEventID(got.ID)
	if err != nil {
		t.Fatalf("GetByEventID failed: %v", err)
	}
	if len(dets) != 1 || dets[0].Label != "ambulance" || dets[0].X2 != 110 || dets[0].Y2 != 220 {
		t.Errorf("Unexpected detections %+v", dets)
	}
}

func TestAuditRecorder_NoActuationAttempted(t *testing.T) {
	rec, events, _ := setupAudit(t, "run-1")

	event, _ := testEvent()
	if err := rec.Record(event, &model.DispatchReport{}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	stored, err := events.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ActuationResult != "not attempted" {
		t.Errorf("Unexpected events %+v", stored)
	}
}

func TestAuditRecorder_ThroughDispatcher(t *testing.T) {
	rec, events, _ := setupAudit(t, "run-7")
	act := &fakeActuator{res: model.Succeeded(model.ChannelActuation, "endpoint returned status 200")}

	d, _ := newTestDispatcher(t, DispatcherOptions{Actuator: act, Recorder: rec, RunID: "run-7"})
	event, _ := testEvent()
	report := d.Dispatch(context.Background(), event, false)

	if res, _ := report.Result(model.ChannelAudit); !res.OK {
		t.Fatalf("Audit channel failed: %s", res.Message)
	}
	count, err := events.GetTotalCount()
	if err != nil {
		t.Fatalf("GetTotalCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stored event, got %d", count)
	}
	stored, _ := events.GetByRunID("run-7")
	if len(stored) != 1 || !stored[0].ActuationOK {
		t.Errorf("Expected successful actuation recorded, got %+v", stored)
	}
}
