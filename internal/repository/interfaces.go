package repository

import (
	"signalguard/internal/model"
)

// EventRepository defines the interface for audit event operations.
type EventRepository interface {
	// Create operations
	Insert(event *model.EventRecord) (int64, error)

	// Read operations
	GetByID(id int64) (*model.EventRecord, error)
	GetRecent(limit int) ([]model.EventRecord, error)
	GetTotalCount() (int, error)
	GetByRunID(runID string) ([]model.EventRecord, error)
}

// DetectionRepository defines the interface for detection data operations.
type DetectionRepository interface {
	// Create operations
	InsertBatch(detections []model.DetectionRecord) error

	// Read operations
	GetByEventID(eventID int64) ([]model.DetectionRecord, error)
	GetAllLabels() ([]string, error)
}
