package sqlite

import (
	"database/sql"
	"fmt"

	"signalguard/internal/model"
)

// EventRepository implements repository.EventRepository for SQLite.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, run_id, frame_index, timestamp, snapshot_path, actuation_ok, actuation_result`

// Insert adds a new event record to the database.
func (r *EventRepository) Insert(event *model.EventRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO events (run_id, frame_index, timestamp, snapshot_path, actuation_ok, actuation_result)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.RunID, event.FrameIndex, event.Timestamp, event.SnapshotPath, event.ActuationOK, event.ActuationResult)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves an event by its ID. A missing event yields nil, nil.
func (r *EventRepository) GetByID(id int64) (*model.EventRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var event model.EventRecord
	err := r.db.Conn().QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = ?`, id).
		Scan(&event.ID, &event.RunID, &event.FrameIndex, &event.Timestamp, &event.SnapshotPath, &event.ActuationOK, &event.ActuationResult)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// GetRecent returns up to limit events, newest first.
func (r *EventRepository) GetRecent(limit int) ([]model.EventRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT `+eventColumns+` FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByRunID returns the events of one run in dispatch order.
func (r *EventRepository) GetByRunID(runID string) ([]model.EventRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT `+eventColumns+` FROM events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetTotalCount returns the number of stored events.
func (r *EventRepository) GetTotalCount() (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func scanEvents(rows *sql.Rows) ([]model.EventRecord, error) {
	var events []model.EventRecord
	for rows.Next() {
		var event model.EventRecord
		if err := rows.Scan(&event.ID, &event.RunID, &event.FrameIndex, &event.Timestamp, &event.SnapshotPath, &event.ActuationOK, &event.ActuationResult); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
