package handler

import (
	"encoding/json"
	"net/http"
	"signalguard/internal/dto"
	"signalguard/internal/logger"
	"signalguard/internal/model"
	"signalguard/internal/repository"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	// DefaultEventsLimit is used when the request carries no usable limit.
	DefaultEventsLimit = 50
	// MaxEventsLimit caps a single listing.
	MaxEventsLimit = 500
)

// GetEventsHandler returns the most recent audit events with their detections.
func GetEventsHandler(eventRepo repository.EventRepository, detectionRepo repository.DetectionRepository,
	logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), DefaultEventsLimit)
		if limit > MaxEventsLimit {
			limit = MaxEventsLimit
		}

		var (
			events     []model.EventRecord
			totalCount int
			err        error
		)
		// ?run= returns the newest events of one run in dispatch order.
		if runID := r.URL.Query().Get("run"); runID != "" {
			events, err = eventRepo.GetByRunID(runID)
			totalCount = len(events)
			if len(events) > limit {
				events = events[len(events)-limit:]
			}
		} else {
			events, err = eventRepo.GetRecent(limit)
			if err == nil {
				if totalCount, err = eventRepo.GetTotalCount(); err != nil {
					logger.Error("Error counting events: %v", err)
					totalCount, err = len(events), nil
				}
			}
		}
		if err != nil {
			logger.Error("Error querying events from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		infos := make([]dto.EventInfo, 0, len(events))
		for _, event := range events {
			infos = append(infos, eventInfo(event, detectionRepo, logger))
		}

		writeJSON(w, logger, dto.EventsData{
			Events: infos,
			Total:  totalCount,
			Limit:  limit,
		})
	}
}

// GetEventHandler returns one audit event, named by the {id} route variable.
func GetEventHandler(eventRepo repository.EventRepository, detectionRepo repository.DetectionRepository,
	logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid event id", http.StatusBadRequest)
			return
		}

		event, err := eventRepo.GetByID(id)
		if err != nil {
			logger.Error("Error querying event %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if event == nil {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}

		writeJSON(w, logger, eventInfo(*event, detectionRepo, logger))
	}
}

// GetLabelsHandler lists every label recorded in the audit trail.
func GetLabelsHandler(detectionRepo repository.DetectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, err := detectionRepo.GetAllLabels()
		if err != nil {
			logger.Error("Error querying labels: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if labels == nil {
			labels = []string{}
		}
		writeJSON(w, logger, map[string][]string{"labels": labels})
	}
}

func eventInfo(event model.EventRecord, detectionRepo repository.DetectionRepository, logger *logger.Logger) dto.EventInfo {
	detections := []model.DetectionRecord{}
	if detectionRepo != nil {
		found, err := detectionRepo.GetByEventID(event.ID)
		if err != nil {
			logger.Error("Error getting detections for event %d: %v", event.ID, err)
		} else if found != nil {
			detections = found
		}
	}
	return dto.EventInfo{EventRecord: event, Detections: detections}
}

// StatusHandler reports the live pipeline counters.
func StatusHandler(status func() model.Status, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, status())
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
