package route

import (
	"net/http"
	"signalguard/internal/handler"
	"signalguard/internal/logger"
	"signalguard/internal/model"
	"signalguard/internal/repository"
	"signalguard/internal/service/websocket"

	"github.com/gorilla/mux"
)

// Deps carries what the viewer routes read from. Repositories may be nil
// when the audit trail is disabled.
type Deps struct {
	Hub           *websocket.HubService
	Status        func() model.Status
	EventRepo     repository.EventRepository
	DetectionRepo repository.DetectionRepository
	SnapshotDir   string
	LogDir        string
	Logger        *logger.Logger
}

// SetupRoutes registers the live feed, API and file endpoints.
func SetupRoutes(deps Deps) http.Handler {
	r := mux.NewRouter()

	// Live feed
	r.HandleFunc("/ws/events", handler.EventFeedHandler(deps.Hub, deps.Logger))

	// API endpoints
	r.HandleFunc("/api/status", handler.StatusHandler(deps.Status, deps.Logger)).Methods(http.MethodGet)
	if deps.EventRepo != nil {
		r.HandleFunc("/api/events", handler.GetEventsHandler(deps.EventRepo, deps.DetectionRepo, deps.Logger)).Methods(http.MethodGet)
		r.HandleFunc("/api/events/{id:[0-9]+}", handler.GetEventHandler(deps.EventRepo, deps.DetectionRepo, deps.Logger)).Methods(http.MethodGet)
	}
	if deps.DetectionRepo != nil {
		r.HandleFunc("/api/labels", handler.GetLabelsHandler(deps.DetectionRepo, deps.Logger)).Methods(http.MethodGet)
	}

	// Files
	r.HandleFunc("/snapshots/{name}", handler.ViewSnapshotHandler(deps.SnapshotDir)).Methods(http.MethodGet)
	r.HandleFunc("/logs/{level}", handler.ShowLogsHandler(deps.LogDir)).Methods(http.MethodGet)

	return r
}
