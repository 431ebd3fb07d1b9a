package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"signalguard/internal/config"
	"signalguard/internal/logger"
	"signalguard/internal/repository/sqlite"
	"signalguard/internal/route"
	"signalguard/internal/service"
	"signalguard/internal/service/actuation"
	"signalguard/internal/service/ai"
	"signalguard/internal/service/ai/yolo"
	"signalguard/internal/service/alert"
	"signalguard/internal/service/policy"
	"signalguard/internal/service/storage"
	"signalguard/internal/service/video"
	"signalguard/internal/service/websocket"
)

type App struct {
	config   *config.Config
	logger   *logger.Logger
	runID    string
	db       *sqlite.DB
	detector *ai.Adapter
	hub      *websocket.HubService
	pipeline *service.Pipeline
	server   *http.Server
}

// NewApp builds every component from cfg. Nothing is opened on the video
// source until Run.
func NewApp(cfg *config.Config, logger *logger.Logger) (*App, error) {
	a := &App{
		config: cfg,
		logger: logger,
		runID:  uuid.NewString(),
		hub:    websocket.NewHubService(logger),
	}

	backend, err := yolo.New(yolo.Config{
		ModelPath:        cfg.ModelPath,
		ClassNames:       cfg.ClassNames,
		ConfidenceThresh: float32(cfg.ConfidenceThreshold),
		NMSThresh:        yolo.DefaultConfig().NMSThresh,
		InputWidth:       yolo.DefaultConfig().InputWidth,
		InputHeight:      yolo.DefaultConfig().InputHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load detector: %w", err)
	}
	a.detector = ai.NewAdapter(backend)

	snapshots, err := storage.NewSnapshotStore(cfg.SnapshotDirectory, cfg.SnapshotPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := service.DispatcherOptions{
		Snapshots: snapshots,
		Console:   alert.NewConsole(nil),
		Hub:       a.hub,
		Signal:    cfg.ActuationSignal,
		RunID:     a.runID,
	}
	if cfg.NotifyEnabled {
		opts.Desktop = alert.NewDesktop(cfg.NotifyTimeout, logger)
	}
	if cfg.ActuationEndpoint != "" {
		client := actuation.NewClient(cfg.ActuationEndpoint, cfg.ActuationSignal, cfg.ActuationTimeout)
		logger.Info("Actuation endpoint: %s (timeout %v)", client.Endpoint(), cfg.ActuationTimeout)
		opts.Actuator = client
	} else {
		logger.Warning("ACTUATION_ENDPOINT is empty, signal changes are disabled")
	}
	if cfg.DatabasePath != "" {
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		opts.Recorder = service.NewAuditRecorder(a.runID, sqlite.NewEventRepository(db), sqlite.NewDetectionRepository(db))
	}

	dispatcher, err := service.NewDispatcher(opts, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	debouncer, err := policy.NewDebouncer(cfg.SaveInterval, cfg.ConfirmFrames)
	if err != nil {
		a.Close()
		return nil, err
	}

	var display service.Display = video.Headless{}
	if cfg.DisplayEnabled {
		display = video.NewWindow(cfg.WindowTitle)
	}

	a.pipeline, err = service.NewPipeline(service.PipelineOptions{
		Open: func() (service.FrameSource, error) {
			source, err := video.Open(cfg.VideoSource)
			if err != nil {
				return nil, err
			}
			logger.Info("Opened video source %s", source.Name())
			return source, nil
		},
		Detector:      a.detector,
		Display:       display,
		Dispatcher:    dispatcher,
		Debouncer:     debouncer,
		Threshold:     cfg.ConfidenceThreshold,
		TargetClasses: cfg.TargetClasses,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.ViewerPort > 0 {
		deps := route.Deps{
			Hub:         a.hub,
			Status:      a.pipeline.Status,
			SnapshotDir: cfg.SnapshotDirectory,
			LogDir:      cfg.LogDirectory,
			Logger:      logger,
		}
		if a.db != nil {
			deps.EventRepo = sqlite.NewEventRepository(a.db)
			deps.DetectionRepo = sqlite.NewDetectionRepository(a.db)
		}
		a.server = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.ViewerPort),
			Handler:      route.SetupRoutes(deps),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
	}

	return a, nil
}

// Run starts the hub and viewer server, then drives the pipeline until it
// stops. The returned error is non-nil only when the video source could
// not be opened.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.hub.Run(ctx)

	if a.server != nil {
		go func() {
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Viewer server failed: %v", err)
			}
		}()
		a.logger.Info("Live feed: http://localhost%s/ws/events", a.server.Addr)
	}

	a.logger.Info("Run %s: source=%s model=%s threshold=%.2f targets=%v",
		a.runID, a.config.VideoSource, a.config.ModelPath, a.config.ConfidenceThreshold, a.config.TargetClasses)

	err := a.pipeline.Run(ctx)

	if a.server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warning("Viewer server shutdown: %v", err)
		}
	}
	return err
}

// Close releases the detector and the audit store.
func (a *App) Close() error {
	var errs []error
	if a.detector != nil {
		errs = append(errs, a.detector.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
