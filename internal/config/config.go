package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SnapshotPolicy selects how persisted snapshot files are named.
type SnapshotPolicy string

const (
	// SnapshotIncrementing writes detected_frame_{n}.jpg, one file per persisted frame.
	SnapshotIncrementing SnapshotPolicy = "incrementing"
	// SnapshotOverwrite keeps a single latest_detection.jpg.
	SnapshotOverwrite SnapshotPolicy = "overwrite"
)

type Config struct {
	VideoSource         string // Camera index ("0") or a file path / stream URL
	ModelPath           string
	ClassNames          []string // Index = class id reported by the model
	ConfidenceThreshold float64
	SaveInterval        int      // Frames between persisted snapshots while an event is active
	TargetClasses       []string // Empty = every class qualifies
	ConfirmFrames       int      // Consecutive qualifying frames before an event is raised
	ActuationEndpoint   string
	ActuationSignal     string
	ActuationTimeout    time.Duration
	SnapshotPolicy      SnapshotPolicy
	SnapshotDirectory   string
	NotifyEnabled       bool
	NotifyTimeout       time.Duration // Deliveries slower than this are logged
	DisplayEnabled      bool
	WindowTitle         string
	LogDirectory        string
	LogLevel            string
	DatabasePath        string
	ViewerPort          int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	env := &envReader{}
	cfg := &Config{
		VideoSource:         getEnv("VIDEO_SOURCE", "0"),
		ModelPath:           getEnv("MODEL_PATH", "best.onnx"),
		ClassNames:          getEnvAsList("CLASS_NAMES", []string{"ambulance"}),
		ConfidenceThreshold: env.getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.3),
		SaveInterval:        env.getEnvAsInt("SAVE_INTERVAL", 30), // ~1 second at 30 FPS
		TargetClasses:       getEnvAsList("TARGET_CLASSES", []string{"ambulance"}),
		ConfirmFrames:       env.getEnvAsInt("CONFIRM_FRAMES", 1),
		ActuationEndpoint:   getEnv("ACTUATION_ENDPOINT", "http://traffic-system.local/api/change_signal"),
		ActuationSignal:     getEnv("ACTUATION_SIGNAL", "green"),
		ActuationTimeout:    time.Duration(env.getEnvAsInt("ACTUATION_TIMEOUT_MS", 2000)) * time.Millisecond,
		SnapshotPolicy:      SnapshotPolicy(strings.ToLower(getEnv("SNAPSHOT_POLICY", string(SnapshotOverwrite)))),
		SnapshotDirectory:   getEnv("SNAPSHOT_DIR", "."),
		NotifyEnabled:       env.getEnvAsBool("NOTIFY_ENABLED", true),
		NotifyTimeout:       time.Duration(env.getEnvAsInt("NOTIFY_TIMEOUT_S", 5)) * time.Second,
		DisplayEnabled:      env.getEnvAsBool("DISPLAY_ENABLED", true),
		WindowTitle:         getEnv("WINDOW_TITLE", "Ambulance Detection"),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabasePath:        getEnv("DATABASE_PATH", filepath.Join(".", "data", "events.db")),
		ViewerPort:          env.getEnvAsInt("VIEWER_PORT", 8090),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be within [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.SaveInterval < 1 {
		return fmt.Errorf("save interval must be at least 1 frame, got %d", c.SaveInterval)
	}
	if c.ConfirmFrames < 1 {
		return fmt.Errorf("confirm frames must be at least 1, got %d", c.ConfirmFrames)
	}
	switch c.SnapshotPolicy {
	case SnapshotIncrementing, SnapshotOverwrite:
	default:
		return fmt.Errorf("unknown snapshot policy %q (must be %s or %s)", c.SnapshotPolicy, SnapshotIncrementing, SnapshotOverwrite)
	}
	if c.VideoSource == "" {
		return fmt.Errorf("video source must not be empty")
	}
	if c.ActuationTimeout <= 0 {
		return fmt.Errorf("actuation timeout must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// envReader collects malformed values so Load can report every bad key
// at once instead of running on defaults.
type envReader struct {
	errs []error
}

func (e *envReader) invalid(key, value, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q is not a valid %s", key, value, kind))
}

func (e *envReader) getEnvAsInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		e.invalid(key, value, "integer")
		return defaultValue
	}
	return intValue
}

func (e *envReader) getEnvAsFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.invalid(key, value, "number")
		return defaultValue
	}
	return floatValue
}

func (e *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		e.invalid(key, value, "boolean")
		return defaultValue
	}
	return boolValue
}

// getEnvAsList splits a comma separated value. A variable that is set but
// empty yields an empty list, which is how TARGET_CLASSES="" selects
// unrestricted mode.
func getEnvAsList(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
