package logger

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"signalguard/internal/config"
	"sync"

	"github.com/lmittmann/tint"
)

// Logger provides leveled logging (info/warning/error) to per-level files
// and a colored console handler.
type Logger struct {
	console    *slog.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	files      []*os.File
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) (*Logger, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger := &Logger{
		console: newConsole(os.Stdout, config.LogLevel),
		logDir:  config.LogDirectory,
	}

	if err := logger.setupFileLoggers(); err != nil {
		logger.Close()
		return nil, err
	}
	return logger, nil
}

// NewConsole creates a Logger that only writes to w. Used by tests and
// tools that should not touch the log directory.
func NewConsole(w io.Writer) *Logger {
	return &Logger{console: newConsole(w, "debug")}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewConsole(io.Discard)
}

func newConsole(w io.Writer, level string) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: "15:04:05",
		NoColor:    w != os.Stdout && w != os.Stderr,
	}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupFileLoggers opens one append-only file per level.
func (l *Logger) setupFileLoggers() error {
	open := func(name string) (*log.Logger, error) {
		path := filepath.Join(l.logDir, name)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		l.files = append(l.files, file)
		return log.New(file, "", log.Ldate|log.Ltime), nil
	}

	var err error
	if l.infoLog, err = open("info.log"); err != nil {
		return err
	}
	if l.warningLog, err = open("warning.log"); err != nil {
		return err
	}
	if l.errorLog, err = open("error.log"); err != nil {
		return err
	}
	return nil
}

// Debug writes a formatted debug entry to the console only.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.console.Debug(fmt.Sprintf(format, v...))
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Info(msg)
	if l.infoLog != nil {
		l.infoLog.Print("INFO    " + msg)
	}
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Warn(msg)
	if l.warningLog != nil {
		l.warningLog.Print("WARNING " + msg)
	}
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Error(msg)
	if l.errorLog != nil {
		l.errorLog.Print("ERROR   " + msg)
	}
}

// Close releases the log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	l.infoLog, l.warningLog, l.errorLog = nil, nil, nil
	return firstErr
}
