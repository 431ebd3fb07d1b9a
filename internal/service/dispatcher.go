package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"signalguard/internal/dto"
	"signalguard/internal/logger"
	"signalguard/internal/model"
)

// SnapshotWriter persists an annotated frame and returns where it went.
type SnapshotWriter interface {
	Save(frame *model.Frame, index uint64) (string, error)
}

// Alerter prints color-coded console lines.
type Alerter interface {
	Alert(format string, args ...interface{}) error
	Success(format string, args ...interface{}) error
	Warning(format string, args ...interface{}) error
	Error(format string, args ...interface{}) error
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// Actuator makes one signal change attempt.
type Actuator interface {
	Send(ctx context.Context) model.ChannelResult
}

// Recorder stores an event in the audit trail.
type Recorder interface {
	Record(event model.ActuationEvent, report *model.DispatchReport) error
}

// Broadcaster pushes a message to live viewers without blocking.
type Broadcaster interface {
	Broadcast(message []byte) bool
}

// DispatcherOptions wires the side-effect channels. Any channel left nil is
// skipped; the console alerter is required.
type DispatcherOptions struct {
	Snapshots SnapshotWriter
	Console   Alerter
	Desktop   Notifier
	Actuator  Actuator
	Recorder  Recorder
	Hub       Broadcaster
	Signal    string
	RunID     string
}

// Dispatcher performs the side effects of a raised event. Every channel is
// isolated: its failure is logged and reported, and the next channel runs
// regardless.
type Dispatcher struct {
	opts   DispatcherOptions
	logger *logger.Logger
}

// NewDispatcher validates opts and returns a Dispatcher.
func NewDispatcher(opts DispatcherOptions, logger *logger.Logger) (*Dispatcher, error) {
	if opts.Console == nil {
		return nil, errors.New("dispatcher requires a console alerter")
	}
	if opts.Signal == "" {
		opts.Signal = "green"
	}
	return &Dispatcher{opts: opts, logger: logger}, nil
}

// Dispatch runs, in order: annotation, snapshot (when persist is set),
// console alert, desktop notification, the actuation request, the audit
// record and the live broadcast.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.ActuationEvent, persist bool) model.DispatchReport {
	report := model.DispatchReport{FrameIndex: event.FrameIndex}

	report.Add(d.guard(model.ChannelAnnotate, func() model.ChannelResult {
		return d.annotate(event)
	}))

	if persist && d.opts.Snapshots != nil {
		report.Add(d.guard(model.ChannelSnapshot, func() model.ChannelResult {
			path, err := d.opts.Snapshots.Save(event.Frame, event.FrameIndex)
			if err != nil {
				d.logger.Error("Snapshot for frame %d failed: %v", event.FrameIndex, err)
				return model.Failed(model.ChannelSnapshot, err.Error())
			}
			report.SnapshotPath = path
			d.say(d.opts.Console.Success, "Saved: %s", filepath.Base(path))
			return model.Succeeded(model.ChannelSnapshot, path)
		}))
	}

	label := primaryLabel(event.Detections)
	signal := strings.ToUpper(d.opts.Signal)

	report.Add(d.guard(model.ChannelConsole, func() model.ChannelResult {
		if err := d.opts.Console.Alert("ALERT: %s detected! Change signal to %s!", label, signal); err != nil {
			d.logger.Warning("Console alert failed: %v", err)
			return model.Failed(model.ChannelConsole, err.Error())
		}
		return model.Succeeded(model.ChannelConsole, "")
	}))

	if d.opts.Desktop != nil {
		report.Add(d.guard(model.ChannelDesktop, func() model.ChannelResult {
			title := fmt.Sprintf("%s Detected", label)
			message := fmt.Sprintf("Change traffic signal to %s!", signal)
			if err := d.opts.Desktop.Notify(title, message); err != nil {
				d.logger.Warning("Desktop notification dropped: %v", err)
				return model.Failed(model.ChannelDesktop, "dropped: "+err.Error())
			}
			return model.Succeeded(model.ChannelDesktop, "queued")
		}))
	}

	if d.opts.Actuator != nil {
		report.Add(d.guard(model.ChannelActuation, func() model.ChannelResult {
			return d.actuate(ctx, signal)
		}))
	}

	if d.opts.Recorder != nil {
		report.Add(d.guard(model.ChannelAudit, func() model.ChannelResult {
			if err := d.opts.Recorder.Record(event, &report); err != nil {
				d.logger.Error("Audit record for frame %d failed: %v", event.FrameIndex, err)
				return model.Failed(model.ChannelAudit, err.Error())
			}
			return model.Succeeded(model.ChannelAudit, "")
		}))
	}

	if d.opts.Hub != nil {
		report.Add(d.guard(model.ChannelBroadcast, func() model.ChannelResult {
			return d.broadcast(event, &report)
		}))
	}

	return report
}

func (d *Dispatcher) annotate(event model.ActuationEvent) model.ChannelResult {
	if event.Frame == nil || event.Frame.Image == nil {
		d.logger.Error("Annotation skipped: frame %d has no image", event.FrameIndex)
		return model.Failed(model.ChannelAnnotate, "no image")
	}

	var failed int
	for _, det := range event.Detections {
		if err := event.Frame.Image.DrawDetection(det.Box, det.Caption()); err != nil {
			failed++
			d.logger.Error("Failed to annotate %s on frame %d: %v", det.Label, event.FrameIndex, err)
		}
	}
	if failed > 0 {
		return model.Failed(model.ChannelAnnotate, fmt.Sprintf("%d of %d boxes not drawn", failed, len(event.Detections)))
	}
	return model.Succeeded(model.ChannelAnnotate, fmt.Sprintf("%d boxes", len(event.Detections)))
}

func (d *Dispatcher) actuate(ctx context.Context, signal string) model.ChannelResult {
	res := d.opts.Actuator.Send(ctx)
	res.Channel = model.ChannelActuation

	switch {
	case res.OK:
		d.say(d.opts.Console.Success, "Traffic signal changed to %s.", signal)
		d.logger.Info("Actuation succeeded: %s", res.Message)
	case res.Err != nil:
		d.say(d.opts.Console.Error, "Error sending API request: %v", res.Err)
		d.logger.Warning("Actuation request failed: %s", res.Message)
	default:
		d.say(d.opts.Console.Warning, "Failed to change traffic signal.")
		d.logger.Warning("Actuation refused: %s", res.Message)
	}
	return res
}

func (d *Dispatcher) broadcast(event model.ActuationEvent, report *model.DispatchReport) model.ChannelResult {
	msg, err := json.Marshal(dto.EventMessage{
		Type:         "detection",
		RunID:        d.opts.RunID,
		FrameIndex:   event.FrameIndex,
		Timestamp:    time.Now(),
		Detections:   event.Detections,
		SnapshotPath: report.SnapshotPath,
		Results:      report.Results,
	})
	if err != nil {
		d.logger.Error("Failed to encode event message: %v", err)
		return model.Failed(model.ChannelBroadcast, err.Error())
	}

	if !d.opts.Hub.Broadcast(msg) {
		d.logger.Warning("Live feed queue full, event for frame %d dropped", event.FrameIndex)
		return model.Failed(model.ChannelBroadcast, "queue full")
	}
	return model.Succeeded(model.ChannelBroadcast, "")
}

// say prints one console line, logging the write failure if there is one.
func (d *Dispatcher) say(write func(format string, args ...interface{}) error, format string, args ...interface{}) {
	if err := write(format, args...); err != nil {
		d.logger.Warning("Console write failed: %v", err)
	}
}

// guard runs one channel and turns a panic into a failed result so no
// channel can take the frame loop down.
func (d *Dispatcher) guard(ch model.Channel, fn func() model.ChannelResult) (res model.ChannelResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Channel %s panicked: %v", ch, r)
			res = model.Failed(ch, fmt.Sprintf("panic: %v", r))
		}
	}()
	return fn()
}

// primaryLabel names the event in alerts, e.g. "Ambulance".
func primaryLabel(detections []model.Detection) string {
	if len(detections) == 0 || detections[0].Label == "" {
		return "Object"
	}
	label := detections[0].Label
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}
