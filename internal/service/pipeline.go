package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"signalguard/internal/logger"
	"signalguard/internal/model"
	"signalguard/internal/service/policy"
)

// FrameSource yields frames in capture order.
type FrameSource interface {
	Next() (*model.Frame, error)
	Close() error
}

// SourceOpener opens the configured video source.
type SourceOpener func() (FrameSource, error)

// Detector returns the detections of a frame at or above threshold.
type Detector interface {
	Detect(frame *model.Frame, threshold float64) ([]model.Detection, error)
}

// Display shows annotated frames and reports the operator's quit key.
type Display interface {
	Show(frame *model.Frame) error
	QuitRequested() bool
	Close() error
}

// EventDispatcher performs the side effects of a raised event.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event model.ActuationEvent, persist bool) model.DispatchReport
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Open          SourceOpener
	Detector      Detector
	Display       Display
	Dispatcher    EventDispatcher
	Debouncer     *policy.Debouncer
	Threshold     float64
	TargetClasses []string
}

// Pipeline drives frames from the source through detection, the debounce
// policy and dispatch, one frame at a time.
type Pipeline struct {
	opts   PipelineOptions
	logger *logger.Logger

	mu     sync.RWMutex
	state  model.State
	status model.Status
}

// NewPipeline validates opts and returns a Pipeline in the starting state.
func NewPipeline(opts PipelineOptions, logger *logger.Logger) (*Pipeline, error) {
	if opts.Open == nil {
		return nil, errors.New("pipeline requires a source opener")
	}
	if opts.Detector == nil {
		return nil, errors.New("pipeline requires a detector")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("pipeline requires a dispatcher")
	}
	if opts.Debouncer == nil {
		return nil, errors.New("pipeline requires a debouncer")
	}
	return &Pipeline{
		opts:   opts,
		logger: logger,
		state:  model.StateStarting,
		status: model.Status{State: model.StateStarting.String()},
	}, nil
}

// Run processes frames until the source ends, a read fails, the quit key is
// pressed or ctx is cancelled. Only a failure to open the source is
// returned as an error; every other stop is graceful.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	p.status.StartedAt = time.Now()
	p.mu.Unlock()

	source, err := p.opts.Open()
	if err != nil {
		p.logger.Error("Error: Could not open video: %v", err)
		p.closeDisplay()
		p.setState(model.StateStopped)
		return fmt.Errorf("could not open video source: %w", err)
	}

	state := &model.PipelineState{
		SaveInterval: p.opts.Debouncer.SaveInterval(),
		Running:      true,
	}
	p.setState(model.StateRunning)

	defer func() {
		state.Running = false
		p.shutdown(source)
	}()

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("Stopping: %v", err)
			return nil
		}

		frame, err := source.Next()
		if err != nil {
			switch {
			case errors.Is(err, model.ErrEndOfStream):
				p.logger.Info("Video ended or failed to read frame.")
			default:
				p.logger.Warning("Video ended or failed to read frame: %v", err)
			}
			return nil
		}

		quit := p.processFrame(ctx, state, frame)
		frame.Close()
		if quit {
			p.logger.Info("Quit requested")
			return nil
		}
	}
}

// processFrame handles one frame and advances the frame count. It reports
// whether the operator asked to quit.
func (p *Pipeline) processFrame(ctx context.Context, state *model.PipelineState, frame *model.Frame) bool {
	index := state.FrameCount

	detections, err := p.opts.Detector.Detect(frame, p.opts.Threshold)
	if err != nil {
		p.logger.Warning("Detection failed on frame %d: %v", index, err)
		p.opts.Debouncer.Decide(state, false)
		p.mu.Lock()
		p.status.DetectorErrors++
		p.mu.Unlock()
	} else {
		qualifying := policy.Filter(detections, p.opts.Threshold, p.opts.TargetClasses)
		decision := p.opts.Debouncer.Decide(state, len(qualifying) > 0)
		if decision.RaiseEvent {
			report := p.opts.Dispatcher.Dispatch(ctx, model.ActuationEvent{
				Frame:      frame,
				Detections: qualifying,
				FrameIndex: index,
			}, decision.PersistSnapshot)
			p.record(report)
		}
	}

	quit := false
	if p.opts.Display != nil {
		if err := p.opts.Display.Show(frame); err != nil {
			p.logger.Warning("Display failed on frame %d: %v", index, err)
		}
		quit = p.opts.Display.QuitRequested()
	}

	state.FrameCount++
	p.mu.Lock()
	p.status.FrameCount = state.FrameCount
	p.mu.Unlock()
	return quit
}

func (p *Pipeline) record(report model.DispatchReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Events++
	if res, ok := report.Result(model.ChannelSnapshot); ok && res.OK {
		p.status.Snapshots++
	}
	if res, ok := report.Result(model.ChannelActuation); ok {
		if res.OK {
			p.status.ActuationSucceeded++
		} else {
			p.status.ActuationFailed++
		}
	}
}

func (p *Pipeline) shutdown(source FrameSource) {
	if err := source.Close(); err != nil {
		p.logger.Warning("Failed to release video source: %v", err)
	}
	p.closeDisplay()
	p.setState(model.StateStopped)

	s := p.Status()
	p.logger.Info("Run finished: %d frames, %d events, %d snapshots, actuation %d ok / %d failed, %d detector errors",
		s.FrameCount, s.Events, s.Snapshots, s.ActuationSucceeded, s.ActuationFailed, s.DetectorErrors)
}

func (p *Pipeline) closeDisplay() {
	if p.opts.Display == nil {
		return
	}
	if err := p.opts.Display.Close(); err != nil {
		p.logger.Warning("Failed to close display: %v", err)
	}
}

func (p *Pipeline) setState(state model.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
	p.status.State = state.String()
}

// State returns the current lifecycle state.
func (p *Pipeline) State() model.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Status returns a copy of the run counters.
func (p *Pipeline) Status() model.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
