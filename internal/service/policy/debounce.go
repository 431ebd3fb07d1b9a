package policy

import (
	"fmt"

	"signalguard/internal/model"
)

// Decision is the outcome of a single frame.
type Decision struct {
	RaiseEvent      bool
	PersistSnapshot bool
}

// Debouncer decides per frame whether to raise an actuation event and
// whether to persist a snapshot of it.
//
// With confirmFrames == 1 an event is raised on every frame that has a
// qualifying detection. Larger values require that many consecutive
// qualifying frames first. Snapshots are taken only on event frames whose
// frame count is a multiple of the save interval.
type Debouncer struct {
	saveInterval  uint64
	confirmFrames uint64
}

// NewDebouncer validates the parameters and returns a Debouncer.
func NewDebouncer(saveInterval, confirmFrames int) (*Debouncer, error) {
	if saveInterval < 1 {
		return nil, fmt.Errorf("save interval must be at least 1, got %d", saveInterval)
	}
	if confirmFrames < 1 {
		return nil, fmt.Errorf("confirm frames must be at least 1, got %d", confirmFrames)
	}
	return &Debouncer{
		saveInterval:  uint64(saveInterval),
		confirmFrames: uint64(confirmFrames),
	}, nil
}

// SaveInterval returns the configured interval in frames.
func (d *Debouncer) SaveInterval() uint64 {
	return d.saveInterval
}

// Decide evaluates the current frame. It updates the consecutive-detection
// streak in state but never touches FrameCount; the driver advances that
// once per frame after the decision has been acted on.
func (d *Debouncer) Decide(state *model.PipelineState, hasDetections bool) Decision {
	if !hasDetections {
		state.Streak = 0
		return Decision{}
	}

	state.Streak++
	if state.Streak < d.confirmFrames {
		return Decision{}
	}

	return Decision{
		RaiseEvent:      true,
		PersistSnapshot: state.FrameCount%d.saveInterval == 0,
	}
}
