package model

import "time"

// State is the lifecycle state of a pipeline run.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PipelineState is the per-run mutable state owned by the pipeline driver.
type PipelineState struct {
	FrameCount   uint64
	SaveInterval uint64
	Running      bool

	// Streak counts consecutive frames with qualifying detections.
	Streak uint64
}

// ActuationEvent is raised for a frame that carries qualifying detections.
// It lives only for the duration of one dispatch.
type ActuationEvent struct {
	Frame      *Frame
	Detections []Detection
	FrameIndex uint64
}

// Channel names a dispatch side effect.
type Channel string

const (
	ChannelAnnotate  Channel = "annotate"
	ChannelSnapshot  Channel = "snapshot"
	ChannelConsole   Channel = "console"
	ChannelDesktop   Channel = "desktop"
	ChannelActuation Channel = "actuation"
	ChannelAudit     Channel = "audit"
	ChannelBroadcast Channel = "broadcast"
)

// ChannelResult is the outcome of one side effect. It is only ever logged,
// recorded or broadcast; it never aborts the frame loop.
type ChannelResult struct {
	Channel Channel `json:"channel"`
	OK      bool    `json:"ok"`
	Message string  `json:"message,omitempty"`
	// Err is set when the channel could not be reached at all, as opposed
	// to being reached and refusing.
	Err error `json:"-"`
}

// Succeeded builds a successful result.
func Succeeded(ch Channel, msg string) ChannelResult {
	return ChannelResult{Channel: ch, OK: true, Message: msg}
}

// Failed builds a failed result.
func Failed(ch Channel, msg string) ChannelResult {
	return ChannelResult{Channel: ch, OK: false, Message: msg}
}

// DispatchReport collects the channel results of one event.
type DispatchReport struct {
	FrameIndex   uint64
	SnapshotPath string
	Results      []ChannelResult
}

// Result returns the outcome recorded for ch.
func (r *DispatchReport) Result(ch Channel) (ChannelResult, bool) {
	for _, res := range r.Results {
		if res.Channel == ch {
			return res, true
		}
	}
	return ChannelResult{}, false
}

// Add appends a channel result.
func (r *DispatchReport) Add(res ChannelResult) {
	r.Results = append(r.Results, res)
}

// Status is a point-in-time copy of a run's counters.
type Status struct {
	State              string    `json:"state"`
	FrameCount         uint64    `json:"frameCount"`
	Events             uint64    `json:"events"`
	Snapshots          uint64    `json:"snapshots"`
	ActuationSucceeded uint64    `json:"actuationSucceeded"`
	ActuationFailed    uint64    `json:"actuationFailed"`
	DetectorErrors     uint64    `json:"detectorErrors"`
	StartedAt          time.Time `json:"startedAt"`
}
