// Package ai adapts object detection backends to the pipeline's detection
// contract.
package ai

import (
	"errors"
	"fmt"
	"image"
	"math"

	"signalguard/internal/model"
	"signalguard/internal/service/policy"
)

var (
	// ErrMalformedOutput is returned when a backend reports values that
	// cannot describe a detection.
	ErrMalformedOutput = errors.New("malformed detector output")
	// ErrUnsupportedFrame is returned for frames a backend cannot read.
	ErrUnsupportedFrame = errors.New("unsupported frame")
)

// Backend runs inference on one frame. Implementations own non-maximum
// suppression; the adapter never de-duplicates boxes.
type Backend interface {
	Infer(frame *model.Frame) ([]model.Detection, error)
	Close() error
}

// Adapter normalizes backend output into detections that satisfy the
// record invariants: confidence in [0,1] and a non-empty box inside the
// frame.
type Adapter struct {
	backend Backend
}

// NewAdapter wraps backend.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Detect runs the backend and returns detections with confidence >=
// threshold in backend order. The frame is never modified. An empty result
// means nothing cleared the threshold.
func (a *Adapter) Detect(frame *model.Frame, threshold float64) ([]model.Detection, error) {
	if frame == nil || frame.Image == nil {
		return nil, ErrUnsupportedFrame
	}

	raw, err := a.backend.Infer(frame)
	if err != nil {
		return nil, fmt.Errorf("inference on frame %d: %w", frame.Seq, err)
	}

	normalized, err := normalize(raw, frame.Image.Bounds())
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame.Seq, err)
	}

	return policy.Filter(normalized, threshold, nil), nil
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

// normalize clamps boxes into bounds and drops boxes that end up empty.
// A confidence outside [0,1] fails the whole frame.
func normalize(raw []model.Detection, bounds image.Rectangle) ([]model.Detection, error) {
	out := make([]model.Detection, 0, len(raw))
	for i, det := range raw {
		if math.IsNaN(det.Confidence) || det.Confidence < 0 || det.Confidence > 1 {
			return nil, fmt.Errorf("%w: detection %d has confidence %v", ErrMalformedOutput, i, det.Confidence)
		}

		det.Box = det.Box.Canon().Intersect(bounds)
		if det.Box.Empty() {
			continue
		}
		if det.Label == "" {
			det.Label = "unknown"
		}
		out = append(out, det)
	}
	return out, nil
}
