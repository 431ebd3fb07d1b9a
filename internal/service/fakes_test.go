package service

import (
	"context"
	"errors"
	"image"
	"sync"

	"signalguard/internal/model"
)

type fakeImage struct {
	mu       sync.Mutex
	drawn    []string
	drawErr  error
	closed   bool
	jpegData []byte
}

func (f *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, 640, 480) }

func (f *fakeImage) DrawDetection(_ image.Rectangle, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.drawErr != nil {
		return f.drawErr
	}
	f.drawn = append(f.drawn, caption)
	return nil
}

func (f *fakeImage) EncodeJPEG() ([]byte, error) {
	if f.jpegData == nil {
		return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
	}
	return f.jpegData, nil
}

func (f *fakeImage) Close() error {
	f.closed = true
	return nil
}

// fakeSource yields total frames, then fails with endErr.
type fakeSource struct {
	total  int
	endErr error
	pulled int
	closed bool
	images []*fakeImage
}

func (s *fakeSource) Next() (*model.Frame, error) {
	if s.pulled >= s.total {
		if s.endErr != nil {
			return nil, s.endErr
		}
		return nil, model.ErrEndOfStream
	}
	img := &fakeImage{}
	s.images = append(s.images, img)
	frame := &model.Frame{Seq: uint64(s.pulled), Image: img}
	s.pulled++
	return frame, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func openerFor(src *fakeSource) SourceOpener {
	return func() (FrameSource, error) { return src, nil }
}

// fakeDetector answers per frame sequence number.
type fakeDetector struct {
	fn func(seq uint64) ([]model.Detection, error)
}

func (d *fakeDetector) Detect(frame *model.Frame, threshold float64) ([]model.Detection, error) {
	dets, err := d.fn(frame.Seq)
	if err != nil {
		return nil, err
	}
	var out []model.Detection
	for _, det := range dets {
		if det.Confidence >= threshold {
			out = append(out, det)
		}
	}
	return out, nil
}

func ambulance(conf float64) model.Detection {
	return model.Detection{Box: image.Rect(10, 20, 110, 220), Confidence: conf, Label: "ambulance"}
}

type fakeDisplay struct {
	shown  int
	quitAt int
	closed bool
}

func (d *fakeDisplay) Show(*model.Frame) error {
	d.shown++
	return nil
}

func (d *fakeDisplay) QuitRequested() bool { return d.quitAt > 0 && d.shown >= d.quitAt }

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

type fakeNotifier struct {
	titles   []string
	messages []string
	err      error
}

func (n *fakeNotifier) Notify(title, message string) error {
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
	return n.err
}

type fakeActuator struct {
	calls int
	res   model.ChannelResult
}

func (a *fakeActuator) Send(context.Context) model.ChannelResult {
	a.calls++
	return a.res
}

type fakeRecorder struct {
	events  []model.ActuationEvent
	reports []model.DispatchReport
	err     error
}

func (r *fakeRecorder) Record(event model.ActuationEvent, report *model.DispatchReport) error {
	r.events = append(r.events, event)
	r.reports = append(r.reports, *report)
	return r.err
}

type fakeHub struct {
	messages [][]byte
	full     bool
}

func (h *fakeHub) Broadcast(message []byte) bool {
	if h.full {
		return false
	}
	h.messages = append(h.messages, message)
	return true
}

type fakeSnapshots struct {
	saved []uint64
	err   error
}

func (s *fakeSnapshots) Save(_ *model.Frame, index uint64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, index)
	return "snapshots/latest_detection.jpg", nil
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(string, string) error { panic("notification daemon crashed") }

// countingDispatcher records dispatch calls for pipeline tests.
type countingDispatcher struct {
	events  []model.ActuationEvent
	persist []bool
}

func (d *countingDispatcher) Dispatch(_ context.Context, event model.ActuationEvent, persist bool) model.DispatchReport {
	d.events = append(d.events, event)
	d.persist = append(d.persist, persist)
	report := model.DispatchReport{FrameIndex: event.FrameIndex}
	if persist {
		report.Add(model.Succeeded(model.ChannelSnapshot, "snap.jpg"))
	}
	report.Add(model.Succeeded(model.ChannelActuation, "status 200"))
	return report
}

var errBackend = errors.New("inference backend crashed")

// brokenConsole fails every write except the alert line.
type brokenConsole struct{}

func (brokenConsole) Alert(string, ...interface{}) error   { return nil }
func (brokenConsole) Success(string, ...interface{}) error { return errConsole }
func (brokenConsole) Warning(string, ...interface{}) error { return errConsole }
func (brokenConsole) Error(string, ...interface{}) error   { return errConsole }

var errConsole = errors.New("stdout closed")
