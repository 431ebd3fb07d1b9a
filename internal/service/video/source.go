// Package video acquires frames from a camera or file and shows them in a
// window, using OpenCV through gocv.
package video

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gocv.io/x/gocv"

	"signalguard/internal/model"
)

var (
	// ErrOpenFailed is returned when the device or file cannot be opened.
	ErrOpenFailed = errors.New("video source could not be opened")

	ErrEndOfStream = model.ErrEndOfStream
	ErrReadFailed  = model.ErrReadFailed
)

// Source yields ordered frames from a capture device or a video file.
type Source struct {
	capture *gocv.VideoCapture
	name    string
	device  bool
	seq     uint64
}

// Open opens source. An integer is treated as a camera device index,
// anything else as a file path or stream URL.
func Open(source string) (*Source, error) {
	var (
		capture *gocv.VideoCapture
		err     error
		device  bool
	)

	if index, convErr := strconv.Atoi(source); convErr == nil && index >= 0 {
		device = true
		capture, err = gocv.OpenVideoCapture(index)
	} else {
		capture, err = gocv.OpenVideoCapture(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, source, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpenFailed, source)
	}

	return &Source{capture: capture, name: source, device: device}, nil
}

// Name returns the device index or path the source was opened with.
func (s *Source) Name() string {
	return s.name
}

// Next reads the following frame. It returns ErrEndOfStream once a file is
// exhausted and ErrReadFailed for any other failed read.
func (s *Source) Next() (*model.Frame, error) {
	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, s.readError()
	}

	frame := &model.Frame{
		Seq:        s.seq,
		Image:      NewMatImage(mat),
		CapturedAt: time.Now(),
	}
	s.seq++
	return frame, nil
}

// readError classifies a failed read. Files report end of stream when the
// read position reached the frame count; devices never end on their own.
func (s *Source) readError() error {
	if s.device {
		return fmt.Errorf("%w: device %s", ErrReadFailed, s.name)
	}

	total := s.capture.Get(gocv.VideoCaptureFrameCount)
	pos := s.capture.Get(gocv.VideoCapturePosFrames)
	return classifyFileRead(pos, total, s.name)
}

func classifyFileRead(pos, total float64, name string) error {
	if total <= 0 || pos >= total {
		return ErrEndOfStream
	}
	return fmt.Errorf("%w: %s at frame %.0f of %.0f", ErrReadFailed, name, pos, total)
}

// Close releases the capture handle.
func (s *Source) Close() error {
	return s.capture.Close()
}
