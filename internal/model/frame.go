package model

import (
	"image"
	"time"
)

// Image is a decoded pixel buffer that can be annotated in place.
type Image interface {
	Bounds() image.Rectangle
	// DrawDetection draws box and places caption just above it.
	DrawDetection(box image.Rectangle, caption string) error
	EncodeJPEG() ([]byte, error)
	Close() error
}

// Frame is one image pulled from a video source. Seq increases
// monotonically within a run.
type Frame struct {
	Seq        uint64
	Image      Image
	CapturedAt time.Time
}

// Close releases the underlying image.
func (f *Frame) Close() error {
	if f == nil || f.Image == nil {
		return nil
	}
	return f.Image.Close()
}
