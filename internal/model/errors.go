package model

import "errors"

var (
	// ErrEndOfStream is returned by a frame source after its last frame.
	ErrEndOfStream = errors.New("end of stream")
	// ErrReadFailed is returned by a frame source when a frame could not be
	// delivered before the stream was exhausted, e.g. a camera was
	// disconnected.
	ErrReadFailed = errors.New("failed to read frame")
)
