package video

import (
	"errors"
	"image"
	"testing"
)

func TestClassifyFileRead(t *testing.T) {
	tests := []struct {
		name     string
		pos      float64
		total    float64
		expected error
	}{
		{"exhausted file", 120, 120, ErrEndOfStream},
		{"unknown length", 10, 0, ErrEndOfStream},
		{"read failure mid file", 40, 120, ErrReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyFileRead(tt.pos, tt.total, "clip.mp4")
			if !errors.Is(err, tt.expected) {
				t.Errorf("classifyFileRead(%v, %v) = %v, expected %v", tt.pos, tt.total, err, tt.expected)
			}
		})
	}
}

func TestCaptionOrigin(t *testing.T) {
	tests := []struct {
		box      image.Rectangle
		expected image.Point
	}{
		{image.Rect(20, 100, 80, 160), image.Pt(20, 90)},
		{image.Rect(5, 0, 50, 40), image.Pt(5, 15)},
	}

	for _, tt := range tests {
		if got := captionOrigin(tt.box); got != tt.expected {
			t.Errorf("captionOrigin(%v) = %v, expected %v", tt.box, got, tt.expected)
		}
	}
}

func TestIsQuitKey(t *testing.T) {
	if !isQuitKey('q') {
		t.Error("Expected 'q' to quit")
	}
	if !isQuitKey(0x100 | 'q') {
		t.Error("Expected modifier bits to be masked")
	}
	if isQuitKey(-1) {
		t.Error("Expected no key (-1) not to quit")
	}
	if isQuitKey('x') {
		t.Error("Expected 'x' not to quit")
	}
}

func TestHeadless(t *testing.T) {
	var h Headless
	if err := h.Show(nil); err != nil {
		t.Errorf("Show failed: %v", err)
	}
	if h.QuitRequested() {
		t.Error("Headless display should never request quit")
	}
}
