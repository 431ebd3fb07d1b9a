package yolo

import (
	"image"
	"testing"
)

// tensor builds a channel-major output for the given anchors. Each anchor is
// {cx, cy, w, h, score0, score1, ...}.
func tensor(anchors [][]float32) ([]float32, int, int) {
	channels := len(anchors[0])
	n := len(anchors)
	data := make([]float32, channels*n)
	for i, a := range anchors {
		for c, v := range a {
			data[c*n+i] = v
		}
	}
	return data, channels, n
}

func TestParseOutput(t *testing.T) {
	data, channels, n := tensor([][]float32{
		{320, 320, 100, 50, 0.9, 0.1},
		{100, 100, 20, 20, 0.1, 0.2},
		{50, 60, 40, 20, 0.05, 0.6},
	})

	got := parseOutput(data, channels, n, 1, 1, 0.3)
	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(got))
	}

	if got[0].classID != 0 || got[0].box != image.Rect(270, 295, 370, 345) {
		t.Errorf("Unexpected first candidate: %+v", got[0])
	}
	if got[1].classID != 1 || got[1].score != 0.6 {
		t.Errorf("Unexpected second candidate: %+v", got[1])
	}
}

func TestParseOutput_ScalesToFrame(t *testing.T) {
	data, channels, n := tensor([][]float32{
		{320, 320, 64, 64, 0.8},
	})

	got := parseOutput(data, channels, n, 2, 0.75, 0.3)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	if got[0].box != image.Rect(576, 216, 704, 264) {
		t.Errorf("Unexpected scaled box %v", got[0].box)
	}
}

func TestParseOutput_ShortTensor(t *testing.T) {
	if got := parseOutput([]float32{1, 2, 3}, 5, 10, 1, 1, 0.3); got != nil {
		t.Errorf("Expected nil for short tensor, got %v", got)
	}
	if got := parseOutput(make([]float32, 40), 4, 10, 1, 1, 0.3); got != nil {
		t.Errorf("Expected nil when there are no class rows, got %v", got)
	}
}
