package policy

import (
	"testing"

	"signalguard/internal/model"
)

func TestNewDebouncer_Invalid(t *testing.T) {
	if _, err := NewDebouncer(0, 1); err == nil {
		t.Error("Expected error for zero save interval")
	}
	if _, err := NewDebouncer(30, 0); err == nil {
		t.Error("Expected error for zero confirm frames")
	}
}

func TestDecide_NoDetections(t *testing.T) {
	d, _ := NewDebouncer(30, 1)
	state := &model.PipelineState{}

	decision := d.Decide(state, false)
	if decision.RaiseEvent || decision.PersistSnapshot {
		t.Errorf("Expected no event and no snapshot, got %+v", decision)
	}
}

func TestDecide_SnapshotOnInterval(t *testing.T) {
	d, _ := NewDebouncer(30, 1)

	tests := []struct {
		frameCount uint64
		persist    bool
	}{
		{0, true},
		{1, false},
		{29, false},
		{30, true},
		{59, false},
		{60, true},
	}

	for _, tt := range tests {
		state := &model.PipelineState{FrameCount: tt.frameCount}
		decision := d.Decide(state, true)
		if !decision.RaiseEvent {
			t.Errorf("frame %d: expected event", tt.frameCount)
		}
		if decision.PersistSnapshot != tt.persist {
			t.Errorf("frame %d: persist = %v, expected %v", tt.frameCount, decision.PersistSnapshot, tt.persist)
		}
	}
}

// Detections on frames [0..k) must persist ceil(k/interval) snapshots.
func TestDecide_SustainedDetectionSnapshotCount(t *testing.T) {
	tests := []struct {
		k, interval int
	}{
		{10, 30},
		{30, 30},
		{31, 30},
		{100, 7},
		{1, 1},
		{5, 1},
	}

	for _, tt := range tests {
		d, _ := NewDebouncer(tt.interval, 1)
		state := &model.PipelineState{}
		snapshots, events := 0, 0

		for frame := 0; frame < tt.k+20; frame++ {
			decision := d.Decide(state, frame < tt.k)
			if decision.RaiseEvent {
				events++
			}
			if decision.PersistSnapshot {
				snapshots++
			}
			state.FrameCount++
		}

		expected := (tt.k + tt.interval - 1) / tt.interval
		if snapshots != expected {
			t.Errorf("k=%d interval=%d: %d snapshots, expected %d", tt.k, tt.interval, snapshots, expected)
		}
		if events != tt.k {
			t.Errorf("k=%d interval=%d: %d events, expected %d", tt.k, tt.interval, events, tt.k)
		}
	}
}

func TestDecide_ConfirmationWindow(t *testing.T) {
	d, _ := NewDebouncer(1, 3)
	state := &model.PipelineState{}

	pattern := []bool{true, true, false, true, true, true, true}
	expected := []bool{false, false, false, false, false, true, true}

	for i, hit := range pattern {
		decision := d.Decide(state, hit)
		if decision.RaiseEvent != expected[i] {
			t.Errorf("frame %d: event = %v, expected %v", i, decision.RaiseEvent, expected[i])
		}
		state.FrameCount++
	}
}

func TestDecide_DoesNotAdvanceFrameCount(t *testing.T) {
	d, _ := NewDebouncer(30, 1)
	state := &model.PipelineState{FrameCount: 4}
	d.Decide(state, true)
	d.Decide(state, false)
	if state.FrameCount != 4 {
		t.Errorf("Expected frame count untouched, got %d", state.FrameCount)
	}
}
