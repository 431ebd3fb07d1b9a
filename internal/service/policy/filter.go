// Package policy holds the per-frame decision logic of the pipeline: which
// detections qualify and whether a frame raises an event or a snapshot.
package policy

import (
	"strings"

	"signalguard/internal/model"
)

// Filter returns the detections with confidence >= threshold whose label is
// in allow, preserving input order. An empty allow list accepts every label.
// Labels compare case-insensitively. Overlapping boxes are kept as-is.
func Filter(detections []model.Detection, threshold float64, allow []string) []model.Detection {
	filtered := make([]model.Detection, 0, len(detections))
	for _, det := range detections {
		if det.Confidence < threshold {
			continue
		}
		if len(allow) > 0 && !allowed(det.Label, allow) {
			continue
		}
		filtered = append(filtered, det)
	}
	return filtered
}

func allowed(label string, allow []string) bool {
	for _, target := range allow {
		if strings.EqualFold(label, target) {
			return true
		}
	}
	return false
}
