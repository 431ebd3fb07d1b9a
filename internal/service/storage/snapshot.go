package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"signalguard/internal/config"
	"signalguard/internal/model"
)

const (
	// LatestDetectionFile is the single file kept under the overwrite policy.
	LatestDetectionFile = "latest_detection.jpg"
	// incrementingPattern names one file per persisted frame.
	incrementingPattern = "detected_frame_%d.jpg"
)

// SnapshotStore writes annotated frames as JPEG files.
type SnapshotStore struct {
	dir    string
	policy config.SnapshotPolicy
}

// NewSnapshotStore creates a store writing into dir with the given naming
// policy. The directory is created if needed.
func NewSnapshotStore(dir string, policy config.SnapshotPolicy) (*SnapshotStore, error) {
	switch policy {
	case config.SnapshotIncrementing, config.SnapshotOverwrite:
	default:
		return nil, fmt.Errorf("unknown snapshot policy %q", policy)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	return &SnapshotStore{dir: dir, policy: policy}, nil
}

// Filename returns the file name used for the frame at index.
func (s *SnapshotStore) Filename(index uint64) string {
	if s.policy == config.SnapshotIncrementing {
		return fmt.Sprintf(incrementingPattern, index)
	}
	return LatestDetectionFile
}

// Save encodes the frame and writes it, returning the full path. The file is
// written to a temporary name first so readers never see a partial JPEG.
func (s *SnapshotStore) Save(frame *model.Frame, index uint64) (string, error) {
	data, err := frame.Image.EncodeJPEG()
	if err != nil {
		return "", err
	}

	fullpath := filepath.Join(s.dir, s.Filename(index))
	tmp := fullpath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("error saving image %s: %w", fullpath, err)
	}
	if err := os.Rename(tmp, fullpath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("error saving image %s: %w", fullpath, err)
	}
	return fullpath, nil
}
