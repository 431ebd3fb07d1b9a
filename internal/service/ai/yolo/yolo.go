// Package yolo runs YOLOv8 ONNX models through the OpenCV dnn module.
package yolo

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"signalguard/internal/model"
	"signalguard/internal/service/ai"
	"signalguard/internal/service/video"
)

// Config holds detector configuration.
type Config struct {
	ModelPath        string
	ClassNames       []string
	ConfidenceThresh float32
	NMSThresh        float32
	InputWidth       int
	InputHeight      int
}

// DefaultConfig returns defaults for a 640x640 YOLOv8 export.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "best.onnx",
		ClassNames:       []string{"ambulance"},
		ConfidenceThresh: 0.3,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// Detector is an ai.Backend running a YOLOv8 network.
type Detector struct {
	net       gocv.Net
	config    Config
	inputSize image.Point
	mu        sync.Mutex
}

// New loads the ONNX model.
func New(cfg Config) (*Detector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load YOLO model from %s", cfg.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	return &Detector{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Infer runs one forward pass. The frame is read, never written.
func (d *Detector) Infer(frame *model.Frame) ([]model.Detection, error) {
	img, ok := frame.Image.(*video.MatImage)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ai.ErrUnsupportedFrame, frame.Image)
	}
	mat := img.Mat()
	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty image", ai.ErrUnsupportedFrame)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// Output shape: [1, 4+classes, anchors]
	dims := output.Size()
	if len(dims) != 3 || dims[1] < 5 {
		return nil, fmt.Errorf("%w: unexpected output shape %v", ai.ErrMalformedOutput, dims)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedOutput, err)
	}

	scaleX := float32(mat.Cols()) / float32(d.config.InputWidth)
	scaleY := float32(mat.Rows()) / float32(d.config.InputHeight)
	candidates := parseOutput(data, dims[1], dims[2], scaleX, scaleY, d.config.ConfidenceThresh)
	if len(candidates) == 0 {
		return nil, nil
	}

	boxes := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		boxes[i] = c.box
		scores[i] = c.score
	}

	indices := gocv.NMSBoxes(boxes, scores, d.config.ConfidenceThresh, d.config.NMSThresh)

	detections := make([]model.Detection, 0, len(indices))
	for _, idx := range indices {
		c := candidates[idx]
		detections = append(detections, model.Detection{
			Box:        c.box,
			Confidence: float64(c.score),
			Label:      d.label(c.classID),
		})
	}
	return detections, nil
}

func (d *Detector) label(classID int) string {
	if classID >= 0 && classID < len(d.config.ClassNames) {
		return d.config.ClassNames[classID]
	}
	return fmt.Sprintf("class_%d", classID)
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
