package video

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var annotationColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// MatImage is a model.Image backed by an OpenCV Mat.
type MatImage struct {
	mat gocv.Mat
}

// NewMatImage takes ownership of mat.
func NewMatImage(mat gocv.Mat) *MatImage {
	return &MatImage{mat: mat}
}

// Mat exposes the underlying Mat for gocv consumers (detector, window).
func (m *MatImage) Mat() gocv.Mat {
	return m.mat
}

func (m *MatImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.mat.Cols(), m.mat.Rows())
}

// DrawDetection draws a green box of thickness 2 and the caption 10px above it.
func (m *MatImage) DrawDetection(box image.Rectangle, caption string) error {
	if err := gocv.Rectangle(&m.mat, box, annotationColor, 2); err != nil {
		return fmt.Errorf("failed to draw rectangle: %w", err)
	}

	pt := captionOrigin(box)
	if err := gocv.PutText(&m.mat, caption, pt, gocv.FontHersheySimplex, 0.5, annotationColor, 2); err != nil {
		return fmt.Errorf("failed to draw text: %w", err)
	}
	return nil
}

// captionOrigin places text above the box, or inside it when the box touches
// the top edge.
func captionOrigin(box image.Rectangle) image.Point {
	y := box.Min.Y - 10
	if y < 10 {
		y = box.Min.Y + 15
	}
	return image.Pt(box.Min.X, y)
}

func (m *MatImage) EncodeJPEG() ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, m.mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func (m *MatImage) Close() error {
	return m.mat.Close()
}
