package model

import (
	"fmt"
	"image"
)

// Detection is one object reported by the detector for a single frame.
// Box holds (x1,y1) in Min and (x2,y2) in Max.
type Detection struct {
	Box        image.Rectangle `json:"box"`
	Confidence float64         `json:"confidence"`
	Label      string          `json:"label"`
}

// Caption renders the annotation text drawn above the box.
func (d Detection) Caption() string {
	return fmt.Sprintf("%s: %.2f", d.Label, d.Confidence)
}

// Valid reports whether the box is non-empty and lies inside bounds.
func (d Detection) Valid(bounds image.Rectangle) bool {
	return d.Box.Min.X < d.Box.Max.X &&
		d.Box.Min.Y < d.Box.Max.Y &&
		d.Box.In(bounds)
}
