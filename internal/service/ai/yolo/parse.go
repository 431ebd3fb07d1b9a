package yolo

import "image"

type candidate struct {
	box     image.Rectangle
	score   float32
	classID int
}

// parseOutput reads a channel-major YOLOv8 tensor: rows 0-3 hold the box
// center x, center y, width and height in model input pixels, the remaining
// rows hold one score per class. Boxes are scaled back to frame pixels.
func parseOutput(data []float32, channels, anchors int, scaleX, scaleY, minScore float32) []candidate {
	if channels < 5 || len(data) < channels*anchors {
		return nil
	}

	var out []candidate
	for i := 0; i < anchors; i++ {
		best := float32(0)
		bestClass := -1
		for c := 4; c < channels; c++ {
			if score := data[c*anchors+i]; score > best {
				best = score
				bestClass = c - 4
			}
		}
		if bestClass < 0 || best < minScore {
			continue
		}

		cx := data[0*anchors+i]
		cy := data[1*anchors+i]
		w := data[2*anchors+i]
		h := data[3*anchors+i]

		out = append(out, candidate{
			box: image.Rect(
				int((cx-w/2)*scaleX),
				int((cy-h/2)*scaleY),
				int((cx+w/2)*scaleX),
				int((cy+h/2)*scaleY),
			),
			score:   best,
			classID: bestClass,
		})
	}
	return out
}
