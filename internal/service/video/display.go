package video

import (
	"fmt"

	"gocv.io/x/gocv"

	"signalguard/internal/model"
)

// quitKey stops the run when pressed in the display window.
const quitKey = 'q'

// Window shows frames in a desktop window and polls the quit key.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a named window.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Show renders the frame. Only Mat-backed frames can be displayed.
func (w *Window) Show(frame *model.Frame) error {
	img, ok := frame.Image.(*MatImage)
	if !ok {
		return fmt.Errorf("cannot display frame %d: unsupported image type %T", frame.Seq, frame.Image)
	}
	w.window.IMShow(img.Mat())
	return nil
}

// QuitRequested pumps the window event loop for 1ms and reports whether
// the quit key was pressed.
func (w *Window) QuitRequested() bool {
	return isQuitKey(w.window.WaitKey(1))
}

func isQuitKey(key int) bool {
	return key >= 0 && key&0xFF == quitKey
}

func (w *Window) Close() error {
	return w.window.Close()
}

// Headless satisfies the display contract without a window. It never
// requests a stop.
type Headless struct{}

func (Headless) Show(*model.Frame) error { return nil }
func (Headless) QuitRequested() bool     { return false }
func (Headless) Close() error            { return nil }
