//go:build cgo

package display

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Window shows the clock face in a desktop window. Render only stores the
// frame; the window draws the latest one on its own schedule.
type Window struct {
	*brightness

	cfg  types.WindowConfig
	face *Face

	mu     sync.Mutex
	frame  wordclock.Frame
	closed bool

	faceImg *ebiten.Image
}

// NewWindow creates a window sink. The window opens when Run is called.
func NewWindow(cfg types.WindowConfig, l *layout.Layout, root string, initialBrightness int) (*Window, error) {
	face, err := NewFace(l, cfg.CellSize, cfg.Margin)
	if err != nil {
		return nil, &types.SinkError{Sink: types.SinkWindow, Op: "open", Err: err}
	}
	return &Window{
		brightness: newBrightness(types.SinkWindow, root, initialBrightness),
		cfg:        cfg,
		face:       face,
	}, nil
}

// Run opens the window and blocks until it is closed by the user or by
// Close
func (w *Window) Run() error {
	width, height := w.face.Size()
	ebiten.SetWindowTitle(fmt.Sprintf("%s %dx%d", w.cfg.Title, w.face.cols, w.face.rows))
	ebiten.SetWindowSize(width, height)
	ebiten.SetTPS(30)

	err := ebiten.RunGame(w)
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	if err != nil && !errors.Is(err, ebiten.Termination) {
		return &types.SinkError{Sink: types.SinkWindow, Op: "run", Err: err}
	}
	return nil
}

// Render implements types.Sink
func (w *Window) Render(frame wordclock.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return &types.SinkError{Sink: types.SinkWindow, Op: "render", Err: errors.New("window closed")}
	}
	w.frame = frame
	return nil
}

// Close implements types.Sink
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Update implements ebiten.Game
func (w *Window) Update() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	frame := w.frame
	w.mu.Unlock()

	img := w.face.Tiles()
	if frame.Pix != nil {
		img = w.face.Draw(frame, w.get())
	}
	if w.faceImg == nil {
		b := img.Bounds()
		w.faceImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.faceImg.WritePixels(img.Pix)
	screen.DrawImage(w.faceImg, nil)
}

// Layout implements ebiten.Game
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.face.Size()
}
