package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Terminal prints the letter grid with every letter in its cell's color
type Terminal struct {
	*brightness

	mu       sync.Mutex
	out      *termenv.Output
	renderer *lipgloss.Renderer
	letters  []rune
	cols     int
	redraw   bool
	closed   bool
}

// NewTerminal creates a terminal sink writing to w. With redraw set every
// frame clears the screen first.
func NewTerminal(w io.Writer, l *layout.Layout, root string, initialBrightness int, redraw bool) *Terminal {
	out := termenv.NewOutput(w, termenv.WithProfile(termenv.TrueColor))
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)

	return &Terminal{
		brightness: newBrightness(types.SinkTerminal, root, initialBrightness),
		out:        out,
		renderer:   renderer,
		letters:    l.Face(),
		cols:       l.Width(),
		redraw:     redraw,
	}
}

// View returns the colored letter grid of frame
func (t *Terminal) View(frame wordclock.Frame) string {
	level := t.get()
	base := t.renderer.NewStyle().Bold(true)

	var b strings.Builder
	for i, letter := range t.letters {
		if i >= len(frame.Pix) {
			break
		}
		if i > 0 && i%t.cols == 0 {
			b.WriteByte('\n')
		}
		style := base.Foreground(lipgloss.Color(frame.Pix[i].Scale(level).Hex()))
		b.WriteString(style.Render(string(letter)))
		if (i+1)%t.cols != 0 {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// Render implements types.Sink
func (t *Terminal) Render(frame wordclock.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return &types.SinkError{Sink: types.SinkTerminal, Op: "render", Err: fmt.Errorf("sink closed")}
	}
	if t.redraw {
		t.out.ClearScreen()
		t.out.MoveCursor(1, 1)
	}
	if _, err := io.WriteString(t.out, t.View(frame)); err != nil {
		return &types.SinkError{Sink: types.SinkTerminal, Op: "render", Err: err}
	}
	return nil
}

// Close implements types.Sink
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed && t.redraw {
		t.out.Reset()
	}
	t.closed = true
	return nil
}
