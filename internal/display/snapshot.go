package display

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Snapshot writes every frame as a PNG picture of the clock face
type Snapshot struct {
	*brightness

	mu     sync.Mutex
	path   string
	face   *Face
	frames int
}

// NewSnapshot creates a snapshot sink
func NewSnapshot(cfg types.SnapshotConfig, l *layout.Layout, root string, initialBrightness int) (*Snapshot, error) {
	if cfg.Path == "" {
		return nil, &types.SinkError{Sink: types.SinkSnapshot, Op: "open", Err: fmt.Errorf("no output path")}
	}
	face, err := NewFace(l, cfg.CellSize, cfg.Margin)
	if err != nil {
		return nil, &types.SinkError{Sink: types.SinkSnapshot, Op: "open", Err: err}
	}
	return &Snapshot{
		brightness: newBrightness(types.SinkSnapshot, root, initialBrightness),
		path:       cfg.Path,
		face:       face,
	}, nil
}

// Path returns the file the sink writes
func (s *Snapshot) Path() string {
	return s.path
}

// Frames returns the number of snapshots written
func (s *Snapshot) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Render implements types.Sink. The PNG is written next to the target and
// renamed over it.
func (s *Snapshot) Render(frame wordclock.Frame) error {
	img := s.face.Draw(frame, s.get())

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &types.SinkError{Sink: types.SinkSnapshot, Op: "render", Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return &types.SinkError{Sink: types.SinkSnapshot, Op: "encode", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &types.SinkError{Sink: types.SinkSnapshot, Op: "render", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &types.SinkError{Sink: types.SinkSnapshot, Op: "render", Err: err}
	}

	s.frames++
	return nil
}

// Close implements types.Sink
func (s *Snapshot) Close() error {
	return nil
}
