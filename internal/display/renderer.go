package display

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fkcurrie/wordclock-golang/internal/clock"
	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Renderer runs the clock pipeline once per tick: read the time source,
// resolve the lit cells, color them and hand the frame to the sink.
type Renderer struct {
	cfg      *types.DisplayConfig
	layout   *layout.Layout
	resolver *wordclock.Resolver
	source   clock.Source
	palette  *wordclock.Palette
	logger   *slog.Logger

	mu       sync.RWMutex
	sink     types.Sink
	last     wordclock.Frame
	failures int
}

// NewRenderer creates a new renderer instance
func NewRenderer(cfg *types.DisplayConfig, l *layout.Layout, source clock.Source, palette *wordclock.Palette, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		cfg:      cfg,
		layout:   l,
		resolver: wordclock.NewResolver(l),
		source:   source,
		palette:  palette,
		logger:   logger.With("component", "renderer"),
	}
}

// SetSink sets the sink to render to
func (r *Renderer) SetSink(sink types.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// Sink returns the current sink
func (r *Renderer) Sink() types.Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sink
}

// LastFrame returns the most recently built frame
func (r *Renderer) LastFrame() wordclock.Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Step builds and renders one frame. The palette is read once, so a color
// change never splits a frame.
func (r *Renderer) Step() (wordclock.Frame, error) {
	reading := r.source.Next()
	if err := reading.Validate(); err != nil {
		return wordclock.Frame{}, fmt.Errorf("time source: %w", err)
	}

	ill := r.resolver.Resolve(reading)
	frame := wordclock.BuildFrame(ill, r.palette.Colors(), r.layout.Width(), r.layout.Height())

	r.mu.Lock()
	r.last = frame
	sink := r.sink
	r.mu.Unlock()

	if sink == nil {
		return frame, nil
	}
	if err := sink.Render(frame); err != nil {
		return frame, err
	}
	r.logger.Debug("rendered frame", "reading", reading.String())
	return frame, nil
}

// Start renders a frame immediately and then once per update interval until
// ctx is done. It returns an error once the sink has failed
// max_render_failures times in a row.
func (r *Renderer) Start(ctx context.Context) error {
	interval := time.Duration(r.cfg.UpdateInterval * float64(time.Second))
	if interval <= 0 {
		return fmt.Errorf("invalid update interval %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := r.tick(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.tick(); err != nil {
				return err
			}
		}
	}
}

func (r *Renderer) tick() error {
	_, err := r.Step()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err == nil {
		r.failures = 0
		return nil
	}

	r.failures++
	r.logger.Error("failed to render", "err", err, "consecutive", r.failures)
	if limit := r.cfg.MaxRenderFailures; limit > 0 && r.failures >= limit {
		return fmt.Errorf("giving up after %d consecutive render failures: %w", r.failures, err)
	}
	return nil
}
