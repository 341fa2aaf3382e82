package display

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/gpio"
	"github.com/fkcurrie/wordclock-golang/pkg/ledstrip"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// StripSink shows frames on a WS2812 matrix
type StripSink struct {
	mu     sync.Mutex
	strip  *ledstrip.Strip
	enable *gpio.Pin
	topic  string
	logger *slog.Logger
	closed bool
}

// OpenStrip opens the SPI strip and, when configured, drives the enable
// line high
func OpenStrip(cfg types.StripConfig, display types.DisplayConfig, root string, logger *slog.Logger) (*StripSink, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dev, err := ledstrip.OpenSPI(ledstrip.SPIConfig{
		Port:      cfg.SPIPort,
		NumPixels: display.Width * display.Height,
		Frequency: cfg.Frequency,
	})
	if err != nil {
		return nil, &types.SinkError{Sink: types.SinkStrip, Op: "open", Err: err}
	}

	strip, err := ledstrip.NewStrip(&ledstrip.Config{
		Width:      display.Width,
		Height:     display.Height,
		Brightness: display.Brightness,
		Serpentine: cfg.Serpentine,
	}, dev)
	if err != nil {
		dev.Halt()
		if c, ok := dev.(io.Closer); ok {
			c.Close()
		}
		return nil, &types.SinkError{Sink: types.SinkStrip, Op: "open", Err: err}
	}

	var enable *gpio.Pin
	if cfg.EnableLine >= 0 {
		enable, err = gpio.NewPin(cfg.EnableChip, cfg.EnableLine, logger)
		if err != nil {
			strip.Close()
			return nil, &types.SinkError{Sink: types.SinkStrip, Op: "open", Err: err}
		}
	}

	return NewStripSink(strip, enable, root, logger)
}

// NewStripSink wraps an open strip. enable may be nil. The sink owns strip
// and enable from here on; if it cannot be created both are closed.
func NewStripSink(strip *ledstrip.Strip, enable *gpio.Pin, root string, logger *slog.Logger) (*StripSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("sink", types.SinkStrip)

	if enable != nil {
		if err := enable.SetValue(1); err != nil {
			if cerr := enable.Close(); cerr != nil {
				logger.Warn("failed to release enable line", "err", cerr)
			}
			if cerr := strip.Close(); cerr != nil {
				logger.Warn("failed to close strip", "err", cerr)
			}
			return nil, &types.SinkError{Sink: types.SinkStrip, Op: "enable", Err: err}
		}
		logger.Info("strip enable line high", "line", enable.String())
	}
	return &StripSink{strip: strip, enable: enable, topic: BrightnessTopic(root), logger: logger}, nil
}

// Render implements types.Sink
func (s *StripSink) Render(frame wordclock.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &types.SinkError{Sink: types.SinkStrip, Op: "render", Err: fmt.Errorf("sink closed")}
	}
	s.strip.SetImage(frame)
	if err := s.strip.Show(); err != nil {
		return &types.SinkError{Sink: types.SinkStrip, Op: "render", Err: err}
	}
	return nil
}

// Topics implements types.Sink
func (s *StripSink) Topics() []string {
	return []string{s.topic}
}

// ApplyControlMessage implements types.Sink
func (s *StripSink) ApplyControlMessage(topic string, payload []byte) error {
	if topic != s.topic {
		return &types.SinkError{Sink: types.SinkStrip, Op: "control", Err: fmt.Errorf("unknown topic %q", topic)}
	}
	v, err := ParseBrightness(payload)
	if err != nil {
		return &types.SinkError{Sink: types.SinkStrip, Op: "control", Err: err}
	}
	if err := s.strip.SetBrightness(int(v)); err != nil {
		return &types.SinkError{Sink: types.SinkStrip, Op: "control", Err: err}
	}
	s.logger.Debug("brightness changed", "brightness", v)
	return nil
}

// Close turns the strip off and releases the enable line
func (s *StripSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.strip.Close()
	if s.enable != nil {
		if cerr := s.enable.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return &types.SinkError{Sink: types.SinkStrip, Op: "close", Err: err}
	}
	return nil
}
