package display

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fkcurrie/wordclock-golang/internal/config"
	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
)

// BrightnessTopic returns the control topic every sink accepts
func BrightnessTopic(root string) string {
	return root + "/display/brightness"
}

// ParseBrightness accepts a decimal value between 0 and 255
func ParseBrightness(payload []byte) (uint8, error) {
	v, err := strconv.Atoi(strings.TrimSpace(string(payload)))
	if err != nil {
		return 0, fmt.Errorf("invalid brightness %q: %w", payload, err)
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("brightness %d out of range [0, 255]", v)
	}
	return uint8(v), nil
}

// brightness holds the brightness of screen sinks and answers the shared
// brightness topic
type brightness struct {
	sink  string
	topic string
	mu    sync.RWMutex
	value uint8
}

func newBrightness(sink, root string, initial int) *brightness {
	return &brightness{sink: sink, topic: BrightnessTopic(root), value: uint8(initial)}
}

func (b *brightness) get() uint8 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

func (b *brightness) Topics() []string {
	return []string{b.topic}
}

func (b *brightness) ApplyControlMessage(topic string, payload []byte) error {
	if topic != b.topic {
		return &types.SinkError{Sink: b.sink, Op: "control", Err: fmt.Errorf("unknown topic %q", topic)}
	}
	v, err := ParseBrightness(payload)
	if err != nil {
		return &types.SinkError{Sink: b.sink, Op: "control", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = v
	return nil
}

// New creates the sink selected by cfg.Display.Sink. Terminal output goes
// to out.
func New(cfg *config.Config, l *layout.Layout, out io.Writer, logger *slog.Logger) (types.Sink, error) {
	root := cfg.Control.Root
	switch cfg.Display.Sink {
	case types.SinkTerminal:
		return NewTerminal(out, l, root, cfg.Display.Brightness, true), nil
	case types.SinkSnapshot:
		s, err := NewSnapshot(cfg.Snapshot, l, root, cfg.Display.Brightness)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.SinkWindow:
		w, err := NewWindow(cfg.Window, l, root, cfg.Display.Brightness)
		if err != nil {
			return nil, err
		}
		return w, nil
	case types.SinkStrip:
		s, err := OpenStrip(cfg.Strip, cfg.Display, root, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Display.Sink)
	}
}

// Runner is implemented by sinks that need the main goroutine, such as a
// desktop window. Run blocks until the sink is closed.
type Runner interface {
	Run() error
}
