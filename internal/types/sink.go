package types

import (
	"fmt"

	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Sink represents a display that can show a word clock frame
type Sink interface {
	// Render shows the frame
	Render(frame wordclock.Frame) error
	// Topics lists the control topics the sink accepts
	Topics() []string
	// ApplyControlMessage handles a message for one of the sink's topics
	ApplyControlMessage(topic string, payload []byte) error
	// Close releases the display
	Close() error
}

// SinkError reports a failure inside a sink
type SinkError struct {
	Sink string
	Op   string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink: %s: %v", e.Sink, e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
