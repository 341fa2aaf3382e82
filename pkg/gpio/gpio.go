package gpio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Consumer labels the lines this package requests
const Consumer = "wordclock"

// Line is the part of a requested GPIO line that Pin uses
type Line interface {
	SetValue(value int) error
	Value() (int, error)
	Close() error
}

// Pin represents a GPIO output line using the character device interface
type Pin struct {
	name   string
	line   Line
	logger *slog.Logger
	mu     sync.Mutex
}

// NewPin requests offset on chip (for example "gpiochip0") as an output
// driven low. A nil logger uses slog.Default.
func NewPin(chip string, offset int, logger *slog.Logger) (*Pin, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("requesting GPIO line", "chip", chip, "offset", offset)

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request %s line %d: %w", chip, offset, err)
	}

	return NewPinFromLine(fmt.Sprintf("%s:%d", chip, offset), line, logger), nil
}

// NewPinFromLine wraps an already requested line
func NewPinFromLine(name string, line Line, logger *slog.Logger) *Pin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pin{name: name, line: line, logger: logger.With("line", name)}
}

// String returns chip:offset
func (p *Pin) String() string {
	return p.name
}

// Close drives the line low and releases it
func (p *Pin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Debug("releasing GPIO line")
	if err := p.line.SetValue(0); err != nil {
		p.logger.Warn("failed to drive line low before release", "err", err)
	}
	return p.line.Close()
}

// SetValue sets the value of the GPIO pin (0 or 1)
func (p *Pin) SetValue(value int) error {
	if value != 0 && value != 1 {
		return fmt.Errorf("invalid value %d for %s", value, p.name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.line.SetValue(value)
}

// GetValue gets the value of the GPIO pin (0 or 1)
func (p *Pin) GetValue() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.line.Value()
}

// Pulse sends a pulse of the specified duration
func (p *Pin) Pulse(duration time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Debug("pulsing GPIO line", "duration", duration)
	if err := p.line.SetValue(1); err != nil {
		return err
	}

	time.Sleep(duration)

	return p.line.SetValue(0)
}
