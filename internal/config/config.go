package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Config represents the application configuration
type Config struct {
	Display  types.DisplayConfig  `json:"display"`
	Clock    types.ClockConfig    `json:"clock"`
	Strip    types.StripConfig    `json:"strip"`
	Window   types.WindowConfig   `json:"window"`
	Snapshot types.SnapshotConfig `json:"snapshot"`
	Control  types.ControlConfig  `json:"control"`
}

// LoadConfig loads the configuration from a file. Fields the file omits
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	colors := wordclock.DefaultColors()
	return &Config{
		Display: types.DisplayConfig{
			Sink:           types.SinkTerminal,
			Width:          12,
			Height:         12,
			Brightness:     255,
			UpdateInterval: 0.2,
			Layout:         "swedish",
		},
		Clock: types.ClockConfig{
			Colors: map[string]string{
				wordclock.RoleOn.String():        colors.On.Hex(),
				wordclock.RoleOff.String():       colors.Off.Hex(),
				wordclock.RoleDay.String():       colors.Day.Hex(),
				wordclock.RoleSignature.String(): colors.Signature.Hex(),
			},
		},
		Strip: types.StripConfig{
			Frequency:  800000,
			Serpentine: true,
			EnableChip: "gpiochip0",
			EnableLine: -1,
		},
		Window: types.WindowConfig{
			Title:    "ord-klocka",
			CellSize: 50,
			Margin:   5,
		},
		Snapshot: types.SnapshotConfig{
			Path:     "wordclock.png",
			CellSize: 50,
			Margin:   5,
		},
		Control: types.ControlConfig{
			Addr: "127.0.0.1:8080",
			Root: "wordclock",
		},
	}
}

// Validate checks the configuration for values no sink can work with
func (c *Config) Validate() error {
	d := c.Display
	if !validSink(d.Sink) {
		return fmt.Errorf("display.sink: unknown sink %q", d.Sink)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("display: invalid size %dx%d", d.Width, d.Height)
	}
	if d.Brightness < 0 || d.Brightness > 255 {
		return fmt.Errorf("display.brightness: %d out of range [0, 255]", d.Brightness)
	}
	if d.UpdateInterval <= 0 {
		return fmt.Errorf("display.update_interval: must be positive, got %g", d.UpdateInterval)
	}
	if d.MaxRenderFailures < 0 {
		return fmt.Errorf("display.max_render_failures: must not be negative")
	}
	if d.Layout == "" {
		return fmt.Errorf("display.layout: empty")
	}
	if _, err := c.Colors(); err != nil {
		return fmt.Errorf("clock.colors: %w", err)
	}
	if c.Window.CellSize <= 0 || c.Window.Margin < 0 {
		return fmt.Errorf("window: invalid cell size %d or margin %d", c.Window.CellSize, c.Window.Margin)
	}
	if c.Snapshot.CellSize <= 0 || c.Snapshot.Margin < 0 {
		return fmt.Errorf("snapshot: invalid cell size %d or margin %d", c.Snapshot.CellSize, c.Snapshot.Margin)
	}
	if c.Strip.Frequency <= 0 {
		return fmt.Errorf("strip.frequency: must be positive")
	}
	if c.Control.Enabled && c.Control.Addr == "" {
		return fmt.Errorf("control.addr: empty")
	}
	return nil
}

// Clone returns a deep copy of c
func (c *Config) Clone() *Config {
	clone := *c
	if c.Clock.Colors != nil {
		clone.Clock.Colors = make(map[string]string, len(c.Clock.Colors))
		for role, color := range c.Clock.Colors {
			clone.Clock.Colors[role] = color
		}
	}
	return &clone
}

// Colors parses the configured role colors on top of the defaults
func (c *Config) Colors() (wordclock.RoleColorMap, error) {
	return wordclock.ParseColors(wordclock.DefaultColors(), c.Clock.Colors)
}

// SetColor records the color of one role
func (c *Config) SetColor(role wordclock.Role, color wordclock.RGB) {
	if c.Clock.Colors == nil {
		c.Clock.Colors = make(map[string]string)
	}
	c.Clock.Colors[role.String()] = color.Hex()
}

// Interval returns the time between two frames
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Display.UpdateInterval * float64(time.Second))
}

// Save writes the configuration to path through a temporary file and a
// rename.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func validSink(kind string) bool {
	for _, k := range types.SinkKinds {
		if k == kind {
			return true
		}
	}
	return false
}
