package types

// Sink kinds accepted by DisplayConfig.Sink
const (
	SinkWindow   = "window"
	SinkTerminal = "terminal"
	SinkSnapshot = "snapshot"
	SinkStrip    = "strip"
)

// SinkKinds lists every sink kind
var SinkKinds = []string{SinkWindow, SinkTerminal, SinkSnapshot, SinkStrip}

// DisplayConfig represents the configuration for the display
type DisplayConfig struct {
	Sink              string  `json:"sink"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	Brightness        int     `json:"brightness"`
	UpdateInterval    float64 `json:"update_interval"`
	MaxRenderFailures int     `json:"max_render_failures"`
	Layout            string  `json:"layout"`
}

// ClockConfig represents the configuration for the clock face
type ClockConfig struct {
	Simulate bool              `json:"simulate"`
	Colors   map[string]string `json:"colors"`
}

// StripConfig represents the configuration for the WS2812 strip
type StripConfig struct {
	SPIPort    string `json:"spi_port"`
	Frequency  int    `json:"frequency"`
	Serpentine bool   `json:"serpentine"`
	EnableChip string `json:"enable_chip"`
	EnableLine int    `json:"enable_line"`
}

// WindowConfig represents the configuration for the desktop window
type WindowConfig struct {
	Title    string `json:"title"`
	CellSize int    `json:"cell_size"`
	Margin   int    `json:"margin"`
}

// SnapshotConfig represents the configuration for PNG snapshots
type SnapshotConfig struct {
	Path     string `json:"path"`
	CellSize int    `json:"cell_size"`
	Margin   int    `json:"margin"`
}

// ControlConfig represents the configuration for the control server
type ControlConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	Root    string `json:"root"`
}
