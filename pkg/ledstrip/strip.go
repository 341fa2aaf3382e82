// Package ledstrip drives a WS2812 LED strip folded into a rectangular
// matrix.
package ledstrip

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"
)

// Device receives raw RGB bytes, three per LED in strip order.
type Device interface {
	io.Writer
	// Halt turns every LED off
	Halt() error
}

// Config holds the configuration for the LED strip
type Config struct {
	Width      int
	Height     int
	Brightness int
	// Serpentine is set when every odd row runs right to left
	Serpentine bool
}

// Validate checks the dimensions and brightness
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", c.Width, c.Height)
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	return nil
}

// Strip buffers one frame of a WS2812 matrix and pushes it to a Device
type Strip struct {
	width      int
	height     int
	brightness int
	serpentine bool
	dev        Device
	buffer     []color.RGBA
	mu         sync.RWMutex
}

// NewStrip creates a strip that writes to dev
func NewStrip(cfg *Config, dev Device) (*Strip, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, fmt.Errorf("no device")
	}

	return &Strip{
		width:      cfg.Width,
		height:     cfg.Height,
		brightness: cfg.Brightness,
		serpentine: cfg.Serpentine,
		dev:        dev,
		buffer:     make([]color.RGBA, cfg.Width*cfg.Height),
	}, nil
}

// Close turns the LEDs off and releases the device
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.dev.Halt()
	if c, ok := s.dev.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Index returns the position along the strip of the LED at (x, y)
func (s *Strip) Index(x, y int) int {
	if s.serpentine && y%2 == 1 {
		return y*s.width + (s.width - 1 - x)
	}
	return y*s.width + x
}

// Clear sets every LED in the buffer to black
func (s *Strip) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.buffer {
		s.buffer[i] = color.RGBA{}
	}
}

// SetPixel sets a pixel at the given coordinates to the given color
func (s *Strip) SetPixel(x, y int, c color.Color) error {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer[s.Index(x, y)] = toRGBA(c)
	return nil
}

// GetPixelColor gets the color of a pixel at the given coordinates
func (s *Strip) GetPixelColor(x, y int) (r, g, b uint8, err error) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, 0, 0, fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.buffer[s.Index(x, y)]
	return c.R, c.G, c.B, nil
}

// Fill fills the entire strip with a color
func (s *Strip) Fill(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rgba := toRGBA(c)
	for i := range s.buffer {
		s.buffer[i] = rgba
	}
}

// SetImage copies img into the buffer. Pixels outside the strip are
// ignored; LEDs outside the image keep their color.
func (s *Strip) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := img.Bounds()
	for y := 0; y < s.height && y < b.Dy(); y++ {
		for x := 0; x < s.width && x < b.Dx(); x++ {
			s.buffer[s.Index(x, y)] = toRGBA(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
}

// SetBrightness sets the brightness of the strip
func (s *Strip) SetBrightness(brightness int) error {
	if brightness < 0 || brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.brightness = brightness
	return nil
}

// GetBrightness returns the current brightness of the strip
func (s *Strip) GetBrightness() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brightness
}

// GetDimensions returns the dimensions of the matrix
func (s *Strip) GetDimensions() (width, height int) {
	return s.width, s.height
}

// Show writes the buffer to the device, scaled by the brightness
func (s *Strip) Show() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := make([]byte, len(s.buffer)*3)
	for i, c := range s.buffer {
		offset := i * 3
		data[offset] = scale(c.R, s.brightness)
		data[offset+1] = scale(c.G, s.brightness)
		data[offset+2] = scale(c.B, s.brightness)
	}

	if _, err := s.dev.Write(data); err != nil {
		return fmt.Errorf("failed to write pixels: %w", err)
	}
	return nil
}

// Wheel maps 0-255 onto a red, green, blue and back to red color circle.
func Wheel(pos int) color.RGBA {
	switch {
	case pos < 0 || pos > 255:
		return color.RGBA{A: 255}
	case pos < 85:
		return color.RGBA{R: uint8(255 - pos*3), G: uint8(pos * 3), A: 255}
	case pos < 170:
		pos -= 85
		return color.RGBA{G: uint8(255 - pos*3), B: uint8(pos * 3), A: 255}
	default:
		pos -= 170
		return color.RGBA{R: uint8(pos * 3), B: uint8(255 - pos*3), A: 255}
	}
}

func scale(v uint8, brightness int) uint8 {
	return uint8(int(v) * brightness / 255)
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}
