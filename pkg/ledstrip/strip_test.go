package ledstrip

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

// recorder is a Device that keeps every write
type recorder struct {
	mu      sync.Mutex
	writes  [][]byte
	halted  bool
	closed  bool
	failErr error
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return 0, r.failErr
	}
	r.writes = append(r.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (r *recorder) Halt() error {
	r.halted = true
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return nil
	}
	return r.writes[len(r.writes)-1]
}

// TestNewStrip tests the creation of a new strip
func TestNewStrip(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		dev     Device
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     &Config{Width: 12, Height: 12, Brightness: 128, Serpentine: true},
			dev:     &recorder{},
			wantErr: false,
		},
		{
			name:    "invalid width",
			cfg:     &Config{Width: 0, Height: 12, Brightness: 128},
			dev:     &recorder{},
			wantErr: true,
		},
		{
			name:    "invalid height",
			cfg:     &Config{Width: 12, Height: 0, Brightness: 128},
			dev:     &recorder{},
			wantErr: true,
		},
		{
			name:    "invalid brightness",
			cfg:     &Config{Width: 12, Height: 12, Brightness: 256},
			dev:     &recorder{},
			wantErr: true,
		},
		{
			name:    "no device",
			cfg:     &Config{Width: 12, Height: 12, Brightness: 128},
			dev:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strip, err := NewStrip(tt.cfg, tt.dev)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStrip() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && strip == nil {
				t.Error("NewStrip() returned nil strip when no error expected")
			}
		})
	}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name       string
		serpentine bool
		x, y       int
		want       int
	}{
		{"first row", true, 0, 0, 0},
		{"first row end", true, 2, 0, 2},
		{"second row reversed", true, 0, 1, 5},
		{"second row end reversed", true, 2, 1, 3},
		{"third row forward", true, 1, 2, 7},
		{"progressive", false, 0, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStrip(&Config{Width: 3, Height: 3, Brightness: 255, Serpentine: tt.serpentine}, &recorder{})
			if err != nil {
				t.Fatalf("NewStrip() error = %v", err)
			}
			if got := s.Index(tt.x, tt.y); got != tt.want {
				t.Errorf("Index(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestStripOperations tests basic strip operations
func TestStripOperations(t *testing.T) {
	dev := &recorder{}
	s, err := NewStrip(&Config{Width: 2, Height: 2, Brightness: 255, Serpentine: true}, dev)
	if err != nil {
		t.Fatalf("Failed to create strip: %v", err)
	}

	width, height := s.GetDimensions()
	if width != 2 || height != 2 {
		t.Errorf("GetDimensions() = %dx%d, want 2x2", width, height)
	}

	red := color.RGBA{255, 0, 0, 255}
	if err := s.SetPixel(0, 1, red); err != nil {
		t.Errorf("SetPixel() error = %v", err)
	}
	r, g, b, err := s.GetPixelColor(0, 1)
	if err != nil {
		t.Errorf("GetPixelColor() error = %v", err)
	}
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("GetPixelColor() = (%d, %d, %d), want (255, 0, 0)", r, g, b)
	}

	if err := s.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	// (0, 1) sits at the far end of the reversed second row.
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 255, 0, 0}
	if got := dev.last(); string(got) != string(want) {
		t.Errorf("Show() wrote %v, want %v", got, want)
	}

	if err := s.SetBrightness(128); err != nil {
		t.Errorf("SetBrightness() error = %v", err)
	}
	if got := s.GetBrightness(); got != 128 {
		t.Errorf("GetBrightness() = %d, want 128", got)
	}
	s.Fill(color.RGBA{200, 100, 0, 255})
	if err := s.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if got := dev.last(); got[0] != 100 || got[1] != 50 || got[2] != 0 {
		t.Errorf("dimmed pixel = %v, want [100 50 0]", got[:3])
	}

	s.Clear()
	if err := s.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	for i, v := range dev.last() {
		if v != 0 {
			t.Errorf("byte %d = %d after Clear(), want 0", i, v)
		}
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !dev.halted || !dev.closed {
		t.Errorf("Close() halted=%v closed=%v, want both true", dev.halted, dev.closed)
	}
}

func TestSetImage(t *testing.T) {
	dev := &recorder{}
	s, err := NewStrip(&Config{Width: 2, Height: 2, Brightness: 255, Serpentine: true}, dev)
	if err != nil {
		t.Fatalf("Failed to create strip: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{1, 2, 3, 255})
	img.Set(1, 0, color.RGBA{4, 5, 6, 255})
	img.Set(2, 0, color.RGBA{7, 8, 9, 255})
	s.SetImage(img)

	r, g, b, _ := s.GetPixelColor(1, 0)
	if r != 4 || g != 5 || b != 6 {
		t.Errorf("GetPixelColor(1, 0) = (%d, %d, %d), want (4, 5, 6)", r, g, b)
	}
	r, g, b, _ = s.GetPixelColor(0, 1)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("GetPixelColor(0, 1) = (%d, %d, %d), want untouched black", r, g, b)
	}
}

func TestInvalidOperations(t *testing.T) {
	s, err := NewStrip(&Config{Width: 4, Height: 4, Brightness: 10}, &recorder{})
	if err != nil {
		t.Fatalf("Failed to create strip: %v", err)
	}

	if err := s.SetPixel(-1, 0, color.White); err == nil {
		t.Error("SetPixel() with negative x should return error")
	}
	if err := s.SetPixel(0, 4, color.White); err == nil {
		t.Error("SetPixel() with y out of range should return error")
	}
	if _, _, _, err := s.GetPixelColor(4, 0); err == nil {
		t.Error("GetPixelColor() out of range should return error")
	}
	if err := s.SetBrightness(-1); err == nil {
		t.Error("SetBrightness() with negative value should return error")
	}
	if err := s.SetBrightness(256); err == nil {
		t.Error("SetBrightness() above 255 should return error")
	}
}

func TestShowWriteError(t *testing.T) {
	boom := errors.New("spi: bus error")
	s, err := NewStrip(&Config{Width: 1, Height: 1, Brightness: 255}, &recorder{failErr: boom})
	if err != nil {
		t.Fatalf("Failed to create strip: %v", err)
	}
	if err := s.Show(); !errors.Is(err, boom) {
		t.Errorf("Show() error = %v, want %v", err, boom)
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		pos  int
		want color.RGBA
	}{
		{0, color.RGBA{255, 0, 0, 255}},
		{85, color.RGBA{0, 255, 0, 255}},
		{170, color.RGBA{0, 0, 255, 255}},
		{255, color.RGBA{255, 0, 0, 255}},
		{-1, color.RGBA{0, 0, 0, 255}},
		{300, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := Wheel(tt.pos); got != tt.want {
			t.Errorf("Wheel(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

// TestConcurrentOperations tests concurrent access to the strip
func TestConcurrentOperations(t *testing.T) {
	s, err := NewStrip(&Config{Width: 12, Height: 12, Brightness: 128, Serpentine: true}, &recorder{})
	if err != nil {
		t.Fatalf("Failed to create strip: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(i int) {
			for j := 0; j < 100; j++ {
				if err := s.SetPixel(i, j%12, color.RGBA{255, 0, 0, 255}); err != nil {
					t.Errorf("SetPixel() error = %v", err)
				}
				if err := s.Show(); err != nil {
					t.Errorf("Show() error = %v", err)
				}
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
