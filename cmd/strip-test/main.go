package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/wordclock-golang/internal/config"
	"github.com/fkcurrie/wordclock-golang/pkg/gpio"
	"github.com/fkcurrie/wordclock-golang/pkg/ledstrip"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	hold := flag.Duration("hold", 2*time.Second, "how long each pattern stays on")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Strip.EnableLine >= 0 {
		pin, err := gpio.NewPin(cfg.Strip.EnableChip, cfg.Strip.EnableLine, nil)
		if err != nil {
			log.Fatalf("Failed to request enable line: %v", err)
		}
		defer pin.Close()

		log.Printf("Toggling enable line %s", pin)
		for i := 0; i < 3; i++ {
			if err := pin.Pulse(200 * time.Millisecond); err != nil {
				log.Fatalf("Failed to pulse enable line: %v", err)
			}
			time.Sleep(200 * time.Millisecond)
		}
		if err := pin.SetValue(1); err != nil {
			log.Fatalf("Failed to enable strip: %v", err)
		}
	}

	dev, err := ledstrip.OpenSPI(ledstrip.SPIConfig{
		Port:      cfg.Strip.SPIPort,
		NumPixels: cfg.Display.Width * cfg.Display.Height,
		Frequency: cfg.Strip.Frequency,
	})
	if err != nil {
		log.Fatalf("Failed to open strip: %v", err)
	}

	strip, err := ledstrip.NewStrip(&ledstrip.Config{
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Brightness: cfg.Display.Brightness,
		Serpentine: cfg.Strip.Serpentine,
	}, dev)
	if err != nil {
		log.Fatalf("Failed to create strip: %v", err)
	}
	defer strip.Close()

	patterns := []struct {
		name  string
		paint func(s *ledstrip.Strip) error
	}{
		{"red", fill(color.RGBA{255, 0, 0, 255})},
		{"green", fill(color.RGBA{0, 255, 0, 255})},
		{"blue", fill(color.RGBA{0, 0, 255, 255})},
		{"alternating", alternating},
		{"row order", rowOrder},
		{"color wheel", wheel},
	}

	for _, p := range patterns {
		log.Printf("Pattern: %s", p.name)
		if err := p.paint(strip); err != nil {
			log.Fatalf("Failed to paint %s: %v", p.name, err)
		}
		if err := strip.Show(); err != nil {
			log.Fatalf("Failed to show strip: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Println("Interrupted")
			return
		case <-time.After(*hold):
		}
	}

	// Clear the strip
	log.Println("Clearing strip")
	strip.Clear()
	if err := strip.Show(); err != nil {
		log.Fatalf("Failed to show strip: %v", err)
	}

	fmt.Fprintln(os.Stdout, "Test completed successfully")
}

func fill(c color.Color) func(s *ledstrip.Strip) error {
	return func(s *ledstrip.Strip) error {
		s.Fill(c)
		return nil
	}
}

func alternating(s *ledstrip.Strip) error {
	width, height := s.GetDimensions()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.Color(color.Black)
			if (x+y)%2 == 0 {
				c = color.White
			}
			if err := s.SetPixel(x, y, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// rowOrder lights the first pixel of every row and the last pixel of the
// first row, which shows whether the serpentine setting matches the wiring.
func rowOrder(s *ledstrip.Strip) error {
	s.Clear()
	width, height := s.GetDimensions()
	for y := 0; y < height; y++ {
		if err := s.SetPixel(0, y, color.RGBA{0, 255, 0, 255}); err != nil {
			return err
		}
	}
	return s.SetPixel(width-1, 0, color.RGBA{255, 0, 0, 255})
}

func wheel(s *ledstrip.Strip) error {
	width, height := s.GetDimensions()
	n := width * height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := s.SetPixel(x, y, ledstrip.Wheel((y*width+x)*256/n)); err != nil {
				return err
			}
		}
	}
	return nil
}
