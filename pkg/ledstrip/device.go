package ledstrip

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// SPIConfig selects the SPI port that feeds the strip
type SPIConfig struct {
	// Port is a spireg name; empty selects the first port
	Port      string
	NumPixels int
	// Frequency is the NRZ bit rate in Hz
	Frequency int
}

// spiDevice is an nrzled device that also owns its port
type spiDevice struct {
	*nrzled.Dev
	port spi.PortCloser
}

func (d *spiDevice) Close() error {
	return d.port.Close()
}

// OpenSPI initialises the host drivers and opens a WS2812 device on an SPI
// port
func OpenSPI(cfg SPIConfig) (Device, error) {
	if cfg.NumPixels <= 0 {
		return nil, fmt.Errorf("invalid pixel count: %d", cfg.NumPixels)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise host drivers: %w", err)
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.Port, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = cfg.NumPixels
	opts.Channels = 3
	if cfg.Frequency > 0 {
		opts.Freq = physic.Frequency(cfg.Frequency) * physic.Hertz
	}

	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to create WS2812 device: %w", err)
	}

	return &spiDevice{Dev: dev, port: port}, nil
}
