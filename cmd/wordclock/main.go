package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/fkcurrie/wordclock-golang/internal/clock"
	"github.com/fkcurrie/wordclock-golang/internal/config"
	"github.com/fkcurrie/wordclock-golang/internal/control"
	"github.com/fkcurrie/wordclock-golang/internal/display"
	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	sinkName := flag.String("sink", "", "Display sink to use (window, terminal, snapshot, strip); overrides the config")
	simulate := flag.Bool("simulate", false, "Run the simulated clock instead of the wall clock")
	at := flag.String("at", "", "Show a fixed time, HH:MM")
	weekday := flag.Int("weekday", 0, "Weekday shown with -at, 0 = Monday")
	once := flag.Bool("once", false, "Render a single frame and exit")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load configuration
	fileCfg, err := config.LoadConfig(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("config file not found, using defaults", "path", *configPath)
		fileCfg = config.DefaultConfig()
	} else if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := withOverrides(fileCfg, *sinkName, *simulate)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l, err := loadLayout(cfg.Display.Layout, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		log.Fatalf("Failed to load layout: %v", err)
	}

	colors, err := cfg.Colors()
	if err != nil {
		log.Fatalf("Invalid colors: %v", err)
	}
	palette := wordclock.NewPalette(colors)

	source, err := newSource(cfg, *at, *weekday)
	if err != nil {
		log.Fatalf("Invalid time: %v", err)
	}

	sink, err := display.New(cfg, l, os.Stdout, logger)
	if err != nil {
		log.Fatalf("Failed to create %s sink: %v", cfg.Display.Sink, err)
	}
	defer sink.Close()

	renderer := display.NewRenderer(&cfg.Display, l, source, palette, logger)
	renderer.SetSink(sink)

	if *once {
		if _, err := renderer.Step(); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
		return
	}

	// Handle shutdown gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Control.Enabled {
		// Colors are saved on top of the file as loaded, so command line
		// overrides never end up in it.
		persister := control.NewConfigPersister(fileCfg, *configPath)
		controller := control.NewController(cfg.Control.Root, palette, sink, persister, logger)
		server := control.NewServer(controller, logger)
		go func() {
			if err := server.ListenAndServe(ctx, cfg.Control.Addr); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("control server stopped", "err", err)
			}
		}()
	}

	logger.Info("word clock running", "sink", cfg.Display.Sink, "layout", cfg.Display.Layout,
		"interval", cfg.Interval(), "simulate", cfg.Clock.Simulate)

	// A window has to own the main goroutine, so the renderer moves aside.
	if runner, ok := sink.(display.Runner); ok {
		errc := make(chan error, 1)
		go func() {
			errc <- renderer.Start(ctx)
			sink.Close()
		}()
		if err := runner.Run(); err != nil {
			log.Fatalf("Window failed: %v", err)
		}
		stop()
		if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Renderer stopped: %v", err)
		}
	} else if err := renderer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Renderer stopped: %v", err)
	}

	logger.Info("shutting down")
}

// withOverrides returns a copy of cfg with the command line settings applied
func withOverrides(cfg *config.Config, sink string, simulate bool) *config.Config {
	out := cfg.Clone()
	if sink != "" {
		out.Display.Sink = sink
	}
	if simulate {
		out.Clock.Simulate = true
	}
	return out
}

// loadLayout accepts a bundled layout name or a path to a JSON or YAML file
func loadLayout(nameOrPath string, width, height int) (*layout.Layout, error) {
	if slices.Contains(layout.BuiltinNames(), nameOrPath) {
		return layout.Builtin(nameOrPath, width, height)
	}
	return layout.LoadFile(nameOrPath, width, height)
}

func newSource(cfg *config.Config, at string, weekday int) (clock.Source, error) {
	if at == "" {
		if cfg.Clock.Simulate {
			return clock.NewSimulated(wordclock.TimeReading{}), nil
		}
		return clock.Wall{}, nil
	}

	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("-at %q: %w", at, err)
	}
	reading := wordclock.TimeReading{Hour: t.Hour(), Minute: t.Minute(), Weekday: weekday}
	if err := reading.Validate(); err != nil {
		return nil, err
	}
	return clock.Fixed(reading), nil
}
