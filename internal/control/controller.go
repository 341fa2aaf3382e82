package control

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fkcurrie/wordclock-golang/internal/config"
	"github.com/fkcurrie/wordclock-golang/internal/types"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// Persister stores an accepted color so it survives a restart.
type Persister interface {
	PersistColor(role wordclock.Role, c wordclock.RGB) error
}

// ConfigPersister writes colors back to the configuration file. cfg should
// hold the settings as read from path, without command line overrides.
type ConfigPersister struct {
	mu   sync.Mutex
	cfg  *config.Config
	path string
}

// NewConfigPersister returns a persister that saves cfg to path.
func NewConfigPersister(cfg *config.Config, path string) *ConfigPersister {
	return &ConfigPersister{cfg: cfg, path: path}
}

// PersistColor implements Persister.
func (p *ConfigPersister) PersistColor(role wordclock.Role, c wordclock.RGB) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, had := p.cfg.Clock.Colors[role.String()]
	p.cfg.SetColor(role, c)
	if err := p.cfg.Save(p.path); err != nil {
		if had {
			p.cfg.Clock.Colors[role.String()] = prev
		} else {
			delete(p.cfg.Clock.Colors, role.String())
		}
		return err
	}
	return nil
}

// Controller routes messages to the palette and the sink.
type Controller struct {
	root      string
	palette   *wordclock.Palette
	sink      types.Sink
	persister Persister
	logger    *slog.Logger

	// colorMu keeps the saved colors and the palette in the same order.
	colorMu sync.Mutex
}

// NewController creates a controller. sink and persister may be nil.
func NewController(root string, palette *wordclock.Palette, sink types.Sink, persister Persister, logger *slog.Logger) *Controller {
	if root == "" {
		root = DefaultRoot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		root:      root,
		palette:   palette,
		sink:      sink,
		persister: persister,
		logger:    logger.With("component", "control"),
	}
}

// Root returns the topic prefix.
func (c *Controller) Root() string {
	return c.root
}

// Topics lists every topic Apply accepts.
func (c *Controller) Topics() []string {
	var topics []string
	for _, role := range wordclock.Roles {
		topics = append(topics, ColorTopic(c.root, role))
	}
	if c.sink != nil {
		topics = append(topics, c.sink.Topics()...)
	}
	return topics
}

// Colors returns the current palette as hex strings keyed by role.
func (c *Controller) Colors() map[string]string {
	colors := c.palette.Colors()
	out := make(map[string]string, len(wordclock.Roles))
	for _, role := range wordclock.Roles {
		out[role.String()] = colors.Color(role).Hex()
	}
	return out
}

// Apply handles one message. A color that cannot be parsed or saved leaves
// the palette unchanged; parse failures are *wordclock.ConfigError.
func (c *Controller) Apply(msg Message) error {
	log := c.logger.With("topic", msg.Topic)

	if role, ok := colorRole(c.root, msg.Topic); ok {
		rgb, err := wordclock.ParseRoleColor(role, msg.Payload)
		if err != nil {
			log.Warn("rejected color", "payload", msg.Payload, "err", err)
			return err
		}

		c.colorMu.Lock()
		defer c.colorMu.Unlock()

		// The palette only changes once the color is saved.
		if c.persister != nil {
			if err := c.persister.PersistColor(role, rgb); err != nil {
				log.Error("failed to persist color", "err", err)
				return fmt.Errorf("color not saved: %w", err)
			}
		}
		c.palette.SetRGB(role, rgb)
		log.Info("color updated", "role", role.String(), "color", rgb.Hex())
		return nil
	}

	if c.sink != nil && c.sinkAccepts(msg.Topic) {
		if err := c.sink.ApplyControlMessage(msg.Topic, []byte(msg.Payload)); err != nil {
			log.Warn("sink rejected message", "err", err)
			return err
		}
		log.Info("sink updated", "payload", msg.Payload)
		return nil
	}

	return fmt.Errorf("%w %q", ErrUnknownTopic, msg.Topic)
}

func (c *Controller) sinkAccepts(topic string) bool {
	for _, t := range c.sink.Topics() {
		if t == topic {
			return true
		}
	}
	return false
}
