package wordclock

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// RoleColorMap assigns a color to every role.
type RoleColorMap struct {
	On        RGB
	Off       RGB
	Day       RGB
	Signature RGB
}

// DefaultColors returns the colors used when no configuration is given.
func DefaultColors() RoleColorMap {
	return RoleColorMap{
		On:        RGB{R: 0xff, G: 0xff, B: 0xff},
		Off:       RGB{R: 0x14, G: 0x14, B: 0x14},
		Day:       RGB{R: 0xff, G: 0x8c, B: 0x00},
		Signature: RGB{R: 0x1e, G: 0x90, B: 0xff},
	}
}

// Color returns the color assigned to role.
func (m RoleColorMap) Color(role Role) RGB {
	switch role {
	case RoleOn:
		return m.On
	case RoleDay:
		return m.Day
	case RoleSignature:
		return m.Signature
	default:
		return m.Off
	}
}

// With returns a copy of m with role set to c.
func (m RoleColorMap) With(role Role, c RGB) RoleColorMap {
	switch role {
	case RoleOn:
		m.On = c
	case RoleDay:
		m.Day = c
	case RoleSignature:
		m.Signature = c
	default:
		m.Off = c
	}
	return m
}

// ConfigError reports a color value that cannot be used.
type ConfigError struct {
	Role  string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid color %q", e.Value)
	if e.Role != "" {
		msg = fmt.Sprintf("invalid %s color %q", e.Role, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseColor accepts #rgb, #rrggbb, rgb(r, g, b) and SVG color names.
func ParseColor(s string) (RGB, error) {
	v := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(v, "#"):
		c, err := colorful.Hex(v)
		if err != nil {
			return RGB{}, &ConfigError{Value: s, Err: err}
		}
		r, g, b := c.RGB255()
		return RGB{R: r, G: g, B: b}, nil

	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		var r, g, b int
		body := strings.ReplaceAll(v[len("rgb("):len(v)-1], " ", "")
		if n, err := fmt.Sscanf(body, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
			return RGB{}, &ConfigError{Value: s, Err: fmt.Errorf("expected rgb(r, g, b)")}
		}
		for _, c := range []int{r, g, b} {
			if c < 0 || c > 255 {
				return RGB{}, &ConfigError{Value: s, Err: fmt.Errorf("component %d out of range [0, 255]", c)}
			}
		}
		return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil

	default:
		c, ok := colornames.Map[v]
		if !ok {
			return RGB{}, &ConfigError{Value: s, Err: fmt.Errorf("unknown color name")}
		}
		return RGB{R: c.R, G: c.G, B: c.B}, nil
	}
}

func withRole(err error, role string) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		tagged := *ce
		tagged.Role = role
		return &tagged
	}
	return &ConfigError{Role: role, Err: err}
}

// ParseColors builds a RoleColorMap from color strings keyed by role name.
// Roles that are missing keep their value from base.
func ParseColors(base RoleColorMap, values map[string]string) (RoleColorMap, error) {
	colors := base
	for name, value := range values {
		role, err := ParseRole(name)
		if err != nil {
			return base, &ConfigError{Role: name, Value: value, Err: err}
		}
		c, err := ParseColor(value)
		if err != nil {
			return base, withRole(err, name)
		}
		colors = colors.With(role, c)
	}
	return colors, nil
}

// Palette is the mutable, shared RoleColorMap. A frame reads Colors once,
// so an update lands between frames, never inside one.
type Palette struct {
	mu     sync.RWMutex
	colors RoleColorMap
}

// NewPalette creates a palette holding colors.
func NewPalette(colors RoleColorMap) *Palette {
	return &Palette{colors: colors}
}

// Colors returns a snapshot of the current colors.
func (p *Palette) Colors() RoleColorMap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.colors
}

// ParseRoleColor parses a color meant for role. Errors name the role.
func ParseRoleColor(role Role, value string) (RGB, error) {
	c, err := ParseColor(value)
	if err != nil {
		return RGB{}, withRole(err, role.String())
	}
	return c, nil
}

// Set parses value and assigns it to role. On error the previous color is
// kept.
func (p *Palette) Set(role Role, value string) (RGB, error) {
	c, err := ParseRoleColor(role, value)
	if err != nil {
		return RGB{}, err
	}
	p.SetRGB(role, c)
	return c, nil
}

// SetRGB assigns an already validated color to role.
func (p *Palette) SetRGB(role Role, c RGB) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.colors = p.colors.With(role, c)
}
