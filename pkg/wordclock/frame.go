package wordclock

import (
	"fmt"
	"image"
	"image/color"
	"sort"
)

// Role is the color category of a cell.
type Role uint8

const (
	RoleOff Role = iota
	RoleOn
	RoleDay
	RoleSignature
)

// Roles lists every role in declaration order.
var Roles = []Role{RoleOff, RoleOn, RoleDay, RoleSignature}

func (r Role) String() string {
	switch r {
	case RoleOff:
		return "off"
	case RoleOn:
		return "on"
	case RoleDay:
		return "day"
	case RoleSignature:
		return "signature"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Illumination maps every lit cell to its role. Cells that are not present
// are off.
type Illumination map[int]Role

// Cells returns the sorted cells carrying role.
func (ill Illumination) Cells(role Role) []int {
	var cells []int
	for cell, r := range ill {
		if r == role {
			cells = append(cells, cell)
		}
	}
	sort.Ints(cells)
	return cells
}

// RoleGrid expands an illumination into one role per cell of a width ×
// height grid. Cells outside the grid are ignored, and a grid with a
// non-positive side has no cells.
func RoleGrid(ill Illumination, width, height int) []Role {
	if width <= 0 || height <= 0 {
		return []Role{}
	}
	roles := make([]Role, width*height)
	for cell, role := range ill {
		if cell >= 0 && cell < len(roles) {
			roles[cell] = role
		}
	}
	return roles
}

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale dims the color by brightness/255.
func (c RGB) Scale(brightness uint8) RGB {
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(brightness) / 255)
	}
	return RGB{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}

func (c RGB) String() string {
	return c.Hex()
}

// Frame is a full grid of cell colors in row-major order.
type Frame struct {
	Width  int
	Height int
	Pix    []RGB
}

// Cell returns the color of cell i.
func (f Frame) Cell(i int) RGB {
	return f.Pix[i]
}

// ColorModel implements image.Image.
func (f Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image, one pixel per cell.
func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f Frame) At(x, y int) color.Color {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return color.RGBA{}
	}
	return f.Pix[y*f.Width+x]
}

// BuildFrame colors every cell of a width × height grid by its role.
// Non-positive dimensions give an empty frame.
func BuildFrame(ill Illumination, colors RoleColorMap, width, height int) Frame {
	if width <= 0 || height <= 0 {
		width, height = 0, 0
	}
	roles := RoleGrid(ill, width, height)
	frame := Frame{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, len(roles)),
	}
	for i, role := range roles {
		frame.Pix[i] = colors.Color(role)
	}
	return frame
}
