package display

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/fkcurrie/wordclock-golang/pkg/layout"
	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

const (
	faceBackground = "#000000"
	cellBackground = "#141414"
)

// Face paints the letter grid of a layout the way the physical clock looks:
// a dark tile per cell with the letter drawn in the cell's color.
type Face struct {
	letters []rune
	cols    int
	rows    int
	cell    int
	margin  int
	font    font.Face
	tiles   *image.RGBA
}

// NewFace prepares a face for l with square cells of cellSize pixels
// separated by margin pixels
func NewFace(l *layout.Layout, cellSize, margin int) (*Face, error) {
	if cellSize <= 0 || margin < 0 {
		return nil, fmt.Errorf("invalid cell size %d or margin %d", cellSize, margin)
	}

	f := &Face{
		letters: l.Face(),
		cols:    l.Width(),
		rows:    l.Height(),
		cell:    cellSize,
		margin:  margin,
	}

	ttf, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	f.font, err = opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    float64(cellSize) * 0.7,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	if f.tiles, err = f.rasterizeTiles(); err != nil {
		return nil, err
	}
	return f, nil
}

// Size returns the image size in pixels
func (f *Face) Size() (width, height int) {
	return f.cols*f.cell + (f.cols+1)*f.margin, f.rows*f.cell + (f.rows+1)*f.margin
}

// CellRect returns the pixel rectangle of cell i
func (f *Face) CellRect(i int) image.Rectangle {
	col, row := i%f.cols, i/f.cols
	x := f.margin + col*(f.cell+f.margin)
	y := f.margin + row*(f.cell+f.margin)
	return image.Rect(x, y, x+f.cell, y+f.cell)
}

// SVG describes the background and the cell tiles
func (f *Face) SVG() string {
	w, h := f.Size()
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, w, h, faceBackground)
	for i := 0; i < f.cols*f.rows; i++ {
		r := f.CellRect(i)
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
			r.Min.X, r.Min.Y, f.cell, f.cell, cellBackground)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func (f *Face) rasterizeTiles() (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(f.SVG())))
	if err != nil {
		return nil, fmt.Errorf("failed to parse face svg: %w", err)
	}

	w, h := f.Size()
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}

// Draw paints frame onto a fresh image. Letter colors are scaled by
// brightness.
func (f *Face) Draw(frame wordclock.Frame, brightness uint8) *image.RGBA {
	img := image.NewRGBA(f.tiles.Bounds())
	draw.Draw(img, img.Bounds(), f.tiles, image.Point{}, draw.Src)
	f.DrawInto(img, frame, brightness)
	return img
}

// DrawInto paints the letters of frame onto img, which must already hold
// the tiles
func (f *Face) DrawInto(img draw.Image, frame wordclock.Frame, brightness uint8) {
	capHeight := f.font.Metrics().CapHeight.Round()
	d := &font.Drawer{Dst: img, Face: f.font}

	for i, letter := range f.letters {
		if i >= len(frame.Pix) {
			break
		}
		s := string(letter)
		r := f.CellRect(i)
		advance := d.MeasureString(s).Round()

		d.Src = image.NewUniform(frame.Pix[i].Scale(brightness))
		d.Dot = fixed.P(r.Min.X+(f.cell-advance)/2, r.Min.Y+(f.cell+capHeight)/2)
		d.DrawString(s)
	}
}

// Tiles returns the background without letters
func (f *Face) Tiles() *image.RGBA {
	return f.tiles
}
