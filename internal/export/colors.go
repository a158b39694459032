// Package export renders intersection results to text, JSON, Excel, PDF,
// PNG and DXF, and prints QR-coded labels for intersections.
package export

import (
	"math"

	"github.com/mazznoer/csscolorparser"

	"github.com/piwi3910/RectSect/internal/model"
)

// rgba is an 8-bit colour with a 0..1 alpha, the form both fpdf and gg take.
type rgba struct {
	R, G, B int
	A       float64
}

// parseColor parses a CSS colour string, falling back when s is empty or
// not a colour.
func parseColor(s string, fallback rgba) rgba {
	if s == "" {
		return fallback
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return fallback
	}
	r, g, b, _ := c.RGBA255()
	return rgba{R: int(r), G: int(g), B: int(b), A: c.A}
}

// palette resolves the style's palette once per render.
type palette struct {
	colors       []rgba
	background   rgba
	intersection rgba
}

var (
	black = rgba{A: 1}
	white = rgba{R: 255, G: 255, B: 255, A: 1}
	gray  = rgba{R: 30, G: 30, B: 30, A: 0.35}
)

func newPalette(style model.RenderStyle) palette {
	p := palette{
		background:   parseColor(style.Background, white),
		intersection: parseColor(style.IntersectionColor, gray),
	}
	for _, s := range style.Palette {
		p.colors = append(p.colors, parseColor(s, black))
	}
	if len(p.colors) == 0 {
		p.colors = []rgba{black}
	}
	return p
}

// forRectangle picks the colour for the index-th rectangle.
func (p palette) forRectangle(index int) rgba {
	return p.colors[index%len(p.colors)]
}

// forOrder darkens the intersection shade as more rectangles overlap.
func (p palette) forOrder(order int) rgba {
	c := p.intersection
	c.A = math.Min(1, c.A*float64(order-1))
	return c
}

// extent is the bounding box of everything being drawn, in input units.
type extent struct {
	minX, minY, maxX, maxY float64
}

func (e extent) width() float64  { return e.maxX - e.minX }
func (e extent) height() float64 { return e.maxY - e.minY }

func extentOf(rects []model.Rectangle) extent {
	if len(rects) == 0 {
		return extent{maxX: 1, maxY: 1}
	}
	e := extent{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	for _, r := range rects {
		e.minX = math.Min(e.minX, float64(r.Left()))
		e.minY = math.Min(e.minY, float64(r.Top()))
		e.maxX = math.Max(e.maxX, float64(r.Right()))
		e.maxY = math.Max(e.maxY, float64(r.Bottom()))
	}
	return e
}

// fit returns the scale and offsets that place e centred inside a w x h box
// at (x, y).
func (e extent) fit(x, y, w, h float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(w/e.width(), h/e.height())
	offsetX = x + (w-e.width()*scale)/2 - e.minX*scale
	offsetY = y + (h-e.height()*scale)/2 - e.minY*scale
	return scale, offsetX, offsetY
}
