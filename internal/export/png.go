package export

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/model"
)

// PNG canvas size in pixels.
const (
	PNGWidth  = 1200
	PNGHeight = 900
	pngMargin = 40.0
)

// ExportPNG plots the rectangles and their intersections on a grid. The
// y axis grows downwards as in the input coordinates.
func ExportPNG(path string, rects []model.Rectangle, ins []engine.Intersection, style model.RenderStyle) error {
	if len(rects) == 0 {
		return fmt.Errorf("no rectangles to export")
	}

	pal := newPalette(style)
	dc := gg.NewContext(PNGWidth, PNGHeight)
	setColor(dc, pal.background)
	dc.Clear()

	ext := extentOf(rects)
	scale, offsetX, offsetY := ext.fit(pngMargin, pngMargin, PNGWidth-2*pngMargin, PNGHeight-2*pngMargin)

	drawGrid(dc, ext, scale, offsetX, offsetY)

	for i, r := range rects {
		c := pal.forRectangle(i)
		x := offsetX + float64(r.Left())*scale
		y := offsetY + float64(r.Top())*scale
		w := float64(r.Width()) * scale
		h := float64(r.Height()) * scale

		fill := c
		fill.A = 0.15
		setColor(dc, fill)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		setColor(dc, c)
		dc.SetLineWidth(2)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%d", r.ID()), x+4, y+4, 0, 1)
	}

	for _, in := range ins {
		s := in.Shape()
		setColor(dc, pal.forOrder(in.Order()))
		dc.DrawRectangle(offsetX+float64(s.Left())*scale, offsetY+float64(s.Top())*scale,
			float64(s.Width())*scale, float64(s.Height())*scale)
		dc.Fill()
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save png: %w", err)
	}
	applog.Export("png written to %s", path)
	return nil
}

func setColor(dc *gg.Context, c rgba) {
	dc.SetRGBA255(c.R, c.G, c.B, int(math.Round(c.A*255)))
}

// drawGrid draws dashed lines at a round step across the drawn extent.
func drawGrid(dc *gg.Context, ext extent, scale, offsetX, offsetY float64) {
	step := gridStep(math.Max(ext.width(), ext.height()))

	dc.SetRGB255(211, 211, 211)
	dc.SetLineWidth(0.5)
	dc.SetDash(4, 4)
	for x := math.Ceil(ext.minX/step) * step; x <= ext.maxX; x += step {
		px := offsetX + x*scale
		dc.DrawLine(px, offsetY+ext.minY*scale, px, offsetY+ext.maxY*scale)
		dc.Stroke()
	}
	for y := math.Ceil(ext.minY/step) * step; y <= ext.maxY; y += step {
		py := offsetY + y*scale
		dc.DrawLine(offsetX+ext.minX*scale, py, offsetX+ext.maxX*scale, py)
		dc.Stroke()
	}
	dc.SetDash()
}

// gridStep picks a 1, 2 or 5 times power of ten giving about ten lines.
func gridStep(span float64) float64 {
	raw := span / 10
	if raw <= 1 {
		return 1
	}
	mag := 1.0
	for mag*10 <= raw {
		mag *= 10
	}
	switch n := raw / mag; {
	case n <= 1:
		return mag
	case n <= 2:
		return 2 * mag
	case n <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
