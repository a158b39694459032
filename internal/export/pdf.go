package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	tableRowH    = 6.0
)

// ExportPDF generates a PDF with a scaled drawing of the rectangles and
// their intersections, a table of every intersection, and a summary page.
func ExportPDF(path string, rects []model.Rectangle, ins []engine.Intersection, summary model.Summary, style model.RenderStyle) error {
	if len(rects) == 0 {
		return fmt.Errorf("no rectangles to export")
	}

	pal := newPalette(style)
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderDrawingPage(pdf, rects, ins, pal)

	pdf.AddPage()
	renderIntersectionTable(pdf, ins)

	pdf.AddPage()
	renderSummaryPage(pdf, summary)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return err
	}
	applog.Export("pdf written to %s", path)
	return nil
}

// renderDrawingPage draws every rectangle outlined in its palette colour and
// shades each intersection by order.
func renderDrawingPage(pdf *fpdf.Fpdf, rects []model.Rectangle, ins []engine.Intersection, pal palette) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%d rectangles, %d intersections", len(rects), len(ins))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	ext := extentOf(rects)
	scale, offsetX, offsetY := ext.fit(marginLeft, drawAreaTop, drawWidth, drawHeight)

	// Canvas background
	pdf.SetFillColor(pal.background.R, pal.background.G, pal.background.B)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX+ext.minX*scale, offsetY+ext.minY*scale, ext.width()*scale, ext.height()*scale, "FD")

	for _, in := range ins {
		s := in.Shape()
		c := pal.forOrder(in.Order())
		pdf.SetAlpha(c.A, "Normal")
		pdf.SetFillColor(c.R, c.G, c.B)
		pdf.Rect(offsetX+float64(s.Left())*scale, offsetY+float64(s.Top())*scale,
			float64(s.Width())*scale, float64(s.Height())*scale, "F")
	}
	pdf.SetAlpha(1, "Normal")

	for i, r := range rects {
		c := pal.forRectangle(i)
		rx := offsetX + float64(r.Left())*scale
		ry := offsetY + float64(r.Top())*scale
		rw := float64(r.Width()) * scale
		rh := float64(r.Height()) * scale

		pdf.SetDrawColor(c.R, c.G, c.B)
		pdf.SetLineWidth(0.4)
		pdf.Rect(rx, ry, rw, rh, "D")

		if rw > 6 && rh > 5 {
			pdf.SetFont("Helvetica", "B", labelFontSize(rw, rh))
			pdf.SetTextColor(c.R, c.G, c.B)
			pdf.SetXY(rx+1, ry+1)
			pdf.CellFormat(10, 4, fmt.Sprintf("%d", r.ID()), "", 0, "L", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)

	drawExtentAnnotations(pdf, ext, scale, offsetX+ext.minX*scale, offsetY+ext.minY*scale)
	drawLegend(pdf, rects, pal, offsetY+ext.maxY*scale+7)
}

// drawExtentAnnotations labels the drawn area's origin and size.
func drawExtentAnnotations(pdf *fpdf.Fpdf, ext extent, scale, x, y float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	canvasW := ext.width() * scale
	canvasH := ext.height() * scale

	widthLabel := fmt.Sprintf("%.0f", ext.width())
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(x+(canvasW-wLabelW)/2, y+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f", ext.height())
	pdf.TransformBegin()
	pdf.TransformRotate(90, x-3, y+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(x-3-hLabelW/2, y+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	origin := fmt.Sprintf("(%.0f,%.0f)", ext.minX, ext.minY)
	pdf.SetXY(x, y-5)
	pdf.CellFormat(pdf.GetStringWidth(origin)+1, 4, origin, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders one colour swatch per rectangle.
func drawLegend(pdf *fpdf.Fpdf, rects []model.Rectangle, pal palette, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Rectangles:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, r := range rects {
		c := pal.forRectangle(i)
		label := fmt.Sprintf("%d (%dx%d @ %d,%d)", r.ID(), r.Width(), r.Height(), r.Left(), r.Top())
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			break
		}

		pdf.SetFillColor(c.R, c.G, c.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderIntersectionTable lists every intersection, continuing onto new
// pages as needed.
func renderIntersectionTable(pdf *fpdf.Fpdf, ins []engine.Intersection) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Intersections", "", 0, "L", false, 0, "")

	y := marginTop + 14
	if len(ins) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 6, "No intersections found.", "", 0, "L", false, 0, "")
		return
	}

	colWidths := []float64{90, 20, 35, 35, 30, 30, 27}
	headers := []string{"Rectangles", "Order", "X", "Y", "Width", "Height", "Area"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], tableRowH, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += tableRowH
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, in := range ins {
		if y+tableRowH > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		s := in.Shape()
		rowData := []string{
			engine.MemberList(in.Members()),
			fmt.Sprintf("%d", in.Order()),
			fmt.Sprintf("%d", s.Left()),
			fmt.Sprintf("%d", s.Top()),
			fmt.Sprintf("%d", s.Width()),
			fmt.Sprintf("%d", s.Height()),
			fmt.Sprintf("%d", s.Area()),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], tableRowH, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += tableRowH
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, summary model.Summary) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Intersection Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Rectangles", fmt.Sprintf("%d", summary.RectangleCount)},
		{"Intersections", fmt.Sprintf("%d", summary.IntersectionCount)},
		{"Highest Order", fmt.Sprintf("%d", summary.HighestOrder)},
		{"Total Input Area", fmt.Sprintf("%d", summary.TotalInputArea)},
	}
	if summary.Largest != nil {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Largest Intersection", recordLabel(*summary.Largest)})
	}
	if summary.Smallest != nil {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Smallest Intersection", recordLabel(*summary.Smallest)})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(summary.ByOrder) > 0 {
		y += 5
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "By Order", "", 0, "L", false, 0, "")
		y += 9

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(30, tableRowH, "Order", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, tableRowH, "Count", "1", 0, "C", true, 0, "")
		y += tableRowH

		pdf.SetFont("Helvetica", "", 9)
		for _, oc := range summary.ByOrder {
			if y+tableRowH > pageHeight-marginBottom-5 {
				break
			}
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(30, tableRowH, fmt.Sprintf("%d", oc.Order), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, tableRowH, fmt.Sprintf("%d", oc.Count), "1", 0, "C", false, 0, "")
			y += tableRowH
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by RectSect - Rectangle Intersection Finder", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
