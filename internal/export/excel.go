package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/model"
)

// Sheet names used by ExportExcel.
const (
	SheetRectangles    = "Rectangles"
	SheetIntersections = "Intersections"
	SheetSummary       = "Summary"
)

// ExportExcel writes a workbook with one sheet each for the input
// rectangles, the intersections and the run summary.
func ExportExcel(path string, rects []model.Rectangle, ins []engine.Intersection, summary model.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRectangles); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetIntersections, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rectRows := [][]interface{}{{"ID", "X", "Y", "Width", "Height", "Area"}}
	for _, r := range rects {
		rectRows = append(rectRows, []interface{}{
			uint32(r.ID()), r.Left(), r.Top(), r.Width(), r.Height(), r.Area(),
		})
	}

	inRows := [][]interface{}{{"Members", "Order", "X", "Y", "Width", "Height", "Area"}}
	for _, in := range ins {
		s := in.Shape()
		inRows = append(inRows, []interface{}{
			engine.MemberList(in.Members()), in.Order(), s.Left(), s.Top(), s.Width(), s.Height(), s.Area(),
		})
	}

	sumRows := [][]interface{}{
		{"Statistic", "Value"},
		{"Rectangles", summary.RectangleCount},
		{"Intersections", summary.IntersectionCount},
		{"Highest order", summary.HighestOrder},
		{"Total input area", summary.TotalInputArea},
	}
	for _, oc := range summary.ByOrder {
		sumRows = append(sumRows, []interface{}{fmt.Sprintf("Order %d", oc.Order), oc.Count})
	}
	if summary.Largest != nil {
		sumRows = append(sumRows, []interface{}{"Largest", recordLabel(*summary.Largest)})
	}
	if summary.Smallest != nil {
		sumRows = append(sumRows, []interface{}{"Smallest", recordLabel(*summary.Smallest)})
	}

	for _, sheet := range []struct {
		name  string
		rows  [][]interface{}
		width float64
	}{
		{SheetRectangles, rectRows, 12},
		{SheetIntersections, inRows, 14},
		{SheetSummary, sumRows, 24},
	} {
		if err := writeRows(f, sheet.name, sheet.rows, header, sheet.width); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	applog.Export("workbook written to %s (%d rectangles, %d intersections)", path, len(rects), len(ins))
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int, width float64) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, width)
}

func recordLabel(rec model.IntersectionRecord) string {
	return fmt.Sprintf("%s (area %d)", engine.MemberList(rec.Members), rec.Shape.Area())
}
