package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/importer"
	"github.com/piwi3910/RectSect/internal/model"
)

// DXF layer names, matching what the importer reads and skips.
const (
	LayerRects         = importer.LayerRects
	LayerIntersections = importer.LayerIntersections
)

// ExportDXF writes every rectangle as a closed LWPOLYLINE on LayerRects and
// every intersection on LayerIntersections. DXF's y axis points up, so y
// values are negated.
func ExportDXF(path string, rects []model.Rectangle, ins []engine.Intersection) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerRects, color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerRects, err)
	}
	for _, r := range rects {
		if err := addRectangle(d, r); err != nil {
			return err
		}
	}

	if len(ins) > 0 {
		if _, err := d.AddLayer(LayerIntersections, color.Red, table.LT_HIDDEN, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", LayerIntersections, err)
		}
		for _, in := range ins {
			if err := addRectangle(d, in.Shape()); err != nil {
				return err
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save dxf: %w", err)
	}
	applog.Export("dxf written to %s", path)
	return nil
}

func addRectangle(d *drawing.Drawing, r model.Rectangle) error {
	left, right := float64(r.Left()), float64(r.Right())
	top, bottom := -float64(r.Top()), -float64(r.Bottom())
	_, err := d.LwPolyline(true,
		[]float64{left, top},
		[]float64{right, top},
		[]float64{right, bottom},
		[]float64{left, bottom},
	)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", r, err)
	}
	return nil
}
