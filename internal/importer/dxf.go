package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/RectSect/internal/applog"
)

// Layer names shared with the DXF exporter. Shapes on LayerIntersections
// are results, not input, and are never read back.
const (
	LayerRects         = "RECTS"
	LayerIntersections = "INTERSECTIONS"
)

// ImportDXF imports rectangles from a DXF file. Every LWPOLYLINE that
// traces an axis-aligned rectangle with integral corners becomes one
// rectangle, unless it sits on LayerIntersections. DXF's y axis points up,
// so y values are negated to get the top-left corner in screen coordinates.
func ImportDXF(path string, maxRectangles int) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var parsed []pending
	skipped, results := 0, 0
	for _, ent := range entities {
		lw, ok := ent.(*entity.LwPolyline)
		if !ok {
			// Only polylines can describe rectangles
			continue
		}
		if layer := lw.Layer(); layer != nil && layer.Name() == LayerIntersections {
			results++
			continue
		}
		p, ok := lwPolylineToRect(lw)
		if !ok {
			skipped++
			continue
		}
		parsed = append(parsed, p)
	}

	if results > 0 {
		applog.Load("ignored %d shapes on layer %s", results, LayerIntersections)
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d LWPOLYLINE(s) that are not axis-aligned integer rectangles", skipped))
	}
	if len(parsed) == 0 {
		result.Errors = append(result.Errors, "No rectangles found in DXF file")
		return result
	}

	return finish(result, parsed, maxRectangles)
}

// lwPolylineToRect accepts four corners, optionally followed by a repeat of
// the first, without bulges.
func lwPolylineToRect(lw *entity.LwPolyline) (pending, bool) {
	verts := lw.Vertices
	if len(verts) == 5 && samePoint(verts[0], verts[4]) {
		verts = verts[:4]
	}
	if len(verts) != 4 {
		return pending{}, false
	}
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			return pending{}, false
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range verts {
		if len(v) < 2 {
			return pending{}, false
		}
		minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
		minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
	}

	// Every vertex must sit on a bounding-box corner, and consecutive
	// vertices must share an x or a y.
	for i, v := range verts {
		onX := v[0] == minX || v[0] == maxX
		onY := v[1] == minY || v[1] == maxY
		if !onX || !onY {
			return pending{}, false
		}
		next := verts[(i+1)%4]
		if v[0] != next[0] && v[1] != next[1] {
			return pending{}, false
		}
	}

	for _, f := range []float64{minX, maxX, minY, maxY} {
		if f != math.Trunc(f) || math.Abs(f) > 1<<40 {
			return pending{}, false
		}
	}

	p, err := newPending(int64(minX), -int64(maxY), int64(maxX-minX), int64(maxY-minY))
	if err != nil {
		return pending{}, false
	}
	return p, true
}

func samePoint(a, b []float64) bool {
	return len(a) >= 2 && len(b) >= 2 && a[0] == b[0] && a[1] == b[1]
}
