package engine

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/piwi3910/RectSect/internal/model"
)

// R-tree branching factors.
const (
	indexMinChildren = 4
	indexMaxChildren = 16
)

// indexedRect wraps an engine rectangle for the R-tree. pos is the
// rectangle's position in the engine's id-ordered slice.
type indexedRect struct {
	pos    int
	bounds rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface
func (r *indexedRect) Bounds() rtreego.Rect {
	return r.bounds
}

// spatialIndex narrows the rectangles worth testing against a shape. It may
// return rectangles that only touch the shape; callers always confirm with
// model.Intersection.
type spatialIndex struct {
	tree *rtreego.Rtree
}

func newSpatialIndex(rects []model.Rectangle) *spatialIndex {
	objs := make([]rtreego.Spatial, len(rects))
	for i, r := range rects {
		objs[i] = &indexedRect{pos: i, bounds: boundsOf(r)}
	}
	return &spatialIndex{tree: rtreego.NewTree(2, indexMinChildren, indexMaxChildren, objs...)}
}

// boundsOf converts a rectangle to R-tree bounds. Widths and heights are
// always positive and int32/uint32 values are exact in float64, so NewRect
// cannot fail.
func boundsOf(r model.Rectangle) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{float64(r.Left()), float64(r.Top())},
		[]float64{float64(r.Width()), float64(r.Height())},
	)
	return rect
}

// candidates returns, in ascending order, the positions of rectangles whose
// bounds meet shape.
func (s *spatialIndex) candidates(shape model.Rectangle) []int {
	hits := s.tree.SearchIntersect(boundsOf(shape))
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.(*indexedRect).pos
	}
	sort.Ints(out)
	return out
}
