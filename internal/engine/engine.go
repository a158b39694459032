package engine

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/model"
)

// Engine owns an id-keyed rectangle collection and finds every non-empty
// intersection among its members. It is read-only after construction, so
// IntersectAll may be called concurrently.
type Engine struct {
	Settings model.IntersectSettings
	rects    []model.Rectangle // ascending by id
	index    *spatialIndex
}

// New builds an engine with DefaultSettings.
func New(rects []model.Rectangle) (*Engine, error) {
	return NewWithSettings(rects, model.DefaultSettings())
}

// NewWithSettings inserts rects one at a time and fails on the first id
// that is repeated, zero, or undefined.
func NewWithSettings(rects []model.Rectangle, settings model.IntersectSettings) (*Engine, error) {
	seen := make(map[model.ID]bool, len(rects))
	owned := make([]model.Rectangle, 0, len(rects))
	for _, r := range rects {
		id := r.ID()
		if id == 0 || id == model.IDUndefined {
			return nil, &model.Error{Kind: model.KindInvalidID, ID: id}
		}
		if seen[id] {
			return nil, model.DuplicateIDError(id)
		}
		seen[id] = true
		owned = append(owned, r)
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].Less(owned[j])
	})

	return &Engine{
		Settings: settings,
		rects:    owned,
		index:    newSpatialIndex(owned),
	}, nil
}

// RectangleCount returns the number of rectangles.
func (e *Engine) RectangleCount() int {
	return len(e.rects)
}

// Rectangles returns a snapshot of all rectangles in id order.
func (e *Engine) Rectangles() []model.Rectangle {
	out := make([]model.Rectangle, len(e.rects))
	copy(out, e.rects)
	return out
}

// RectangleAt returns the index-th rectangle in id order.
func (e *Engine) RectangleAt(index int) (model.Rectangle, error) {
	if index < 0 || index >= len(e.rects) {
		return model.Rectangle{}, model.IndexError(index, len(e.rects))
	}
	return e.rects[index], nil
}

// Rectangle looks a rectangle up by id.
func (e *Engine) Rectangle(id model.ID) (model.Rectangle, bool) {
	i := sort.Search(len(e.rects), func(i int) bool {
		return e.rects[i].ID() >= id
	})
	if i < len(e.rects) && e.rects[i].ID() == id {
		return e.rects[i], true
	}
	return model.Rectangle{}, false
}

func (e *Engine) workers() int {
	if e.Settings.Workers < 1 {
		return 1
	}
	return e.Settings.Workers
}

// IntersectAll returns every intersection with a non-empty region, from
// pairs up to the highest order allowed by Settings.MaxOrder, without
// duplicates and ordered by Intersection.Less. It returns an empty slice
// when fewer than two rectangles overlap.
func (e *Engine) IntersectAll() []Intersection {
	pairs := e.pairwiseIntersections()
	if len(pairs) == 0 {
		applog.Engine("no pairwise intersections among %d rectangles", len(e.rects))
		return []Intersection{}
	}

	result := e.closure(pairs)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Less(result[j])
	})
	applog.Engine("%d intersections among %d rectangles", len(result), len(e.rects))
	return result
}

// pairwiseIntersections finds all 2-member intersections. Rows (one per
// rectangle, pairing it with every later rectangle) are independent and are
// spread over the worker group; they are concatenated in row order.
func (e *Engine) pairwiseIntersections() []Intersection {
	if len(e.rects) < 2 || !e.Settings.OrderAllowed(2) {
		return nil
	}

	rows := make([][]Intersection, len(e.rects))
	var g errgroup.Group
	g.SetLimit(e.workers())
	for i := range e.rects {
		g.Go(func() error {
			rows[i] = e.pairRow(i)
			return nil
		})
	}
	_ = g.Wait()

	var pairs []Intersection
	for _, row := range rows {
		pairs = append(pairs, row...)
	}
	applog.Engine("pairwise: %d intersections", len(pairs))
	return pairs
}

func (e *Engine) pairRow(i int) []Intersection {
	a := e.rects[i]
	var row []Intersection
	for _, j := range e.index.candidates(a) {
		if j <= i {
			continue
		}
		b := e.rects[j]
		shape, ok := model.Intersection(a, b)
		if !ok {
			continue
		}
		row = append(row, newIntersection(shape, []model.ID{a.ID(), b.ID()}))
	}
	return row
}

// closure grows pairs into all higher-order intersections. Each generation
// extends the previous generation's discoveries (the frontier) by one
// rectangle that is not yet a member; a member set that was already
// materialised through another path is dropped. The search stops when a
// generation discovers nothing, which happens after at most N-1 generations
// because member sets grow by one each time.
func (e *Engine) closure(pairs []Intersection) []Intersection {
	result := make([]Intersection, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if seen[p.key] {
			continue
		}
		seen[p.key] = true
		result = append(result, p)
	}

	frontier := result
	for generation := 3; len(frontier) > 0; generation++ {
		if !e.Settings.OrderAllowed(generation) {
			applog.Engine("stopping before order %d (max order %d)", generation, e.Settings.MaxOrder)
			break
		}

		expansions := e.expandFrontier(frontier)

		var next []Intersection
		for _, candidates := range expansions {
			for _, c := range candidates {
				if seen[c.key] {
					continue
				}
				seen[c.key] = true
				result = append(result, c)
				next = append(next, c)
			}
		}
		applog.Engine("order %d: %d new intersections", generation, len(next))
		frontier = next
	}
	return result
}

// expandFrontier computes, for every frontier entry, its extensions by one
// more rectangle. Entries are independent and run on the worker group;
// the returned slice is indexed like frontier so merging stays
// deterministic.
func (e *Engine) expandFrontier(frontier []Intersection) [][]Intersection {
	out := make([][]Intersection, len(frontier))
	var g errgroup.Group
	g.SetLimit(e.workers())
	for i := range frontier {
		g.Go(func() error {
			out[i] = e.extend(frontier[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// extend iterates the keyed collection directly, so ids need not be a
// dense 1..N range.
func (e *Engine) extend(f Intersection) []Intersection {
	var out []Intersection
	for _, pos := range e.index.candidates(f.shape) {
		r := e.rects[pos]
		if f.Contains(r.ID()) {
			continue
		}
		shape, ok := model.Intersection(f.shape, r)
		if !ok {
			continue
		}
		out = append(out, f.extend(shape, r.ID()))
	}
	return out
}
