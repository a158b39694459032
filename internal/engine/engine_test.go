package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RectSect/internal/model"
)

func rect(id model.ID, x, y int32, w, h uint32) model.Rectangle {
	return model.MustRectangle(id, x, y, w, h)
}

func shape(x, y int32, w, h uint32) model.Rectangle {
	return model.MustRectangle(model.IDUndefined, x, y, w, h)
}

// exampleRectangles is the four-rectangle sample from the exercise
// description.
func exampleRectangles() []model.Rectangle {
	return []model.Rectangle{
		rect(1, 100, 100, 250, 80),
		rect(2, 120, 200, 250, 150),
		rect(3, 140, 160, 250, 100),
		rect(4, 160, 140, 350, 190),
	}
}

func tiledRectangles() []model.Rectangle {
	return []model.Rectangle{
		rect(1, -120, -120, 120, 120),
		rect(2, 0, -120, 120, 120),
		rect(3, -120, 0, 120, 120),
		rect(4, 0, 0, 120, 120),
		rect(5, -280, -280, 120, 120),
		rect(6, 120, -280, 120, 120),
		rect(7, -280, 160, 120, 120),
		rect(8, 120, 160, 120, 120),
	}
}

func nestedRectangles() []model.Rectangle {
	return []model.Rectangle{
		rect(1, -160, -290, 240, 240),
		rect(2, -230, -360, 385, 385),
		rect(3, -325, -450, 570, 570),
		rect(4, -390, -520, 700, 700),
	}
}

type expected struct {
	members []model.ID
	shape   model.Rectangle
}

func assertIntersections(t *testing.T, want []expected, got []Intersection) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.members, got[i].Members(), "intersection %d members", i)
		assert.True(t, w.shape.Equal(got[i].Shape()), "intersection %d shape: want %v got %v", i, w.shape, got[i].Shape())
	}
}

func mustEngine(t *testing.T, rects []model.Rectangle) *Engine {
	t.Helper()
	e, err := New(rects)
	require.NoError(t, err)
	return e
}

func TestNew_CountsRectangles(t *testing.T) {
	rects := []model.Rectangle{
		rect(1, 100, 100, 250, 80),
		rect(2, 100, 100, 260, 80),
		rect(3, 100, 100, 270, 80),
		rect(4, 100, 100, 280, 80),
	}
	e := mustEngine(t, rects)
	assert.Equal(t, 4, e.RectangleCount())
	assert.Len(t, e.Rectangles(), 4)
}

func TestNew_DuplicateID(t *testing.T) {
	rects := []model.Rectangle{
		rect(1, 100, 100, 250, 80),
		rect(2, 100, 100, 260, 80),
		rect(1, 100, 100, 250, 80),
	}
	_, err := New(rects)
	require.ErrorIs(t, err, model.ErrDuplicateID)

	var rerr *model.Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, model.ID(1), rerr.ID)
	assert.Contains(t, err.Error(), "duplicate ID: 1")
}

func TestNew_RejectsUndefinedAndZeroIDs(t *testing.T) {
	_, err := New([]model.Rectangle{shape(0, 0, 10, 10)})
	assert.ErrorIs(t, err, model.ErrInvalidID)

	_, err = New([]model.Rectangle{{}})
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestNew_SortsByID(t *testing.T) {
	e := mustEngine(t, []model.Rectangle{
		rect(3, 0, 0, 10, 10),
		rect(1, 5, 5, 10, 10),
		rect(2, 8, 8, 10, 10),
	})
	for i := 0; i < 3; i++ {
		r, err := e.RectangleAt(i)
		require.NoError(t, err)
		assert.Equal(t, model.ID(i+1), r.ID())
	}
}

func TestRectangleAt_OutOfRange(t *testing.T) {
	e := mustEngine(t, exampleRectangles())

	_, err := e.RectangleAt(4)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	_, err = e.RectangleAt(-1)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

func TestRectanglesIsSnapshot(t *testing.T) {
	e := mustEngine(t, exampleRectangles())
	snap := e.Rectangles()
	snap[0] = rect(99, 0, 0, 1, 1)

	r, err := e.RectangleAt(0)
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), r.ID())
}

func TestRectangleByID(t *testing.T) {
	e := mustEngine(t, []model.Rectangle{rect(10, 0, 0, 5, 5), rect(20, 1, 1, 5, 5)})

	r, ok := e.Rectangle(20)
	require.True(t, ok)
	assert.Equal(t, int32(1), r.Left())

	_, ok = e.Rectangle(15)
	assert.False(t, ok)
}

func TestPairwise_Example(t *testing.T) {
	e := mustEngine(t, exampleRectangles())
	pairs := e.pairwiseIntersections()

	assertIntersections(t, []expected{
		{[]model.ID{1, 3}, shape(140, 160, 210, 20)},
		{[]model.ID{1, 4}, shape(160, 140, 190, 40)},
		{[]model.ID{2, 3}, shape(140, 200, 230, 60)},
		{[]model.ID{2, 4}, shape(160, 200, 210, 130)},
		{[]model.ID{3, 4}, shape(160, 160, 230, 100)},
	}, pairs)
}

func TestPairwise_NoneForTiles(t *testing.T) {
	e := mustEngine(t, tiledRectangles())
	assert.Empty(t, e.pairwiseIntersections())
}

func TestPairwise_OneAndZeroRectangles(t *testing.T) {
	assert.Empty(t, mustEngine(t, []model.Rectangle{rect(1, -110, -100, 240, 240)}).pairwiseIntersections())
	assert.Empty(t, mustEngine(t, nil).pairwiseIntersections())
}

func TestIntersectAll_Example(t *testing.T) {
	e := mustEngine(t, exampleRectangles())

	assertIntersections(t, []expected{
		{[]model.ID{1, 3}, shape(140, 160, 210, 20)},
		{[]model.ID{1, 4}, shape(160, 140, 190, 40)},
		{[]model.ID{2, 3}, shape(140, 200, 230, 60)},
		{[]model.ID{2, 4}, shape(160, 200, 210, 130)},
		{[]model.ID{3, 4}, shape(160, 160, 230, 100)},
		{[]model.ID{1, 3, 4}, shape(160, 160, 190, 20)},
		{[]model.ID{2, 3, 4}, shape(160, 200, 210, 60)},
	}, e.IntersectAll())
}

func TestIntersectAll_NoIntersections(t *testing.T) {
	got := mustEngine(t, tiledRectangles()).IntersectAll()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestIntersectAll_ZeroAndOneRectangle(t *testing.T) {
	assert.Empty(t, mustEngine(t, nil).IntersectAll())
	assert.Empty(t, mustEngine(t, []model.Rectangle{rect(1, 100, 100, 250, 80)}).IntersectAll())
}

func TestIntersectAll_AllMutuallyOverlapping(t *testing.T) {
	rects := nestedRectangles()
	e := mustEngine(t, rects)

	assertIntersections(t, []expected{
		{[]model.ID{1, 2}, rects[0]},
		{[]model.ID{1, 3}, rects[0]},
		{[]model.ID{1, 4}, rects[0]},
		{[]model.ID{2, 3}, rects[1]},
		{[]model.ID{2, 4}, rects[1]},
		{[]model.ID{3, 4}, rects[2]},
		{[]model.ID{1, 2, 3}, rects[0]},
		{[]model.ID{1, 2, 4}, rects[0]},
		{[]model.ID{1, 3, 4}, rects[0]},
		{[]model.ID{2, 3, 4}, rects[1]},
		{[]model.ID{1, 2, 3, 4}, rects[0]},
	}, e.IntersectAll())
}

func TestIntersectAll_OnlyPairwise(t *testing.T) {
	e := mustEngine(t, []model.Rectangle{
		rect(1, -220, -210, 120, 120),
		rect(2, -150, -150, 120, 120),
		rect(3, 40, 30, 120, 120),
		rect(4, 110, 90, 120, 120),
	})

	assertIntersections(t, []expected{
		{[]model.ID{1, 2}, shape(-150, -150, 50, 60)},
		{[]model.ID{3, 4}, shape(110, 90, 50, 60)},
	}, e.IntersectAll())
}

func TestIntersectAll_CompleteForFullOverlap(t *testing.T) {
	for n := 2; n <= 8; n++ {
		rects := make([]model.Rectangle, n)
		for i := range rects {
			// Shifted squares that all share the region [n, 100) on both axes.
			rects[i] = rect(model.ID(i+1), int32(i), int32(i), 100, 100)
		}
		got := mustEngine(t, rects).IntersectAll()
		want := (1 << n) - n - 1
		assert.Len(t, got, want, "n=%d", n)
	}
}

func TestIntersectAll_SparseIDs(t *testing.T) {
	e := mustEngine(t, []model.Rectangle{
		rect(9, 0, 0, 100, 100),
		rect(2, 10, 10, 100, 100),
		rect(5, 20, 20, 100, 100),
		rect(40, 500, 500, 10, 10),
	})

	assertIntersections(t, []expected{
		{[]model.ID{2, 5}, shape(20, 20, 90, 90)},
		{[]model.ID{2, 9}, shape(10, 10, 90, 90)},
		{[]model.ID{5, 9}, shape(20, 20, 80, 80)},
		{[]model.ID{2, 5, 9}, shape(20, 20, 80, 80)},
	}, e.IntersectAll())
}

func TestIntersectAll_Idempotent(t *testing.T) {
	e := mustEngine(t, exampleRectangles())
	first := e.IntersectAll()
	second := e.IntersectAll()
	assert.Equal(t, first, second)
}

func TestIntersectAll_DoesNotMutateEngine(t *testing.T) {
	rects := exampleRectangles()
	e := mustEngine(t, rects)
	_ = e.IntersectAll()
	assert.Equal(t, rects, e.Rectangles())
}

func TestIntersectAll_MaxOrder(t *testing.T) {
	rects := nestedRectangles()

	cases := []struct {
		maxOrder int
		want     int
	}{
		{0, 11},
		{1, 0},
		{2, 6},
		{3, 10},
		{4, 11},
		{10, 11},
	}
	for _, c := range cases {
		s := model.DefaultSettings()
		s.MaxOrder = c.maxOrder
		e, err := NewWithSettings(rects, s)
		require.NoError(t, err)
		got := e.IntersectAll()
		assert.Len(t, got, c.want, "max order %d", c.maxOrder)
		for _, in := range got {
			if c.maxOrder > 0 {
				assert.LessOrEqual(t, in.Order(), c.maxOrder)
			}
		}
	}
}

func randomRectangles(rng *rand.Rand, n int) []model.Rectangle {
	rects := make([]model.Rectangle, n)
	for i := range rects {
		rects[i] = rect(model.ID(i+1),
			int32(rng.Intn(200)-100), int32(rng.Intn(200)-100),
			uint32(rng.Intn(120)+1), uint32(rng.Intn(120)+1))
	}
	return rects
}

// bruteForce folds every subset of size >= 2 and keeps the non-empty ones.
func bruteForce(rects []model.Rectangle) map[string]model.Rectangle {
	out := make(map[string]model.Rectangle)
	n := len(rects)
	for mask := 1; mask < 1<<n; mask++ {
		var ids []model.ID
		var acc model.Rectangle
		ok := true
		for i := 0; i < n && ok; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			if len(ids) == 0 {
				acc = rects[i]
			} else {
				acc, ok = model.Intersection(acc, rects[i])
			}
			ids = append(ids, rects[i].ID())
		}
		if ok && len(ids) >= 2 {
			out[memberKey(ids)] = acc
		}
	}
	return out
}

func TestIntersectAll_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 25; round++ {
		rects := randomRectangles(rng, 2+rng.Intn(8))
		want := bruteForce(rects)
		got := mustEngine(t, rects).IntersectAll()

		require.Len(t, got, len(want), "round %d", round)
		for _, in := range got {
			w, ok := want[in.Key()]
			require.True(t, ok, "round %d: unexpected %s", round, in.Key())
			assert.True(t, w.Equal(in.Shape()), "round %d: shape of %s", round, in.Key())
		}
	}
}

func TestIntersectAll_OrderingAndDedup(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	got := mustEngine(t, randomRectangles(rng, 12)).IntersectAll()

	seen := make(map[string]bool)
	for i, in := range got {
		assert.False(t, seen[in.Key()], "duplicate member set %s", in.Key())
		seen[in.Key()] = true
		assert.GreaterOrEqual(t, in.Order(), 2)
		if i > 0 {
			assert.True(t, got[i-1].Less(in), "%s should sort before %s", got[i-1].Key(), in.Key())
		}
	}
}

func TestIntersectAll_WorkersMatchSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	rects := randomRectangles(rng, 14)

	serial := mustEngine(t, rects).IntersectAll()

	s := model.DefaultSettings()
	s.Workers = 8
	parallel, err := NewWithSettings(rects, s)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel.IntersectAll())
}
