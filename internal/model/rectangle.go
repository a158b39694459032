package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// ID identifies a rectangle within a collection.
type ID uint32

// IDUndefined marks a derived shape (such as an intersection result) that
// has no identity of its own.
const IDUndefined ID = math.MaxUint32

// Vertex is an integer coordinate pair. Y grows downward.
type Vertex struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (v Vertex) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Vertices holds the four corners of a rectangle.
type Vertices struct {
	TopLeft     Vertex `json:"top_left"`
	TopRight    Vertex `json:"top_right"`
	BottomLeft  Vertex `json:"bottom_left"`
	BottomRight Vertex `json:"bottom_right"`
}

// Rectangle is an immutable axis-aligned rectangle. All four corners are
// derived once at construction.
type Rectangle struct {
	id       ID
	vertices Vertices
	width    uint32
	height   uint32
}

// NewRectangle validates its arguments and derives the remaining corners.
// The sentinel IDUndefined is always accepted; zero is not.
func NewRectangle(id ID, topLeft Vertex, width, height uint32) (Rectangle, error) {
	if width == 0 || height == 0 {
		return Rectangle{}, &Error{Kind: KindDimension}
	}
	if int64(topLeft.X)+int64(width) > math.MaxInt32 {
		return Rectangle{}, &Error{Kind: KindBounds, Axis: "X"}
	}
	if int64(topLeft.Y)+int64(height) > math.MaxInt32 {
		return Rectangle{}, &Error{Kind: KindBounds, Axis: "Y"}
	}
	if id == 0 {
		return Rectangle{}, &Error{Kind: KindInvalidID, ID: id}
	}

	right := topLeft.X + int32(width)
	bottom := topLeft.Y + int32(height)
	v := Vertices{
		TopLeft:     topLeft,
		TopRight:    Vertex{X: right, Y: topLeft.Y},
		BottomLeft:  Vertex{X: topLeft.X, Y: bottom},
		BottomRight: Vertex{X: right, Y: bottom},
	}
	if !v.valid() {
		panic(fmt.Sprintf("model: corner derivation broke invariants for %+v", v))
	}

	return Rectangle{id: id, vertices: v, width: width, height: height}, nil
}

// MustRectangle is NewRectangle for literals known to be valid. It panics
// on error.
func MustRectangle(id ID, x, y int32, width, height uint32) Rectangle {
	r, err := NewRectangle(id, Vertex{X: x, Y: y}, width, height)
	if err != nil {
		panic(err)
	}
	return r
}

func (v Vertices) valid() bool {
	return v.BottomLeft.Y == v.BottomRight.Y &&
		v.TopLeft.Y == v.TopRight.Y &&
		v.BottomLeft.X == v.TopLeft.X &&
		v.BottomRight.X == v.TopRight.X &&
		v.BottomLeft.X < v.TopRight.X &&
		v.BottomLeft.Y > v.TopRight.Y
}

func (r Rectangle) ID() ID             { return r.id }
func (r Rectangle) Vertices() Vertices { return r.vertices }
func (r Rectangle) TopLeft() Vertex    { return r.vertices.TopLeft }
func (r Rectangle) Width() uint32      { return r.width }
func (r Rectangle) Height() uint32     { return r.height }

// Left, Right, Top and Bottom return the edge coordinates.
func (r Rectangle) Left() int32   { return r.vertices.TopLeft.X }
func (r Rectangle) Right() int32  { return r.vertices.TopRight.X }
func (r Rectangle) Top() int32    { return r.vertices.TopLeft.Y }
func (r Rectangle) Bottom() int32 { return r.vertices.BottomLeft.Y }

// Area returns width*height without overflow.
func (r Rectangle) Area() uint64 {
	return uint64(r.width) * uint64(r.height)
}

// WithID returns a copy of r carrying id.
func (r Rectangle) WithID(id ID) (Rectangle, error) {
	if id == 0 {
		return Rectangle{}, &Error{Kind: KindInvalidID, ID: id}
	}
	r.id = id
	return r, nil
}

// Equal compares geometry only; ids are ignored.
func (r Rectangle) Equal(other Rectangle) bool {
	return r.vertices.TopLeft == other.vertices.TopLeft &&
		r.width == other.width &&
		r.height == other.height
}

// Less orders rectangles by id.
func (r Rectangle) Less(other Rectangle) bool {
	return r.id < other.id
}

// Contains reports whether other lies entirely inside r.
func (r Rectangle) Contains(other Rectangle) bool {
	return other.Left() >= r.Left() && other.Right() <= r.Right() &&
		other.Top() >= r.Top() && other.Bottom() <= r.Bottom()
}

// Intersect is the method form of Intersection.
func (r Rectangle) Intersect(other Rectangle) (Rectangle, bool) {
	return Intersection(r, other)
}

// Intersection returns the overlap of a and b. Overlaps must have strictly
// positive area, so rectangles that only share an edge do not intersect.
// The result carries IDUndefined.
func Intersection(a, b Rectangle) (Rectangle, bool) {
	left := max(a.Left(), b.Left())
	right := min(a.Right(), b.Right())
	top := max(a.Top(), b.Top())
	bottom := min(a.Bottom(), b.Bottom())

	if left >= right || bottom <= top {
		return Rectangle{}, false
	}

	shape, err := NewRectangle(IDUndefined, Vertex{X: left, Y: top},
		uint32(int64(right)-int64(left)), uint32(int64(bottom)-int64(top)))
	if err != nil {
		// Edges come from valid rectangles, so the overlap is always valid.
		panic(fmt.Sprintf("model: intersection of %v and %v: %v", a, b, err))
	}
	return shape, true
}

func (r Rectangle) String() string {
	tl := r.vertices.TopLeft
	if r.id == IDUndefined {
		return fmt.Sprintf("Rectangle at (%d,%d), w=%d, h=%d.", tl.X, tl.Y, r.width, r.height)
	}
	return fmt.Sprintf("%d: Rectangle at (%d,%d), w=%d, h=%d.", r.id, tl.X, tl.Y, r.width, r.height)
}

// rectangleJSON is the wire form used by reports: the input document's
// x/y/w/h fields plus the id.
type rectangleJSON struct {
	ID ID     `json:"id"`
	X  int32  `json:"x"`
	Y  int32  `json:"y"`
	W  uint32 `json:"w"`
	H  uint32 `json:"h"`
}

func (r Rectangle) MarshalJSON() ([]byte, error) {
	tl := r.vertices.TopLeft
	return json.Marshal(rectangleJSON{ID: r.id, X: tl.X, Y: tl.Y, W: r.width, H: r.height})
}

// UnmarshalJSON decodes and validates a rectangle.
func (r *Rectangle) UnmarshalJSON(data []byte) error {
	var raw rectangleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rect, err := NewRectangle(raw.ID, Vertex{X: raw.X, Y: raw.Y}, raw.W, raw.H)
	if err != nil {
		return err
	}
	*r = rect
	return nil
}
