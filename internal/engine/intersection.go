package engine

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/piwi3910/RectSect/internal/model"
)

// Intersection is the overlap shared by two or more rectangles. Identity,
// equality and ordering are defined by the member set alone; the shape's id
// carries no meaning.
//
// Intersections are only created by the Engine.
type Intersection struct {
	shape   model.Rectangle
	members []model.ID // ascending, at least two entries
	key     string
}

// newIntersection takes ownership of members, which the caller guarantees
// to be ascending, positive and at least two long.
func newIntersection(shape model.Rectangle, members []model.ID) Intersection {
	return Intersection{shape: shape, members: members, key: memberKey(members)}
}

// extend returns the intersection of in's members plus id, with shape as the
// new overlap region.
func (in Intersection) extend(shape model.Rectangle, id model.ID) Intersection {
	pos, _ := slices.BinarySearch(in.members, id)
	members := make([]model.ID, 0, len(in.members)+1)
	members = append(members, in.members[:pos]...)
	members = append(members, id)
	members = append(members, in.members[pos:]...)
	return newIntersection(shape, members)
}

func memberKey(members []model.ID) string {
	var b strings.Builder
	for i, id := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

// Shape returns the overlap region.
func (in Intersection) Shape() model.Rectangle { return in.shape }

// Members returns a copy of the member ids in ascending order.
func (in Intersection) Members() []model.ID {
	return slices.Clone(in.members)
}

// Order is the number of members.
func (in Intersection) Order() int { return len(in.members) }

// Key is a canonical string form of the member set, e.g. "1,3,4".
func (in Intersection) Key() string { return in.key }

// MemberAt returns the index-th member in ascending order.
func (in Intersection) MemberAt(index int) (model.ID, error) {
	if index < 0 || index >= len(in.members) {
		return 0, model.IndexError(index, len(in.members))
	}
	return in.members[index], nil
}

// Contains reports whether id is a member.
func (in Intersection) Contains(id model.ID) bool {
	_, found := slices.BinarySearch(in.members, id)
	return found
}

// Less orders by member count, then lexicographically by member ids.
func (in Intersection) Less(other Intersection) bool {
	if len(in.members) != len(other.members) {
		return len(in.members) < len(other.members)
	}
	return slices.Compare(in.members, other.members) < 0
}

// Record converts the intersection to its serialisable form.
func (in Intersection) Record() model.IntersectionRecord {
	return model.IntersectionRecord{Members: in.Members(), Shape: in.shape}
}

// Records converts a result list for reports.
func Records(ins []Intersection) []model.IntersectionRecord {
	out := make([]model.IntersectionRecord, len(ins))
	for i, in := range ins {
		out[i] = in.Record()
	}
	return out
}

// MemberList renders ids as "1, 3 and 4".
func MemberList(ids []model.ID) string {
	var b strings.Builder
	for i, id := range ids {
		switch {
		case i == 0:
		case i == len(ids)-1:
			b.WriteString(" and ")
		default:
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

func (in Intersection) String() string {
	tl := in.shape.TopLeft()
	return fmt.Sprintf("Between rectangle %s at (%d,%d), w=%d, h=%d.",
		MemberList(in.members), tl.X, tl.Y, in.shape.Width(), in.shape.Height())
}
