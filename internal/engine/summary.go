package engine

import (
	"github.com/piwi3910/RectSect/internal/model"
)

// Summarize computes aggregate statistics for a result list. ins is
// expected in IntersectAll order; ties for largest and smallest region go
// to the earlier intersection.
func Summarize(rects []model.Rectangle, ins []Intersection) model.Summary {
	s := model.Summary{
		RectangleCount:    len(rects),
		IntersectionCount: len(ins),
		ByOrder:           []model.OrderCount{},
	}

	for _, r := range rects {
		s.TotalInputArea += r.Area()
	}

	var largest, smallest *Intersection
	for i := range ins {
		in := &ins[i]
		order := in.Order()
		if order > s.HighestOrder {
			s.HighestOrder = order
		}
		if n := len(s.ByOrder); n > 0 && s.ByOrder[n-1].Order == order {
			s.ByOrder[n-1].Count++
		} else {
			s.ByOrder = append(s.ByOrder, model.OrderCount{Order: order, Count: 1})
		}

		area := in.shape.Area()
		if largest == nil || area > largest.shape.Area() {
			largest = in
		}
		if smallest == nil || area < smallest.shape.Area() {
			smallest = in
		}
	}

	if largest != nil {
		rec := largest.Record()
		s.Largest = &rec
	}
	if smallest != nil {
		rec := smallest.Record()
		s.Smallest = &rec
	}
	return s
}
