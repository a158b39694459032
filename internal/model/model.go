package model

import (
	"time"

	"github.com/google/uuid"
)

// IntersectSettings controls the closure search.
type IntersectSettings struct {
	// MaxOrder caps the number of members an intersection may have.
	// Zero or any value >= the rectangle count means unlimited.
	MaxOrder int `json:"max_order"`

	// Workers is the number of goroutines used to expand pairs and
	// frontiers. Values below 1 are treated as 1.
	Workers int `json:"workers"`
}

func DefaultSettings() IntersectSettings {
	return IntersectSettings{
		MaxOrder: 0,
		Workers:  1,
	}
}

// OrderAllowed reports whether an intersection with n members may be
// produced under these settings.
func (s IntersectSettings) OrderAllowed(n int) bool {
	return s.MaxOrder <= 0 || n <= s.MaxOrder
}

// IntersectionRecord is the serialisable form of an intersection.
type IntersectionRecord struct {
	Members []ID      `json:"members"`
	Shape   Rectangle `json:"shape"`
}

// OrderCount is the number of intersections that have Order members.
type OrderCount struct {
	Order int `json:"order"`
	Count int `json:"count"`
}

// Summary holds aggregate statistics for one run.
type Summary struct {
	RectangleCount    int                 `json:"rectangle_count"`
	IntersectionCount int                 `json:"intersection_count"`
	HighestOrder      int                 `json:"highest_order"`
	ByOrder           []OrderCount        `json:"by_order"`
	TotalInputArea    uint64              `json:"total_input_area"`
	Largest           *IntersectionRecord `json:"largest,omitempty"`
	Smallest          *IntersectionRecord `json:"smallest,omitempty"`
}

// CountForOrder returns the number of intersections with the given order.
func (s Summary) CountForOrder(order int) int {
	for _, oc := range s.ByOrder {
		if oc.Order == order {
			return oc.Count
		}
	}
	return 0
}

// Report ties a run together for save/load.
type Report struct {
	ID            string               `json:"id"`
	CreatedAt     string               `json:"created_at"`
	Source        string               `json:"source"`
	Settings      IntersectSettings    `json:"settings"`
	Rectangles    []Rectangle          `json:"rectangles"`
	Intersections []IntersectionRecord `json:"intersections"`
	Summary       Summary              `json:"summary"`
}

func NewReport(source string, settings IntersectSettings) Report {
	return Report{
		ID:            uuid.New().String()[:8],
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Source:        source,
		Settings:      settings,
		Rectangles:    []Rectangle{},
		Intersections: []IntersectionRecord{},
	}
}
