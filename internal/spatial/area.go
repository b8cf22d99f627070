// Package spatial answers "fully contained in rectangle" queries over widgets.
//
// Scan is the reference: a widget is inside an area iff its lower-left corner
// is at or beyond the area's and its upper-right corner is at or before the
// area's. Tree answers the same query through an R-tree and must return the
// same set.
package spatial

import (
	"fmt"

	"github.com/jask/widgetd/internal/widget"
)

// Area is a query rectangle anchored at its lower-left corner.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int

	unbounded bool
}

// Unbounded is the area that disables filtering.
var Unbounded = Area{unbounded: true}

// IsUnbounded reports whether a is the no-filter sentinel.
func (a Area) IsUnbounded() bool { return a.unbounded }

// Degenerate reports whether a encloses no space.
func (a Area) Degenerate() bool { return !a.unbounded && (a.Width <= 0 || a.Height <= 0) }

func (a Area) String() string {
	if a.unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("(%d,%d %dx%d)", a.X, a.Y, a.Width, a.Height)
}

// Contains is the reference containment predicate.
func (a Area) Contains(w widget.Widget) bool {
	if a.unbounded {
		return true
	}
	return w.X >= a.X &&
		w.Y >= a.Y &&
		w.Right() <= a.X+a.Width &&
		w.Top() <= a.Y+a.Height
}

// AreaParams is a client-supplied area filter; either all fields are set or none.
type AreaParams struct {
	X      *int
	Y      *int
	Width  *int
	Height *int
}

// Area converts p, returning Unbounded when no field is set and a
// validation error when only some are.
func (p AreaParams) Area() (Area, error) {
	if p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil {
		return Unbounded, nil
	}
	switch {
	case p.X == nil:
		return Area{}, widget.Missing("x")
	case p.Y == nil:
		return Area{}, widget.Missing("y")
	case p.Width == nil:
		return Area{}, widget.Missing("width")
	case p.Height == nil:
		return Area{}, widget.Missing("height")
	}
	return Area{X: *p.X, Y: *p.Y, Width: *p.Width, Height: *p.Height}, nil
}
