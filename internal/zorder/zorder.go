// Package zorder keeps z values unique across the widget set.
//
// The maintainer works on a point-in-time snapshot and never persists
// anything itself: Assign mutates the target widget in place and returns the
// other widgets whose z changed, and the caller saves them together.
package zorder

import "github.com/jask/widgetd/internal/widget"

// Maintainer assigns z values.
type Maintainer struct {
	// InitialZ stands in for the highest z when the snapshot is empty.
	InitialZ int
}

// Highest returns the largest z in snapshot, or InitialZ if it is empty.
func (m Maintainer) Highest(snapshot []widget.Widget) int {
	if len(snapshot) == 0 {
		return m.InitialZ
	}
	highest := snapshot[0].Z
	for _, w := range snapshot[1:] {
		if w.Z > highest {
			highest = w.Z
		}
	}
	return highest
}

// Assign sets w.Z and returns the snapshot widgets that were shifted to make room.
//
// Without a requested value a new widget goes on top, and an existing widget
// is moved on top only if something else is above it. With a requested value
// every other widget at or above it moves up by one. z values are unique
// before the call, so one pass cannot create a new collision.
func (m Maintainer) Assign(snapshot []widget.Widget, w *widget.Widget, requested *int) []widget.Widget {
	if requested == nil {
		highest := m.Highest(snapshot)
		if w.IsNew || highest > w.Z {
			w.Z = highest + 1
		}
		return nil
	}

	z := *requested
	w.Z = z
	var shifted []widget.Widget
	for _, s := range snapshot {
		if s.ID == w.ID || s.Z < z {
			continue
		}
		s.Z++
		shifted = append(shifted, s)
	}
	return shifted
}
