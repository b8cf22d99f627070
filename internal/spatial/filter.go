package spatial

import (
	"fmt"

	"github.com/jask/widgetd/internal/config"
	"github.com/jask/widgetd/internal/widget"
)

// Filter selects the widgets lying entirely inside an area. Result order is unspecified.
type Filter interface {
	Contained(widgets []widget.Widget, area Area) []widget.Widget
}

// New returns the filter engine named by kind.
func New(kind string) (Filter, error) {
	switch kind {
	case config.FilterScan:
		return Scan{}, nil
	case config.FilterRTree:
		return Tree{}, nil
	default:
		return nil, fmt.Errorf("unknown filter engine %q", kind)
	}
}

// shortcut handles the cases every engine answers the same way.
func shortcut(widgets []widget.Widget, area Area) ([]widget.Widget, bool) {
	switch {
	case area.IsUnbounded():
		return widgets, true
	case len(widgets) == 0, area.Degenerate():
		return []widget.Widget{}, true
	}
	return nil, false
}

// Scan checks every widget against the predicate. O(n) per query.
type Scan struct{}

func (Scan) Contained(widgets []widget.Widget, area Area) []widget.Widget {
	if out, ok := shortcut(widgets, area); ok {
		return out
	}
	out := make([]widget.Widget, 0)
	for _, w := range widgets {
		if area.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

// Tree builds an Index from the widgets on every query and searches it.
// Rebuilding per query is fine while writes are rare compared to reads;
// callers that query far more than they mutate can keep an Index instead.
type Tree struct{}

func (Tree) Contained(widgets []widget.Widget, area Area) []widget.Widget {
	if out, ok := shortcut(widgets, area); ok {
		return out
	}
	idx := NewIndex()
	for _, w := range widgets {
		idx.Insert(w)
	}
	return idx.Search(area)
}
