package spatial

import (
	"github.com/tidwall/rtree"

	"github.com/jask/widgetd/internal/widget"
)

// Index is an R-tree over widget bounding boxes keyed by widget id.
// It is not safe for concurrent use.
type Index struct {
	tree    rtree.RTreeG[string]
	widgets map[string]widget.Widget
}

func NewIndex() *Index {
	return &Index{widgets: make(map[string]widget.Widget)}
}

// bounds returns the normalized bounding box of w. Widgets with a negative
// width or height still get a valid box, which always intersects any area
// that contains the widget under the reference predicate.
func bounds(w widget.Widget) (min, max [2]float64) {
	x0, x1 := w.X, w.Right()
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := w.Y, w.Top()
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return [2]float64{float64(x0), float64(y0)}, [2]float64{float64(x1), float64(y1)}
}

// Insert adds w, replacing any widget already indexed under the same id.
func (idx *Index) Insert(w widget.Widget) {
	idx.Remove(w.ID)
	min, max := bounds(w)
	idx.tree.Insert(min, max, w.ID)
	idx.widgets[w.ID] = w
}

// Remove drops the widget with id. Unknown ids are ignored.
func (idx *Index) Remove(id string) {
	old, ok := idx.widgets[id]
	if !ok {
		return
	}
	min, max := bounds(old)
	idx.tree.Delete(min, max, id)
	delete(idx.widgets, id)
}

// Len returns the number of indexed widgets.
func (idx *Index) Len() int { return len(idx.widgets) }

// Search returns the indexed widgets contained in area.
func (idx *Index) Search(area Area) []widget.Widget {
	if area.IsUnbounded() {
		out := make([]widget.Widget, 0, len(idx.widgets))
		for _, w := range idx.widgets {
			out = append(out, w)
		}
		return out
	}
	out := make([]widget.Widget, 0)
	if area.Degenerate() {
		return out
	}
	min := [2]float64{float64(area.X), float64(area.Y)}
	max := [2]float64{float64(area.X + area.Width), float64(area.Y + area.Height)}
	// The tree yields intersecting boxes; the predicate trims them to containment.
	idx.tree.Search(min, max, func(_, _ [2]float64, id string) bool {
		if w := idx.widgets[id]; area.Contains(w) {
			out = append(out, w)
		}
		return true
	})
	return out
}
