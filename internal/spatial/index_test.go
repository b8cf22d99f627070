package spatial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetd/internal/widget"
)

func TestIndexInsertRemove(t *testing.T) {
	t.Parallel()
	idx := NewIndex()
	area := Area{X: 0, Y: 0, Width: 50, Height: 50}

	idx.Insert(widget.Widget{ID: "a", X: 10, Y: 10, Width: 5, Height: 5})
	idx.Insert(widget.Widget{ID: "b", X: 40, Y: 40, Width: 20, Height: 20})
	require.Equal(t, 2, idx.Len())
	require.Len(t, idx.Search(area), 1)

	// Re-inserting under the same id moves the widget.
	idx.Insert(widget.Widget{ID: "b", X: 30, Y: 30, Width: 5, Height: 5})
	require.Equal(t, 2, idx.Len())
	require.Len(t, idx.Search(area), 2)

	idx.Remove("a")
	idx.Remove("a")
	idx.Remove("missing")
	require.Equal(t, 1, idx.Len())
	got := idx.Search(area)
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].ID)
	require.Len(t, idx.Search(Unbounded), 1)
}

func TestIndexIncrementalMatchesScan(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(3))
	idx := NewIndex()
	live := map[string]widget.Widget{}

	for step := 0; step < 2000; step++ {
		id := string(rune('a' + r.Intn(26)))
		if r.Intn(4) == 0 {
			idx.Remove(id)
			delete(live, id)
		} else {
			w := widget.Widget{ID: id, X: r.Intn(200) - 100, Y: r.Intn(200) - 100, Width: r.Intn(60), Height: r.Intn(60)}
			idx.Insert(w)
			live[id] = w
		}
		require.Equal(t, len(live), idx.Len())

		area := Area{X: r.Intn(200) - 100, Y: r.Intn(200) - 100, Width: r.Intn(200), Height: r.Intn(200)}
		want := map[string]bool{}
		for _, w := range live {
			if !area.Degenerate() && area.Contains(w) {
				want[w.ID] = true
			}
		}
		got := map[string]bool{}
		for _, w := range idx.Search(area) {
			got[w.ID] = true
		}
		require.Equal(t, want, got, "step %d area %v", step, area)
	}
}
