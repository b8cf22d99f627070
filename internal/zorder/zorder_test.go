package zorder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetd/internal/widget"
)

// apply stores w and shifted back into snapshot, mimicking the service.
func apply(snapshot []widget.Widget, w widget.Widget, shifted []widget.Widget) []widget.Widget {
	byID := make(map[string]widget.Widget, len(snapshot)+1)
	for _, s := range snapshot {
		byID[s.ID] = s
	}
	for _, s := range shifted {
		byID[s.ID] = s
	}
	w.IsNew = false
	byID[w.ID] = w
	out := make([]widget.Widget, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	return out
}

func zByID(snapshot []widget.Widget) map[string]int {
	out := make(map[string]int, len(snapshot))
	for _, w := range snapshot {
		out[w.ID] = w.Z
	}
	return out
}

func requireUnique(t *testing.T, snapshot []widget.Widget) {
	t.Helper()
	seen := make(map[int]string, len(snapshot))
	for _, w := range snapshot {
		other, dup := seen[w.Z]
		require.False(t, dup, "z %d shared by %s and %s", w.Z, other, w.ID)
		seen[w.Z] = w.ID
	}
}

func TestHighest(t *testing.T) {
	t.Parallel()
	m := Maintainer{InitialZ: -3}
	require.Equal(t, -3, m.Highest(nil))
	require.Equal(t, -10, m.Highest([]widget.Widget{{ID: "a", Z: -10}}), "the initial value does not act as a floor")
	require.Equal(t, 7, m.Highest([]widget.Widget{{ID: "a", Z: 2}, {ID: "b", Z: 7}, {ID: "c", Z: -1}}))
}

func TestAssignEmptyStoreUsesInitialValue(t *testing.T) {
	t.Parallel()
	m := Maintainer{InitialZ: 10}
	w := widget.Widget{ID: "a", IsNew: true}
	require.Empty(t, m.Assign(nil, &w, nil))
	require.Equal(t, 11, w.Z)
}

func TestAssignSequenceFromEmptyStore(t *testing.T) {
	t.Parallel()
	m := Maintainer{InitialZ: 0}
	var snapshot []widget.Widget
	for i := 1; i <= 25; i++ {
		w := widget.New()
		shifted := m.Assign(snapshot, &w, nil)
		require.Empty(t, shifted)
		require.Equal(t, i, w.Z)
		snapshot = apply(snapshot, w, shifted)
	}
}

func TestAssignCascadeScenario(t *testing.T) {
	t.Parallel()
	m := Maintainer{}
	snapshot := []widget.Widget{{ID: "A", Z: 1}, {ID: "B", Z: 2}, {ID: "C", Z: 3}}

	d := widget.Widget{ID: "D", IsNew: true}
	shifted := m.Assign(snapshot, &d, widget.Int(2))
	require.Len(t, shifted, 2)
	require.Equal(t, 2, d.Z)

	got := zByID(apply(snapshot, d, shifted))
	require.Equal(t, map[string]int{"A": 1, "D": 2, "B": 3, "C": 4}, got)
}

func TestAssignLeavesTopWidgetAlone(t *testing.T) {
	t.Parallel()
	m := Maintainer{}

	single := widget.Widget{ID: "1", Z: 1}
	w := single
	require.Empty(t, m.Assign([]widget.Widget{single}, &w, nil))
	require.Equal(t, 1, w.Z)

	snapshot := []widget.Widget{{ID: "a", Z: 4}, {ID: "b", Z: 9}}
	top := snapshot[1]
	require.Empty(t, m.Assign(snapshot, &top, nil))
	require.Equal(t, 9, top.Z)
}

func TestAssignMovesBuriedWidgetToTop(t *testing.T) {
	t.Parallel()
	m := Maintainer{}
	snapshot := []widget.Widget{{ID: "a", Z: 4}, {ID: "b", Z: 9}}
	w := snapshot[0]
	require.Empty(t, m.Assign(snapshot, &w, nil))
	require.Equal(t, 10, w.Z)
}

func TestAssignRequestedEqualToMax(t *testing.T) {
	t.Parallel()
	m := Maintainer{}
	snapshot := []widget.Widget{{ID: "a", Z: 1}, {ID: "b", Z: 5}}

	// b asks for the value it already has: nothing else moves.
	b := snapshot[1]
	require.Empty(t, m.Assign(snapshot, &b, widget.Int(5)))
	require.Equal(t, 5, b.Z)

	// a asks for the current max: only b is pushed up.
	a := snapshot[0]
	shifted := m.Assign(snapshot, &a, widget.Int(5))
	require.Equal(t, []widget.Widget{{ID: "b", Z: 6}}, shifted)
	require.Equal(t, 5, a.Z)
}

func TestAssignRequestedAboveEverything(t *testing.T) {
	t.Parallel()
	m := Maintainer{}
	snapshot := []widget.Widget{{ID: "a", Z: 1}, {ID: "b", Z: 2}}
	w := widget.Widget{ID: "c", IsNew: true}
	require.Empty(t, m.Assign(snapshot, &w, widget.Int(100)))
	require.Equal(t, 100, w.Z)
}

func TestAssignKeepsGaps(t *testing.T) {
	t.Parallel()
	m := Maintainer{}
	snapshot := []widget.Widget{{ID: "a", Z: 1}, {ID: "b", Z: 5}, {ID: "c", Z: 6}}
	w := widget.Widget{ID: "d", IsNew: true}
	shifted := m.Assign(snapshot, &w, widget.Int(3))
	got := zByID(apply(snapshot, w, shifted))
	require.Equal(t, map[string]int{"a": 1, "d": 3, "b": 6, "c": 7}, got)
}

func TestAssignRandomizedKeepsUniqueAndShiftsExactly(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(7))
	m := Maintainer{}
	var snapshot []widget.Widget

	for step := 0; step < 400; step++ {
		before := zByID(snapshot)

		var w widget.Widget
		if len(snapshot) > 0 && r.Intn(2) == 0 {
			w = snapshot[r.Intn(len(snapshot))]
		} else {
			w = widget.New()
		}
		var requested *int
		if r.Intn(3) > 0 {
			requested = widget.Int(r.Intn(60) - 10)
		}

		shifted := m.Assign(snapshot, &w, requested)
		snapshot = apply(snapshot, w, shifted)
		requireUnique(t, snapshot)

		if requested == nil {
			continue
		}
		after := zByID(snapshot)
		require.Equal(t, *requested, after[w.ID])
		for id, z := range before {
			if id == w.ID {
				continue
			}
			if z >= *requested {
				require.Equal(t, z+1, after[id], "widget %s at %d should shift", id, z)
			} else {
				require.Equal(t, z, after[id], "widget %s at %d should stay", id, z)
			}
		}
	}
}
