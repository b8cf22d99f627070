// Package storetest keeps a contract suite run against every store.Store backend.
package storetest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetd/internal/store"
	"github.com/jask/widgetd/internal/widget"
)

// TestStore exercises st, which must start empty.
func TestStore(t *testing.T, st store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	all, err := st.All(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	_, ok, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	stamp := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	a := widget.Widget{ID: "a", X: 1, Y: 2, Z: 3, Width: 4, Height: 5, LastModified: stamp, IsNew: true}
	b := widget.Widget{ID: "b", X: -10, Y: -20, Z: 7, Width: 30, Height: 40, LastModified: stamp}
	require.NoError(t, st.Put(ctx, a, b))

	got, ok, err := st.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	requireSame(t, a, got)
	require.False(t, got.IsNew, "stores clear the new flag")

	// Mutating the caller's copy must not leak into the store.
	a.X = 999
	got, _, err = st.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 1, got.X)

	// Mutating a returned copy must not leak either.
	got.Y = 999
	again, _, err := st.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 2, again.Y)

	// Upsert.
	b.Z = 8
	require.NoError(t, st.Put(ctx, b))
	all, err = st.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	require.Equal(t, 3, all[0].Z)
	require.Equal(t, 8, all[1].Z)

	// Delete is idempotent.
	require.NoError(t, st.Delete(ctx, "a"))
	require.NoError(t, st.Delete(ctx, "a"))
	require.NoError(t, st.Delete(ctx, "never-existed"))
	_, ok, err = st.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	all, err = st.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "b", all[0].ID)

	require.NoError(t, st.Put(ctx), "empty batch is a no-op")

	require.NoError(t, st.Reset(ctx))
	all, err = st.All(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	require.NoError(t, st.Put(ctx, a))
	all, err = st.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "store stays usable after reset")
}

func requireSame(t *testing.T, want, got widget.Widget) {
	t.Helper()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.X, got.X)
	require.Equal(t, want.Y, got.Y)
	require.Equal(t, want.Z, got.Z)
	require.Equal(t, want.Width, got.Width)
	require.Equal(t, want.Height, got.Height)
	require.True(t, want.LastModified.Equal(got.LastModified), "lastModified %v != %v", want.LastModified, got.LastModified)
}
