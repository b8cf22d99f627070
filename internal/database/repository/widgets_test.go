package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetd/internal/database"
	"github.com/jask/widgetd/internal/widget"
)

// testDB opens a migrated sqlite database in a temp dir.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	migrations, err := filepath.Abs("../migrations")
	require.NoError(t, err)

	db, err := database.Open(filepath.Join(t.TempDir(), "widgets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db, migrations))
	return db
}

func TestMigrationsCreateWidgetsTable(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='widgets'`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAllOrdersByZ(t *testing.T) {
	db := testDB(t)
	repo := NewWidgetRepo(db)
	ctx := context.Background()

	stamp := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Put(ctx,
		widget.Widget{ID: "c", Z: 30, Width: 1, Height: 1, LastModified: stamp},
		widget.Widget{ID: "a", Z: -5, Width: 1, Height: 1, LastModified: stamp},
		widget.Widget{ID: "b", Z: 7, Width: 1, Height: 1, LastModified: stamp},
	))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, w := range all {
		ids = append(ids, w.ID)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
	require.True(t, all[0].LastModified.Equal(stamp))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestPutBatchRollsBackOnFailure(t *testing.T) {
	db := testDB(t)
	repo := NewWidgetRepo(db)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, repo.Put(ctx, widget.Widget{ID: "kept", Z: 1}))
	cancel()
	require.Error(t, repo.Put(ctx, widget.Widget{ID: "lost", Z: 2}))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestResetKeepsSchema(t *testing.T) {
	db := testDB(t)
	repo := NewWidgetRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, widget.Widget{ID: "a", Z: 1}, widget.Widget{ID: "b", Z: 2}))
	require.NoError(t, repo.Reset(ctx))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, repo.Put(ctx, widget.Widget{ID: "c", Z: 1}))
	_, ok, err := repo.Get(ctx, "c")
	require.NoError(t, err)
	require.True(t, ok)
}
