package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/widgetd/internal/service"
	"github.com/jask/widgetd/internal/store"
	"github.com/jask/widgetd/internal/widget"
)

const fixture = `
widgets:
  - {x: 0, y: 0, width: 100, height: 100, z: 1}
  - {x: 0, y: 50, width: 100, height: 100, z: 2}
  - {x: 100, y: 50, width: 100, height: 100}
`

func TestParse(t *testing.T) {
	t.Parallel()
	f, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, f.Widgets, 3)
	require.Equal(t, 50, *f.Widgets[1].Y)
	require.Nil(t, f.Widgets[2].Z)

	empty, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, empty.Widgets)
}

func TestParseRejectsIncompleteWidget(t *testing.T) {
	t.Parallel()
	_, err := Parse(strings.NewReader("widgets:\n  - {x: 1, y: 2}\n"))
	require.ErrorIs(t, err, widget.ErrValidation)

	_, err = Parse(strings.NewReader("widgets:\n  - {x: 1, y: 2, width: 1, height: 1, depth: 3}\n"))
	require.Error(t, err, "unknown fields are rejected")
}

func TestApplyOnlySeedsEmptyStore(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	f, err := Load(path)
	require.NoError(t, err)

	svc := service.NewWidgetService(store.NewMemory(), service.Options{
		LockTimeout: time.Second, PageDefaultSize: 10, PageMaxSize: 10,
	})
	n, err := Apply(ctx, svc, f)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = Apply(ctx, svc, f)
	require.NoError(t, err)
	require.Zero(t, n)

	page, err := svc.List(ctx, service.Query{})
	require.NoError(t, err)
	require.Len(t, page.Widgets, 3)
	require.Equal(t, []int{1, 2, 3}, []int{page.Widgets[0].Z, page.Widgets[1].Z, page.Widgets[2].Z})
}
