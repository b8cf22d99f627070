package testdata

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/widgetd/internal/spatial"
	"github.com/jask/widgetd/internal/widget"
)

// Widgets returns n widgets with unique z values scattered over a span x span
// plane centred on the origin. Sizes run up to a quarter of the span.
func Widgets(r *rand.Rand, n, span int) []widget.Widget {
	now := time.Now().UTC()
	zs := r.Perm(n * 3)
	out := make([]widget.Widget, n)
	for i := range out {
		out[i] = widget.Widget{
			ID:           uuid.NewString(),
			X:            r.Intn(span) - span/2,
			Y:            r.Intn(span) - span/2,
			Width:        r.Intn(span/4 + 1),
			Height:       r.Intn(span/4 + 1),
			Z:            zs[i] - n,
			LastModified: now,
		}
	}
	return out
}

// Area returns a random query area over the same plane. About one in ten
// areas is degenerate.
func Area(r *rand.Rand, span int) spatial.Area {
	a := spatial.Area{
		X:      r.Intn(span) - span/2,
		Y:      r.Intn(span) - span/2,
		Width:  r.Intn(span),
		Height: r.Intn(span),
	}
	if r.Intn(10) == 0 {
		a.Width = 0
	}
	return a
}

// Params returns create parameters for a random widget without a z.
func Params(r *rand.Rand, span int) widget.Params {
	return widget.Params{
		X:      widget.Int(r.Intn(span) - span/2),
		Y:      widget.Int(r.Intn(span) - span/2),
		Width:  widget.Int(r.Intn(span/4 + 1)),
		Height: widget.Int(r.Intn(span/4 + 1)),
	}
}
