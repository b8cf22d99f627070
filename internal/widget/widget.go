package widget

import (
	"time"

	"github.com/google/uuid"
)

// Widget is a rectangle on the plane with a unique stacking order.
// X and Y address the lower-left corner.
type Widget struct {
	ID           string    `json:"id" yaml:"id"`
	X            int       `json:"x" yaml:"x"`
	Y            int       `json:"y" yaml:"y"`
	Z            int       `json:"z" yaml:"z"`
	Width        int       `json:"width" yaml:"width"`
	Height       int       `json:"height" yaml:"height"`
	LastModified time.Time `json:"lastModified" yaml:"lastModified"`

	// IsNew marks a widget that has not been persisted yet. Stores clear it on save.
	IsNew bool `json:"-" yaml:"-"`
}

// New returns an empty widget with a fresh id, flagged as new.
func New() Widget {
	return Widget{ID: uuid.NewString(), IsNew: true}
}

// Apply overwrites the geometry fields present in p. Z is left to the z-order maintainer.
func (w *Widget) Apply(p Params) {
	if p.X != nil {
		w.X = *p.X
	}
	if p.Y != nil {
		w.Y = *p.Y
	}
	if p.Width != nil {
		w.Width = *p.Width
	}
	if p.Height != nil {
		w.Height = *p.Height
	}
}

// Right returns the x coordinate of the right edge.
func (w Widget) Right() int { return w.X + w.Width }

// Top returns the y coordinate of the top edge.
func (w Widget) Top() int { return w.Y + w.Height }
