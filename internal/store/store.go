// Package store defines the key-addressable widget collection consumed by the
// service, plus its in-memory and bbolt backends.
//
// Every backend copies on write and on read: callers hand widgets over by
// value and get independent values back, so nothing returned by a store
// aliases persisted state.
package store

import (
	"context"

	"github.com/jask/widgetd/internal/widget"
)

// Store is the widget collection contract shared by all backends.
type Store interface {
	// Get returns the widget with id and whether it exists.
	Get(ctx context.Context, id string) (widget.Widget, bool, error)
	// Put upserts widgets. Backends apply the whole batch or none of it.
	// IsNew is cleared on the stored copy.
	Put(ctx context.Context, widgets ...widget.Widget) error
	// Delete removes the widget with id. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
	// All returns a snapshot of every live widget in no particular order.
	All(ctx context.Context) ([]widget.Widget, error)
	// Reset drops every widget, leaving the backend usable.
	Reset(ctx context.Context) error
	Close() error
}
