package store

import (
	"context"
	"sync"

	"github.com/jask/widgetd/internal/widget"
)

// Memory keeps widgets on the heap.
type Memory struct {
	mu      sync.RWMutex
	widgets map[string]widget.Widget
}

func NewMemory() *Memory {
	return &Memory{widgets: make(map[string]widget.Widget)}
}

func (m *Memory) Get(_ context.Context, id string) (widget.Widget, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.widgets[id]
	return w, ok, nil
}

func (m *Memory) Put(ctx context.Context, widgets ...widget.Widget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range widgets {
		w.IsNew = false
		m.widgets[w.ID] = w
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.widgets, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) All(_ context.Context) ([]widget.Widget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]widget.Widget, 0, len(m.widgets))
	for _, w := range m.widgets {
		out = append(out, w)
	}
	return out, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	clear(m.widgets)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
