package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jask/widgetd/internal/config"
	"github.com/jask/widgetd/internal/gate"
	"github.com/jask/widgetd/internal/logutil"
	"github.com/jask/widgetd/internal/spatial"
	"github.com/jask/widgetd/internal/store"
	"github.com/jask/widgetd/internal/widget"
	"github.com/jask/widgetd/internal/zorder"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("widget not found")

// Options configures a WidgetService.
type Options struct {
	LockTimeout     time.Duration
	InitialZIndex   int
	PageDefaultSize int
	PageMaxSize     int
	MaxReaders      int64
	Filter          spatial.Filter
	Logger          *slog.Logger
	Clock           func() time.Time
}

// OptionsFromConfig maps the widget section of the config onto Options.
func OptionsFromConfig(cfg config.WidgetConfig) Options {
	return Options{
		LockTimeout:     cfg.LockTimeout(),
		InitialZIndex:   cfg.InitialZIndex,
		PageDefaultSize: cfg.PageDefaultSize,
		PageMaxSize:     cfg.PageMaxSize,
	}
}

// WidgetService runs every widget operation through the gate: writes hold it
// exclusively across snapshot, z maintenance and persistence; reads share it
// while taking the snapshot.
type WidgetService struct {
	store       store.Store
	gate        *gate.Gate
	filter      spatial.Filter
	zorder      zorder.Maintainer
	pageDefault int
	pageMax     int
	log         *slog.Logger
	now         func() time.Time
}

func NewWidgetService(st store.Store, opts Options) *WidgetService {
	s := &WidgetService{
		store:       st,
		gate:        gate.New(opts.LockTimeout, opts.MaxReaders),
		filter:      opts.Filter,
		zorder:      zorder.Maintainer{InitialZ: opts.InitialZIndex},
		pageDefault: opts.PageDefaultSize,
		pageMax:     opts.PageMaxSize,
		log:         opts.Logger,
		now:         opts.Clock,
	}
	if s.filter == nil {
		s.filter = spatial.Tree{}
	}
	if s.log == nil {
		s.log = logutil.Discard
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Result is a single widget outcome. BestEffort is set when the operation ran
// without the lock after a timeout.
type Result struct {
	Widget     widget.Widget
	Created    bool
	BestEffort bool
}

// Ack acknowledges an operation without a payload.
type Ack struct {
	BestEffort bool
}

// Query selects a page of widgets, optionally restricted to an area.
type Query struct {
	Area   spatial.AreaParams
	Offset *int
	Limit  *int
}

// Page is a slice of the z-ordered widget list.
type Page struct {
	Widgets    []widget.Widget
	Offset     int
	Limit      int
	Total      int // matches before pagination
	BestEffort bool
}

// GateStats exposes the lock counters.
func (s *WidgetService) GateStats() gate.Stats { return s.gate.Stats() }

func (s *WidgetService) acquire(ctx context.Context, op string, exclusive bool) (*gate.Lease, error) {
	var (
		lease *gate.Lease
		err   error
	)
	if exclusive {
		lease, err = s.gate.Lock(ctx)
	} else {
		lease, err = s.gate.RLock(ctx)
	}
	if err != nil {
		s.log.Warn("lock wait interrupted", "op", op, "err", err)
		return nil, err
	}
	if !lease.Held() {
		s.log.Warn("lock wait timed out, continuing without lock; result is best-effort", "op", op)
	}
	return lease, nil
}

// Create stores a new widget. All geometry fields are required; z is optional.
func (s *WidgetService) Create(ctx context.Context, p widget.Params) (Result, error) {
	s.log.Debug("create widget", "params", p)
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	lease, err := s.acquire(ctx, "create", true)
	if err != nil {
		return Result{}, err
	}
	defer lease.Release()

	w := widget.New()
	w.Apply(p)
	if err := s.save(ctx, &w, p.Z); err != nil {
		return Result{}, err
	}
	return Result{Widget: w, Created: true, BestEffort: !lease.Held()}, nil
}

// Get returns the widget with id or ErrNotFound.
func (s *WidgetService) Get(ctx context.Context, id string) (Result, error) {
	s.log.Debug("get widget", "id", id)
	lease, err := s.acquire(ctx, "get", false)
	if err != nil {
		return Result{}, err
	}
	defer lease.Release()

	w, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("get widget %s: %w", id, err)
	}
	if !ok {
		return Result{}, fmt.Errorf("widget %s: %w", id, ErrNotFound)
	}
	return Result{Widget: w, BestEffort: !lease.Held()}, nil
}

// Update overwrites the present fields of the widget with id. When no such
// widget exists it creates one under a fresh id, which requires the same
// fields as Create.
func (s *WidgetService) Update(ctx context.Context, id string, p widget.Params) (Result, error) {
	s.log.Debug("update widget", "id", id, "params", p)
	lease, err := s.acquire(ctx, "update", true)
	if err != nil {
		return Result{}, err
	}
	defer lease.Release()

	w, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("get widget %s: %w", id, err)
	}
	if !ok {
		if err := p.Validate(); err != nil {
			return Result{}, err
		}
		w = widget.New()
	}
	w.Apply(p)
	if err := s.save(ctx, &w, p.Z); err != nil {
		return Result{}, err
	}
	return Result{Widget: w, Created: !ok, BestEffort: !lease.Held()}, nil
}

// Delete removes the widget with id. Deleting an unknown id succeeds.
func (s *WidgetService) Delete(ctx context.Context, id string) (Ack, error) {
	s.log.Debug("delete widget", "id", id)
	lease, err := s.acquire(ctx, "delete", true)
	if err != nil {
		return Ack{}, err
	}
	defer lease.Release()

	if err := s.store.Delete(ctx, id); err != nil {
		return Ack{}, fmt.Errorf("delete widget %s: %w", id, err)
	}
	return Ack{BestEffort: !lease.Held()}, nil
}

// List returns widgets sorted by ascending z, optionally restricted to those
// fully inside q.Area. The limit defaults to the configured page size and is
// clamped to [0, max]; negative offsets count as zero.
func (s *WidgetService) List(ctx context.Context, q Query) (Page, error) {
	area, err := q.Area.Area()
	if err != nil {
		return Page{}, err
	}
	limit := s.pageDefault
	if q.Limit != nil {
		limit = *q.Limit
	}
	limit = min(max(limit, 0), s.pageMax)
	offset := 0
	if q.Offset != nil {
		offset = max(*q.Offset, 0)
	}
	s.log.Debug("list widgets", "area", area, "offset", offset, "limit", limit)

	lease, err := s.acquire(ctx, "list", false)
	if err != nil {
		return Page{}, err
	}
	snapshot, err := s.store.All(ctx)
	lease.Release()
	if err != nil {
		return Page{}, fmt.Errorf("snapshot widgets: %w", err)
	}

	matched := s.filter.Contained(snapshot, area)
	sort.Slice(matched, func(i, j int) bool { return matched[i].Z < matched[j].Z })

	page := Page{Offset: offset, Limit: limit, Total: len(matched), BestEffort: !lease.Held()}
	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page.Widgets = matched[offset:end]
	}
	if page.Widgets == nil {
		page.Widgets = []widget.Widget{}
	}
	return page, nil
}

// save stamps w, assigns its z against a fresh snapshot and persists w along
// with every widget the assignment shifted, in one batch.
func (s *WidgetService) save(ctx context.Context, w *widget.Widget, z *int) error {
	snapshot, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("snapshot widgets: %w", err)
	}

	now := s.now()
	w.LastModified = now
	shifted := s.zorder.Assign(snapshot, w, z)
	for i := range shifted {
		shifted[i].LastModified = now
	}
	if err := s.store.Put(ctx, append(shifted, *w)...); err != nil {
		return fmt.Errorf("save widget %s: %w", w.ID, err)
	}
	w.IsNew = false
	return nil
}
