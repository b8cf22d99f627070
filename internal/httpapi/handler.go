// Package httpapi exposes the widget service as JSON over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jask/widgetd/internal/gate"
	"github.com/jask/widgetd/internal/logutil"
	"github.com/jask/widgetd/internal/service"
	"github.com/jask/widgetd/internal/spatial"
	"github.com/jask/widgetd/internal/widget"
)

// ConsistencyHeader is set to "best-effort" on responses produced without the lock.
const ConsistencyHeader = "Widget-Consistency"

// Service is the widget service surface used by the handlers.
type Service interface {
	Create(ctx context.Context, p widget.Params) (service.Result, error)
	Get(ctx context.Context, id string) (service.Result, error)
	Update(ctx context.Context, id string, p widget.Params) (service.Result, error)
	Delete(ctx context.Context, id string) (service.Ack, error)
	List(ctx context.Context, q service.Query) (service.Page, error)
	GateStats() gate.Stats
}

type handler struct {
	svc Service
	log *slog.Logger
}

// New returns the routes for svc.
func New(svc Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logutil.Discard
	}
	h := &handler{svc: svc, log: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /widgets", h.list)
	mux.HandleFunc("POST /widgets", h.create)
	mux.HandleFunc("GET /widgets/{id}", h.get)
	mux.HandleFunc("PUT /widgets/{id}", h.update)
	mux.HandleFunc("DELETE /widgets/{id}", h.delete)
	mux.HandleFunc("GET /healthz", h.health)
	return mux
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	markBestEffort(w, page.BestEffort)
	writeJSON(w, http.StatusOK, page.Widgets)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	p, err := decodeParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.svc.Create(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	markBestEffort(w, res.BestEffort)
	writeJSON(w, http.StatusCreated, res.Widget)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	markBestEffort(w, res.BestEffort)
	writeJSON(w, http.StatusOK, res.Widget)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	p, err := decodeParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.svc.Update(r.Context(), r.PathValue("id"), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	markBestEffort(w, res.BestEffort)
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res.Widget)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	ack, err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	markBestEffort(w, ack.BestEffort)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	stats := h.svc.GateStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"lockHeld":     stats.Held,
		"lockDegraded": stats.Degraded,
	})
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, widget.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gate.ErrInterruptedWait):
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "1")
	default:
		h.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func markBestEffort(w http.ResponseWriter, bestEffort bool) {
	if bestEffort {
		w.Header().Set(ConsistencyHeader, "best-effort")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeParams(r *http.Request) (widget.Params, error) {
	var p widget.Params
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return widget.Params{}, &widget.ValidationError{Field: "body", Reason: err.Error()}
	}
	return p, nil
}

func parseQuery(r *http.Request) (service.Query, error) {
	values := r.URL.Query()
	var (
		q    service.Query
		errs []error
	)
	intParam := func(name string) *int {
		raw := values.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, &widget.ValidationError{Field: name, Reason: "not an integer"})
			return nil
		}
		return &v
	}
	q.Area = spatial.AreaParams{
		X:      intParam("x"),
		Y:      intParam("y"),
		Width:  intParam("width"),
		Height: intParam("height"),
	}
	q.Offset = intParam("offset")
	q.Limit = intParam("pageSize")
	if len(errs) > 0 {
		return service.Query{}, errs[0]
	}
	return q, nil
}
