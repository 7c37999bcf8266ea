// Package health provides HTTP liveness and readiness handlers for the
// diagnostics listener that also serves /metrics.
//
//   - /healthz — liveness probe; always returns 200 OK.
//   - /readyz  — readiness probe; returns 200 only when every registered
//     check passes (e.g. the command store is writable and the session has
//     not terminated).
//
// Responses are JSON objects with a top-level "status" field ("ok" or
// "fail") and a "checks" map with the result of each named check.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// checkTimeout bounds a single readiness check.
const checkTimeout = 5 * time.Second

// Check probes one dependency. It must respect context cancellation and
// return nil when the dependency is healthy.
type Check func(ctx context.Context) error

// Handler serves the /healthz and /readyz endpoints. Safe for concurrent
// use; the check set is fixed at construction time.
type Handler struct {
	names  []string
	checks map[string]Check
}

// New creates a Handler evaluating the given named checks on each /readyz
// request, in registration order.
func New() *Handler {
	return &Handler{checks: make(map[string]Check)}
}

// Add registers a named readiness check. Must be called before Register.
func (h *Handler) Add(name string, check Check) *Handler {
	if _, ok := h.checks[name]; !ok {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
	return h
}

// Register mounts the handlers on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
}

// healthz always reports ok: a process that can serve HTTP is alive.
func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{Status: "ok"})
}

// readyz runs every check and reports 503 when any fails.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	resp := response{Status: "ok", Checks: make(map[string]string, len(h.names))}
	status := http.StatusOK

	for _, name := range h.names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := h.checks[name](ctx)
		cancel()

		if err != nil {
			resp.Checks[name] = "fail: " + err.Error()
			resp.Status = "fail"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks[name] = "ok"
		}
	}

	writeJSON(w, status, resp)
}

// response is the JSON body for both endpoints.
type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
