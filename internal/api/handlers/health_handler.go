package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/vercel-bot/engine/internal/api/types"
	appErr "github.com/vercel-bot/engine/pkg/errors"
)

type HealthHandler struct {
	ready atomic.Bool
}

// NewHealthHandler starts out ready.
func NewHealthHandler() *HealthHandler {
	h := &HealthHandler{}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness probe; the server clears it while draining.
func (h *HealthHandler) SetReady(ready bool) { h.ready.Store(ready) }

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		writeError(w, r, http.StatusServiceUnavailable, appErr.New(appErr.CodeUnavailable, "shutting down"))
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ready"}})
}

// NotFound answers unknown routes with the JSON error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, appErr.Newf(appErr.CodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, appErr.Newf(appErr.CodeInvalid, "method %s not allowed", r.Method))
}
