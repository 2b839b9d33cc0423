package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version  string
	startAt  time.Time
	checkers []HealthChecker
}

// NewHealthHandler builds the probe handler; checkers are consulted by the
// readiness probe only.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, startAt: time.Now(), checkers: checkers}
}

// RegisterRoutes mounts the probes on r.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// LivenessResponse is the liveness probe body.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Liveness reports only that the process is running; it never consults
// external dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Round(time.Second).String(),
	})
}

// ComponentCheck is one dependency's readiness verdict.
type ComponentCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadinessResponse is the readiness probe body.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// Readiness checks every registered dependency; any failure yields 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := ReadinessResponse{Status: "ok"}
	if len(h.checkers) > 0 {
		resp.Components = make(map[string]ComponentCheck, len(h.checkers))
	}
	status := http.StatusOK
	for _, c := range h.checkers {
		check := ComponentCheck{Status: "ok"}
		if err := c.Check(ctx); err != nil {
			check = ComponentCheck{Status: "unavailable", Error: err.Error()}
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		resp.Components[c.Name()] = check
	}
	writeJSON(w, status, resp)
}
