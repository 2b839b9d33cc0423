package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anhth20011/dockprep/internal/application/pathcheck"
	"github.com/anhth20011/dockprep/internal/application/result"
	"github.com/anhth20011/dockprep/internal/domain/docking"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// ResultHandler exposes the stateless pipeline helpers: result-log parsing
// and engine-path validation.
type ResultHandler struct {
	metrics        *prometheus.Metrics
	maxUploadBytes int64
}

// NewResultHandler wires the stateless endpoints.
func NewResultHandler(metrics *prometheus.Metrics, maxUploadBytes int64) *ResultHandler {
	return &ResultHandler{metrics: metrics, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the stateless routes on r.
func (h *ResultHandler) RegisterRoutes(r chi.Router) {
	r.Post("/results/parse", h.Parse)
	r.Post("/validate-path", h.ValidatePath)
}

// ParseResponse carries the parsed poses plus a flag telling the client the
// log's own mode numbering disagreed with the order of appearance.
type ParseResponse struct {
	Poses      []docking.DockingPose `json:"poses"`
	Renumbered bool                  `json:"renumbered"`
}

// Parse reads a result log from the request body (raw text or a multipart
// "file" part) and returns the extracted poses. A log with no result rows
// yields an empty list, not an error.
func (h *ResultHandler) Parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var text []byte
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		text, err = io.ReadAll(file)
		if err != nil {
			writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "reading upload"))
			return
		}
	} else {
		var readErr error
		text, readErr = io.ReadAll(r.Body)
		if readErr != nil {
			writeAppError(w, errors.Wrap(readErr, errors.ErrCodeBadRequest, "reading request body"))
			return
		}
	}

	poses := result.Parse(string(text))
	if h.metrics != nil {
		h.metrics.ParseRuns.Inc()
		h.metrics.PosesParsed.Add(float64(len(poses)))
	}
	if poses == nil {
		poses = []docking.DockingPose{}
	}
	writeJSON(w, http.StatusOK, ParseResponse{
		Poses:      poses,
		Renumbered: result.Renumbered(poses),
	})
}

type validatePathRequest struct {
	Path string `json:"path"`
}

// ValidatePathResponse reports the validation verdict for one path.
type ValidatePathResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidatePath runs the syntactic engine-path check. The verdict is the
// payload; an invalid path is a 200 with valid=false, not an HTTP error.
func (h *ResultHandler) ValidatePath(w http.ResponseWriter, r *http.Request) {
	var req validatePathRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	resp := ValidatePathResponse{Valid: true}
	if err := pathcheck.ValidateEnginePath(req.Path); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
