package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anhth20011/dockprep/internal/infrastructure/database/postgres"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/pkg/errors"
)

const (
	defaultJobPageSize = 20
	maxJobPageSize     = 100
)

// JobBrowser reads the recorded job history.
type JobBrowser interface {
	GetJob(ctx context.Context, id string) (*postgres.JobRecord, error)
	ListJobs(ctx context.Context, limit, offset int) ([]postgres.JobRecord, error)
}

// ArtifactLinker resolves an artifact key to a download URL. Nil disables
// download links.
type ArtifactLinker interface {
	DownloadURL(ctx context.Context, key string) (string, error)
}

// JobsHandler exposes the generated-package history.
type JobsHandler struct {
	jobs      JobBrowser
	artifacts ArtifactLinker
	log       logging.Logger
}

// NewJobsHandler wires the job-history surface. artifacts may be nil when
// object storage is disabled.
func NewJobsHandler(jobs JobBrowser, artifacts ArtifactLinker, log logging.Logger) *JobsHandler {
	return &JobsHandler{jobs: jobs, artifacts: artifacts, log: log.Named("jobs")}
}

// RegisterRoutes mounts the job-history routes on r.
func (h *JobsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/jobs", h.List)
	r.Get("/jobs/{id}", h.Get)
}

// JobResponse is one history entry, optionally with a download link.
type JobResponse struct {
	postgres.JobRecord
	DownloadURL string `json:"download_url,omitempty"`
}

// ListJobsResponse is the paginated history body.
type ListJobsResponse struct {
	Jobs   []JobResponse `json:"jobs"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// List returns recorded jobs, newest first.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultJobPageSize)
	if limit < 1 || limit > maxJobPageSize {
		limit = defaultJobPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	recs, err := h.jobs.ListJobs(r.Context(), limit, offset)
	if err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeDatabaseError, "list jobs"))
		return
	}
	resp := ListJobsResponse{Jobs: make([]JobResponse, 0, len(recs)), Limit: limit, Offset: offset}
	for _, rec := range recs {
		resp.Jobs = append(resp.Jobs, JobResponse{JobRecord: rec})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one job; when object storage is configured and the job has an
// artifact, the response carries a presigned download link.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	resp := JobResponse{JobRecord: *rec}
	if h.artifacts != nil && rec.ArtifactKey != "" {
		url, err := h.artifacts.DownloadURL(r.Context(), rec.ArtifactKey)
		if err != nil {
			h.log.Warn("presign artifact failed",
				logging.String("job_id", id),
				logging.Err(err))
		} else {
			resp.DownloadURL = url
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
