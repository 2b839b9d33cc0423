package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anhth20011/dockprep/internal/application/bundle"
	"github.com/anhth20011/dockprep/internal/application/workflow"
	"github.com/anhth20011/dockprep/internal/domain/docking"
	"github.com/anhth20011/dockprep/internal/infrastructure/database/postgres"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// ArtifactStore archives generated packages. Nil disables archiving.
type ArtifactStore interface {
	StorePackage(ctx context.Context, jobID string, pkg *bundle.Package) (string, error)
}

// JobHistory records generated packages. Nil disables history.
type JobHistory interface {
	SaveJob(ctx context.Context, rec postgres.JobRecord) error
}

// SessionHandler exposes the wizard workflow over HTTP.
type SessionHandler struct {
	sessions  *workflow.Manager
	assembler *bundle.Assembler
	artifacts ArtifactStore
	history   JobHistory
	metrics   *prometheus.Metrics
	log       logging.Logger

	maxUploadBytes int64
}

// NewSessionHandler wires the workflow surface. artifacts and history may be
// nil when the corresponding subsystem is disabled.
func NewSessionHandler(
	sessions *workflow.Manager,
	assembler *bundle.Assembler,
	artifacts ArtifactStore,
	history JobHistory,
	metrics *prometheus.Metrics,
	log logging.Logger,
	maxUploadBytes int64,
) *SessionHandler {
	return &SessionHandler{
		sessions:       sessions,
		assembler:      assembler,
		artifacts:      artifacts,
		history:        history,
		metrics:        metrics,
		log:            log.Named("sessions"),
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts the session routes on r.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.Create)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Post("/molecules/{role}", h.UploadMolecule)
		r.Put("/preparation", h.SetPreparation)
		r.Put("/region", h.SetRegion)
		r.Put("/parameters", h.SetParameters)
		r.Put("/engine-path", h.SetEnginePath)
		r.Post("/advance", h.Advance)
		r.Post("/back", h.Back)
		r.Post("/package", h.GeneratePackage)
	})
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*workflow.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return nil, false
	}
	return s, true
}

// Create starts a new wizard session.
func (h *SessionHandler) Create(w http.ResponseWriter, _ *http.Request) {
	s := h.sessions.Create()
	if h.metrics != nil {
		h.metrics.SessionsActive.Set(float64(h.sessions.Count()))
	}
	h.log.Info("session created", logging.String("session", s.ID()))
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// Get returns the session snapshot.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}

// Delete discards a session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "id"))
	if h.metrics != nil {
		h.metrics.SessionsActive.Set(float64(h.sessions.Count()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadMolecule accepts a multipart "file" part and stores it under the
// role in the URL: receptor, ligand, or result_log. Re-uploading replaces
// the previous file wholesale.
func (h *SessionHandler) UploadMolecule(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, `multipart part "file" is required`))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "reading upload"))
		return
	}
	in := docking.NewMoleculeInput(header.Filename, data)

	switch docking.Role(chi.URLParam(r, "role")) {
	case docking.RoleReceptor:
		err = s.SetReceptor(in)
	case docking.RoleLigand:
		err = s.SetLigand(in)
	case docking.RoleResultLog:
		err = s.AttachResultLog(in)
	default:
		err = errors.Newf(errors.ErrCodeBadRequest, "unknown molecule role %q", chi.URLParam(r, "role"))
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// SetPreparation stores the chemistry-preparation flags.
func (h *SessionHandler) SetPreparation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var cfg docking.PreparationConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.SetPreparation(cfg); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// SetRegion stores the search grid box.
func (h *SessionHandler) SetRegion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var region docking.SearchRegion
	if err := decodeJSON(r, &region); err != nil {
		writeAppError(w, err)
		return
	}
	if region.Degenerate() {
		h.log.Warn("accepted degenerate search region",
			logging.String("session", s.ID()))
	}
	if err := s.SetRegion(region); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// SetParameters stores the engine search parameters.
func (h *SessionHandler) SetParameters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var params docking.SearchParameters
	if err := decodeJSON(r, &params); err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.SetParams(params); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

type enginePathRequest struct {
	Path string `json:"path"`
}

// SetEnginePath validates and stores the user-supplied engine path.
func (h *SessionHandler) SetEnginePath(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req enginePathRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.SetEnginePath(req.Path); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Advance confirms the current step and moves forward.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.Advance(); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Back moves one step backward.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.Back(); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// GeneratePackage assembles the job package and streams the zip back. When
// an artifact store or job history is configured the package is archived
// and recorded as a side effect; the response carries the job ID and the
// storage key in headers either way.
func (h *SessionHandler) GeneratePackage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	pkg, err := s.GeneratePackage(h.assembler, nil)
	if err != nil {
		if h.metrics != nil && errors.HasCode(err, errors.ErrCodePackageFailed) {
			h.metrics.PackageFailures.Inc()
		}
		writeAppError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.PackagesGenerated.Inc()
		h.metrics.PackageBytes.Observe(float64(len(pkg.Data)))
	}

	jobID := uuid.NewString()
	snap := s.Snapshot()

	var artifactKey string
	if h.artifacts != nil {
		artifactKey, err = h.artifacts.StorePackage(r.Context(), jobID, pkg)
		if err != nil {
			// Archiving is best effort; the caller still gets the package.
			h.log.Error("archiving package failed",
				logging.String("session", s.ID()), logging.Err(err))
			artifactKey = ""
		}
	}
	if h.history != nil {
		params, mErr := json.Marshal(struct {
			Prep   docking.PreparationConfig `json:"preparation"`
			Region docking.SearchRegion      `json:"search_region"`
			Params docking.SearchParameters  `json:"search_parameters"`
		}{snap.Prep, snap.Region, snap.Params})
		if mErr == nil {
			rec := postgres.JobRecord{
				ID:           jobID,
				CreatedAt:    time.Now().UTC(),
				ReceptorName: snap.ReceptorName,
				LigandName:   snap.LigandName,
				Params:       params,
				ArtifactKey:  artifactKey,
				ArtifactSize: int64(len(pkg.Data)),
			}
			if hErr := h.history.SaveJob(r.Context(), rec); hErr != nil {
				h.log.Error("recording job history failed",
					logging.String("job", jobID), logging.Err(hErr))
			}
		}
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pkg.Name))
	w.Header().Set("X-Job-Id", jobID)
	if artifactKey != "" {
		w.Header().Set("X-Artifact-Key", artifactKey)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pkg.Data)
}
