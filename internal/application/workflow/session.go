// Package workflow drives the four-step docking-job wizard: input
// acquisition, chemical-preparation configuration, search-region definition,
// and package generation / result ingestion.
//
// All mutation goes through the Session, which serializes actions with a
// mutex: one logical thread of control per session, matching the single-user
// wizard it models. Validation with real failure modes lives in the
// downstream components (pathcheck, bundle); the state machine itself only
// enforces step ordering and the input guard.
package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anhth20011/dockprep/internal/application/bundle"
	"github.com/anhth20011/dockprep/internal/application/pathcheck"
	"github.com/anhth20011/dockprep/internal/domain/docking"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// Session is one wizard run. Create with NewSession; all methods are safe
// for concurrent use, though in practice a session has a single owner.
type Session struct {
	mu sync.Mutex

	id        string
	step      Step
	createdAt time.Time

	receptor  *docking.MoleculeInput
	ligand    *docking.MoleculeInput
	resultLog *docking.MoleculeInput

	prep       docking.PreparationConfig
	region     docking.SearchRegion
	params     docking.SearchParameters
	enginePath string

	generating bool
}

// NewSession returns a Session at StepInput with default search parameters.
func NewSession() *Session {
	return &Session{
		id:        uuid.NewString(),
		step:      StepInput,
		createdAt: time.Now(),
		prep: docking.PreparationConfig{
			PH:           7.4,
			ForceField:   "mmff94",
			ChargeMethod: "gasteiger",
		},
		region: docking.SearchRegion{SizeX: 20, SizeY: 20, SizeZ: 20},
		params: docking.SearchParameters{Exhaustiveness: 8, NumModes: 9, EnergyRange: 3},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Step returns the current wizard step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// requireStep fails unless the session is at want.
func (s *Session) requireStep(want Step, action string) error {
	if s.step != want {
		return errors.Newf(errors.ErrCodeInvalidTransition,
			"%s is only possible at the %s step (current: %s)", action, want, s.step)
	}
	return nil
}

// SetReceptor replaces the receptor input wholesale. Uploads happen at the
// input step; going back re-opens it.
func (s *Session) SetReceptor(in docking.MoleculeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepInput, "uploading a receptor"); err != nil {
		return err
	}
	s.receptor = &in
	return nil
}

// SetLigand replaces the ligand input wholesale.
func (s *Session) SetLigand(in docking.MoleculeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepInput, "uploading a ligand"); err != nil {
		return err
	}
	s.ligand = &in
	return nil
}

// SetPreparation stores the chemistry-preparation flags.
func (s *Session) SetPreparation(cfg docking.PreparationConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepPreparation, "configuring preparation"); err != nil {
		return err
	}
	s.prep = cfg
	return nil
}

// SetRegion stores the search grid box. Degenerate extents are accepted;
// the generation path warns about them but renders the values verbatim.
func (s *Session) SetRegion(region docking.SearchRegion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepSearchRegion, "defining the search region"); err != nil {
		return err
	}
	s.region = region
	return nil
}

// SetParams stores the engine search parameters.
func (s *Session) SetParams(params docking.SearchParameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepSearchRegion, "setting search parameters"); err != nil {
		return err
	}
	s.params = params
	return nil
}

// SetEnginePath stores the user-supplied engine path after syntactic
// validation. An empty path clears it.
func (s *Session) SetEnginePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepSearchRegion, "setting the engine path"); err != nil {
		return err
	}
	if err := pathcheck.ValidateEnginePath(path); err != nil {
		return err
	}
	s.enginePath = path
	return nil
}

// AttachResultLog stores an uploaded engine result log. Once present it is
// preferred over the original ligand as the visualization source.
func (s *Session) AttachResultLog(in docking.MoleculeInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStep(StepExecution, "uploading a result log"); err != nil {
		return err
	}
	s.resultLog = &in
	return nil
}

// Advance moves one step forward. The only hard gate is leaving StepInput,
// which requires both molecule uploads; later steps accept whatever values
// the user typed.
func (s *Session) Advance() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.step.next()
	if !ok {
		return s.step, errors.Newf(errors.ErrCodeInvalidTransition,
			"already at the terminal %s step", s.step)
	}
	if s.step == StepInput && (s.receptor == nil || s.ligand == nil) {
		return s.step, errors.New(errors.ErrCodeMissingInput,
			"a receptor and a ligand must be uploaded before continuing")
	}
	s.step = next
	return s.step, nil
}

// Back moves one step backward.
func (s *Session) Back() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.step.prev()
	if !ok {
		return s.step, errors.Newf(errors.ErrCodeInvalidTransition,
			"already at the first %s step", s.step)
	}
	s.step = prev
	return s.step, nil
}

// GeneratePackage assembles the job package from the accumulated state and
// auto-advances the session to StepExecution. Only one generation may be in
// flight per session; a second request while one is outstanding is refused
// rather than queued.
func (s *Session) GeneratePackage(a *bundle.Assembler, progress bundle.ProgressFunc) (*bundle.Package, error) {
	s.mu.Lock()
	if s.step != StepSearchRegion && s.step != StepExecution {
		s.mu.Unlock()
		return nil, errors.Newf(errors.ErrCodeInvalidTransition,
			"package generation is only possible after the search region is defined (current: %s)", s.step)
	}
	if s.generating {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeGenerationBusy,
			"a package generation is already in progress for this session")
	}
	s.generating = true
	req := bundle.Request{
		Prep:       s.prep,
		Region:     s.region,
		Params:     s.params,
		EnginePath: s.enginePath,
	}
	if s.receptor != nil {
		req.Receptor = *s.receptor
	}
	if s.ligand != nil {
		req.Ligand = *s.ligand
	}
	s.mu.Unlock()

	pkg, err := a.Assemble(req, progress)

	s.mu.Lock()
	s.generating = false
	if err == nil {
		s.step = StepExecution
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// VisualizationSource returns the input the viewer should render alongside
// the receptor: the uploaded result log when present, otherwise the original
// ligand. Nil when neither exists.
func (s *Session) VisualizationSource() *docking.MoleculeInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resultLog != nil {
		return s.resultLog
	}
	return s.ligand
}

// Snapshot is a read-only view of a session for API responses.
type Snapshot struct {
	ID            string                    `json:"id"`
	Step          string                    `json:"step"`
	CreatedAt     time.Time                 `json:"created_at"`
	ReceptorName  string                    `json:"receptor_name,omitempty"`
	LigandName    string                    `json:"ligand_name,omitempty"`
	ResultLogName string                    `json:"result_log_name,omitempty"`

	// VisualizationSource names the input a viewer should render next to
	// the receptor: the result log when one has been uploaded, otherwise
	// the ligand.
	VisualizationSource string `json:"visualization_source,omitempty"`
	Prep          docking.PreparationConfig `json:"preparation"`
	Region        docking.SearchRegion      `json:"search_region"`
	Params        docking.SearchParameters  `json:"search_parameters"`
	EnginePath    string                    `json:"engine_path,omitempty"`
	Generating    bool                      `json:"generating"`
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		Step:       s.step.String(),
		CreatedAt:  s.createdAt,
		Prep:       s.prep,
		Region:     s.region,
		Params:     s.params,
		EnginePath: s.enginePath,
		Generating: s.generating,
	}
	if s.receptor != nil {
		snap.ReceptorName = s.receptor.Name
	}
	if s.ligand != nil {
		snap.LigandName = s.ligand.Name
		snap.VisualizationSource = s.ligand.Name
	}
	if s.resultLog != nil {
		snap.ResultLogName = s.resultLog.Name
		snap.VisualizationSource = s.resultLog.Name
	}
	return snap
}
