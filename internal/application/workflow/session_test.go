package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhth20011/dockprep/internal/application/bundle"
	"github.com/anhth20011/dockprep/internal/domain/docking"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/pkg/errors"
)

func receptorInput() docking.MoleculeInput {
	return docking.NewMoleculeInput("protein.pdb", []byte("ATOM P"))
}

func ligandInput() docking.MoleculeInput {
	return docking.NewMoleculeInput("drug.mol2", []byte("ATOM L"))
}

// sessionAt walks a fresh session to the requested step.
func sessionAt(t *testing.T, step Step) *Session {
	t.Helper()
	s := NewSession()
	if step == StepInput {
		return s
	}
	require.NoError(t, s.SetReceptor(receptorInput()))
	require.NoError(t, s.SetLigand(ligandInput()))
	for s.Step() < step {
		_, err := s.Advance()
		require.NoError(t, err)
	}
	return s
}

func testAssembler() *bundle.Assembler {
	return bundle.NewAssembler("vina", "obabel", logging.NewNopLogger())
}

func TestNewSessionStartsAtInput(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StepInput, s.Step())
	assert.NotEmpty(t, s.ID())
}

func TestAdvanceRequiresBothInputs(t *testing.T) {
	s := NewSession()

	_, err := s.Advance()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingInput))

	require.NoError(t, s.SetReceptor(receptorInput()))
	_, err = s.Advance()
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingInput))

	require.NoError(t, s.SetLigand(ligandInput()))
	step, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, StepPreparation, step)
}

func TestForwardAndBackWalk(t *testing.T) {
	s := sessionAt(t, StepPreparation)

	step, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, StepSearchRegion, step)

	step, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, StepExecution, step)

	// Terminal step has no forward transition.
	_, err = s.Advance()
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))

	// Walk all the way back.
	for want := StepSearchRegion; want >= StepInput; want-- {
		step, err = s.Back()
		require.NoError(t, err)
		assert.Equal(t, want, step)
	}
	_, err = s.Back()
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))
}

func TestStepGatesMutations(t *testing.T) {
	s := sessionAt(t, StepPreparation)

	// Uploads belong to the input step.
	err := s.SetReceptor(receptorInput())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))

	// Region/params belong to the search-region step.
	err = s.SetRegion(docking.SearchRegion{SizeX: 10, SizeY: 10, SizeZ: 10})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))

	require.NoError(t, s.SetPreparation(docking.PreparationConfig{RemoveWater: true, ChargeMethod: "eem"}))
	assert.True(t, s.Snapshot().Prep.RemoveWater)
}

func TestReuploadReplacesWholesale(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetReceptor(receptorInput()))
	require.NoError(t, s.SetReceptor(docking.NewMoleculeInput("other.pdbqt", []byte("X"))))

	assert.Equal(t, "other.pdbqt", s.Snapshot().ReceptorName)
}

func TestSetEnginePathValidates(t *testing.T) {
	s := sessionAt(t, StepSearchRegion)

	err := s.SetEnginePath("vina|exe")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidEnginePath))

	require.NoError(t, s.SetEnginePath("/usr/local/bin/vina"))
	assert.Equal(t, "/usr/local/bin/vina", s.Snapshot().EnginePath)

	// Empty clears the setting.
	require.NoError(t, s.SetEnginePath(""))
	assert.Empty(t, s.Snapshot().EnginePath)
}

func TestGeneratePackageAutoAdvances(t *testing.T) {
	s := sessionAt(t, StepSearchRegion)

	pkg, err := s.GeneratePackage(testAssembler(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, pkg.Data)
	assert.Equal(t, StepExecution, s.Step())

	// Regeneration from the execution step is allowed.
	_, err = s.GeneratePackage(testAssembler(), nil)
	require.NoError(t, err)
	assert.Equal(t, StepExecution, s.Step())
}

func TestGeneratePackageRequiresSearchRegionStep(t *testing.T) {
	s := sessionAt(t, StepPreparation)

	_, err := s.GeneratePackage(testAssembler(), nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))
	assert.Equal(t, StepPreparation, s.Step())
}

func TestGenerationFailureKeepsStep(t *testing.T) {
	// A ligand upload with empty content passes the input guard but fails
	// assembly, exercising the failure path.
	s2 := NewSession()
	require.NoError(t, s2.SetReceptor(receptorInput()))
	require.NoError(t, s2.SetLigand(docking.NewMoleculeInput("empty.mol2", nil)))
	_, err := s2.Advance()
	require.NoError(t, err)
	_, err = s2.Advance()
	require.NoError(t, err)

	_, err = s2.GeneratePackage(testAssembler(), nil)
	require.Error(t, err)
	assert.Equal(t, StepSearchRegion, s2.Step())
	// The in-flight flag is cleared even on failure.
	assert.False(t, s2.Snapshot().Generating)
}

func TestVisualizationSourcePrefersResultLog(t *testing.T) {
	s := sessionAt(t, StepExecution)

	src := s.VisualizationSource()
	require.NotNil(t, src)
	assert.Equal(t, "drug.mol2", src.Name)

	require.NoError(t, s.AttachResultLog(docking.NewMoleculeInput("run.log", []byte("mode ..."))))
	src = s.VisualizationSource()
	require.NotNil(t, src)
	assert.Equal(t, "run.log", src.Name)
	assert.Equal(t, "run.log", s.Snapshot().VisualizationSource)
}

func TestAttachResultLogOnlyAtExecution(t *testing.T) {
	s := sessionAt(t, StepSearchRegion)
	err := s.AttachResultLog(docking.NewMoleculeInput("run.log", []byte("x")))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidTransition))
}

func TestSnapshotDefaults(t *testing.T) {
	snap := NewSession().Snapshot()

	assert.Equal(t, "input", snap.Step)
	assert.Equal(t, 7.4, snap.Prep.PH)
	assert.Equal(t, "gasteiger", snap.Prep.ChargeMethod)
	assert.Equal(t, 8, snap.Params.Exhaustiveness)
	assert.Equal(t, 9, snap.Params.NumModes)
	assert.WithinDuration(t, time.Now(), snap.CreatedAt, time.Minute)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	s := m.Create()
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("unknown")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))

	m.Delete(s.ID())
	assert.Equal(t, 0, m.Count())
	m.Delete(s.ID()) // idempotent
}
