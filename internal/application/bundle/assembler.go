// Package bundle composes a complete, self-contained docking job package:
// the engine configuration, the standardized raw inputs, the preparation
// scripts, and the run scripts, zipped under a date-stamped name.
//
// A package is assembled fully in memory and only then handed to the caller,
// so a failure mid-assembly never leaves a partial artifact behind.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anhth20011/dockprep/internal/application/engine"
	"github.com/anhth20011/dockprep/internal/application/pathcheck"
	"github.com/anhth20011/dockprep/internal/application/prep"
	"github.com/anhth20011/dockprep/internal/domain/docking"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// Stage identifies a real point of progress during assembly. Stages are
// emitted as the work actually happens; there is no timer-driven pacing.
type Stage string

const (
	StageConfigRendered  Stage = "config_rendered"
	StageScriptsRendered Stage = "scripts_rendered"
	StageArchiveWritten  Stage = "archive_written"
)

// ProgressFunc receives assembly stage events. May be nil.
type ProgressFunc func(Stage)

// Request carries everything needed to assemble one job package.
type Request struct {
	Receptor docking.MoleculeInput
	Ligand   docking.MoleculeInput
	Prep     docking.PreparationConfig
	Region   docking.SearchRegion
	Params   docking.SearchParameters

	// EnginePath is the user-supplied docking engine path. Empty means
	// "resolve from the execution host's search path".
	EnginePath string
}

// Package is one assembled artifact bundle.
type Package struct {
	// Name is the date-stamped archive filename.
	Name string

	// Data is the complete zip archive.
	Data []byte

	// Files lists the entry names inside the archive, in write order.
	Files []string
}

// Assembler builds job packages. The zero value is not usable; construct
// with NewAssembler.
type Assembler struct {
	engineBinary string
	prepTool     string
	log          logging.Logger

	// Injection points for tests.
	now  func() time.Time
	stat func(string) (os.FileInfo, error)
}

// NewAssembler returns an Assembler that generates packages targeting the
// given engine binary name and preparation tool.
func NewAssembler(engineBinary, prepTool string, log logging.Logger) *Assembler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Assembler{
		engineBinary: engineBinary,
		prepTool:     prepTool,
		log:          log.Named("bundle"),
		now:          time.Now,
		stat:         os.Stat,
	}
}

// resolveEngine decides what engine reference the run scripts embed: the
// user-supplied path when it is syntactically valid and exists on this host
// at generation time, otherwise the bare binary name left to the execution
// host's search path. Existence is a soft check only; a vanished path
// degrades to the bare name rather than failing generation.
func (a *Assembler) resolveEngine(userPath string) (ref string, fromPath bool) {
	if userPath == "" {
		return a.engineBinary, false
	}
	if _, err := a.stat(userPath); err != nil {
		a.log.Warn("configured engine path not found on this host, falling back to search path",
			logging.String("path", userPath))
		return a.engineBinary, false
	}
	return userPath, true
}

// standardizedName maps an uploaded file to its in-package name, keeping the
// extension hint so the preparation tool can recognise the format.
func standardizedName(base string, in docking.MoleculeInput) string {
	return base + in.Ext
}

// Assemble builds a fresh package for req. Progress events are emitted as
// each assembly stage completes; pass nil when no feedback surface exists.
func (a *Assembler) Assemble(req Request, progress ProgressFunc) (*Package, error) {
	if len(req.Receptor.Data) == 0 || len(req.Ligand.Data) == 0 {
		return nil, errors.New(errors.ErrCodeMissingInput,
			"both a receptor and a ligand are required to generate a package")
	}
	if err := pathcheck.ValidateEnginePath(req.EnginePath); err != nil {
		return nil, err
	}

	emit := func(s Stage) {
		if progress != nil {
			progress(s)
		}
	}

	if req.Region.Degenerate() {
		a.log.Warn("search region has a degenerate extent; generating anyway",
			logging.Float64("size_x", req.Region.SizeX),
			logging.Float64("size_y", req.Region.SizeY),
			logging.Float64("size_z", req.Region.SizeZ))
	}
	if req.Params.Suspicious() {
		a.log.Warn("search parameters look implausible; generating anyway",
			logging.Int("exhaustiveness", req.Params.Exhaustiveness),
			logging.Int("num_modes", req.Params.NumModes))
	}

	receptorRaw := standardizedName(ReceptorBase, req.Receptor)
	ligandRaw := standardizedName(LigandBase, req.Ligand)

	configText := engine.RenderConfig(engine.FilePaths{
		Receptor: PreparedReceptor,
		Ligand:   PreparedLigand,
		Out:      OutputPoses,
		Log:      OutputLog,
	}, req.Region, req.Params)
	emit(StageConfigRendered)

	plan := prep.BuildPlan(a.prepTool, req.Prep, prep.FileSet{
		ReceptorRaw:      receptorRaw,
		ReceptorPrepared: PreparedReceptor,
		LigandRaw:        ligandRaw,
		LigandPrepared:   PreparedLigand,
	})

	engineRef, fromPath := a.resolveEngine(req.EnginePath)

	entries := []struct {
		name string
		data []byte
	}{
		{ConfigFileName, []byte(configText)},
		{receptorRaw, req.Receptor.Data},
		{ligandRaw, req.Ligand.Data},
		{PrepScriptSh, []byte(plan.RenderShell())},
		{PrepScriptBat, []byte(plan.RenderBatch())},
		{RunScriptSh, []byte(renderRunShell(engineRef, fromPath))},
		{RunScriptBat, []byte(renderRunBatch(engineRef, fromPath))},
	}
	emit(StageScriptsRendered)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var names []string
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodePackageFailed,
				"creating archive entry %s", e.name)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodePackageFailed,
				"writing archive entry %s", e.name)
		}
		names = append(names, e.name)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePackageFailed, "finalizing archive")
	}
	emit(StageArchiveWritten)

	pkg := &Package{
		Name:  ArchiveName(a.now()),
		Data:  buf.Bytes(),
		Files: names,
	}
	a.log.Info("job package assembled",
		logging.String("name", pkg.Name),
		logging.Int("files", len(pkg.Files)),
		logging.Int("bytes", len(pkg.Data)),
		logging.Bool("engine_from_path", fromPath))
	return pkg, nil
}

// renderRunShell renders the POSIX run script: prepare, then dock, then
// propagate the engine's exit status.
func renderRunShell(engineRef string, fromPath bool) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Run the prepared docking job.\n\n")
	b.WriteString("echo \"Step 1/2: preparing structures\"\n")
	fmt.Fprintf(&b, "sh %s\n\n", PrepScriptSh)
	b.WriteString("echo \"Step 2/2: docking\"\n")
	fmt.Fprintf(&b, "echo \"Using docking engine: %s (%s)\"\n", engineRef, resolutionNote(fromPath))
	fmt.Fprintf(&b, "if ! %s --config %s; then\n", engineRef, ConfigFileName)
	fmt.Fprintf(&b, "    echo \"Docking failed; inspect %s for details\" >&2\n", OutputLog)
	b.WriteString("    exit 1\n")
	b.WriteString("fi\n")
	fmt.Fprintf(&b, "echo \"Docking complete: poses written to %s\"\n", OutputPoses)
	return b.String()
}

// renderRunBatch renders the Windows run script with the same contract.
func renderRunBatch(engineRef string, fromPath bool) string {
	var b strings.Builder
	b.WriteString("@echo off\n")
	b.WriteString("rem Run the prepared docking job.\n\n")
	b.WriteString("echo Step 1/2: preparing structures\n")
	fmt.Fprintf(&b, "call %s\n\n", PrepScriptBat)
	b.WriteString("echo Step 2/2: docking\n")
	fmt.Fprintf(&b, "echo Using docking engine: %s [%s]\n", engineRef, resolutionNote(fromPath))
	fmt.Fprintf(&b, "%s --config %s\n", engineRef, ConfigFileName)
	b.WriteString("if errorlevel 1 goto failed\n")
	fmt.Fprintf(&b, "echo Docking complete: poses written to %s\n", OutputPoses)
	b.WriteString("exit /b 0\n\n")
	b.WriteString(":failed\n")
	fmt.Fprintf(&b, "echo Docking failed; inspect %s for details\n", OutputLog)
	b.WriteString("exit /b 1\n")
	return b.String()
}

func resolutionNote(fromPath bool) string {
	if fromPath {
		return "configured path"
	}
	return "from search path"
}
