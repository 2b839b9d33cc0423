// Package prep builds the chemistry-preparation command pipeline for a
// docking job and renders it into platform scripts.
//
// The pipeline is computed once, as an ordered list of Command values, and
// both script renderers (POSIX sh and Windows batch) consume that same list.
// The two scripts are therefore incapable of drifting apart in which
// commands they run; only the surrounding control-flow syntax differs.
package prep

import (
	"strconv"
	"strings"

	"github.com/anhth20011/dockprep/internal/domain/docking"
)

// Command is one invocation of the preparation tool: the tool name plus its
// ordered argument list.
type Command struct {
	Tool string
	Args []string
}

// String renders the command as a single shell line.
func (c Command) String() string {
	return c.Tool + " " + strings.Join(c.Args, " ")
}

// CopyStep is the degraded fallback when the preparation tool is absent from
// the execution host: the raw input is copied to the prepared output name
// unchanged so the run script can still proceed.
type CopyStep struct {
	From string
	To   string
}

// Plan is the platform-neutral preparation pipeline: the tool to probe for,
// the commands to run when it is present, and the copy fallbacks when it is
// not. Build once, render twice.
type Plan struct {
	Tool      string
	Commands  []Command
	Fallbacks []CopyStep
}

// FileSet names the raw inputs and prepared outputs the pipeline reads and
// writes, relative to the job package root.
type FileSet struct {
	ReceptorRaw      string
	ReceptorPrepared string
	LigandRaw        string
	LigandPrepared   string
}

func formatPH(ph float64) string {
	return strconv.FormatFloat(ph, 'f', -1, 64)
}

// buildReceptorCommand assembles the receptor preparation invocation. Step
// order is fixed: convert, then delete solvent, then protonate, then
// minimize with the named force field — each conditional on its flag.
func buildReceptorCommand(tool string, cfg docking.PreparationConfig, files FileSet) Command {
	args := []string{files.ReceptorRaw, "-O", files.ReceptorPrepared, "-xr"}
	if cfg.RemoveWater {
		args = append(args, "--delete", "HOH")
	}
	if cfg.Protonate {
		args = append(args, "-p", formatPH(cfg.PH))
	}
	if cfg.AddForceField {
		args = append(args, "--minimize", "--ff", cfg.ForceField)
	}
	return Command{Tool: tool, Args: args}
}

// buildLigandCommand assembles the ligand preparation invocation. The pH is
// the same value the receptor uses; there is exactly one pH setting per job.
// Charge assignment is always requested: it is a separate concern from
// protonation, so it does not depend on the protonation flag.
func buildLigandCommand(tool string, cfg docking.PreparationConfig, files FileSet) Command {
	args := []string{files.LigandRaw, "-O", files.LigandPrepared}
	if cfg.LigandProtonate {
		args = append(args, "-p", formatPH(cfg.PH))
	}
	if cfg.LigandMinimize {
		args = append(args, "--gen3d")
	}
	args = append(args, "--partialcharge", cfg.ChargeMethod)
	return Command{Tool: tool, Args: args}
}

// BuildPlan computes the preparation pipeline for one job: receptor command
// first, ligand command second, plus the copy fallbacks in the same order.
func BuildPlan(tool string, cfg docking.PreparationConfig, files FileSet) Plan {
	return Plan{
		Tool: tool,
		Commands: []Command{
			buildReceptorCommand(tool, cfg, files),
			buildLigandCommand(tool, cfg, files),
		},
		Fallbacks: []CopyStep{
			{From: files.ReceptorRaw, To: files.ReceptorPrepared},
			{From: files.LigandRaw, To: files.LigandPrepared},
		},
	}
}
