// Package docking defines the core value types of the job-preparation
// pipeline: uploaded molecule inputs, preparation settings, the spatial
// search region, engine search parameters, and parsed docking poses.
package docking

import (
	"path/filepath"
	"strings"
)

// Role identifies what an uploaded molecule file is used for.
type Role string

const (
	RoleReceptor  Role = "receptor"
	RoleLigand    Role = "ligand"
	RoleResultLog Role = "result_log"
)

// MoleculeInput is an uploaded structure file: an opaque byte payload plus a
// file-extension hint derived from the original name. The content is never
// inspected or validated against the extension; the docking engine is the
// authority on format correctness. Inputs are replaced wholesale on
// re-upload, never mutated in place.
type MoleculeInput struct {
	// Name is the original upload filename, kept for display only.
	Name string

	// Ext is the lowercase extension including the dot (".pdb", ".mol2").
	// Empty when the original name had no extension.
	Ext string

	// Data is the raw file content.
	Data []byte
}

// NewMoleculeInput builds a MoleculeInput from an upload, deriving the
// extension hint from name.
func NewMoleculeInput(name string, data []byte) MoleculeInput {
	return MoleculeInput{
		Name: name,
		Ext:  strings.ToLower(filepath.Ext(name)),
		Data: data,
	}
}

// PreparationConfig carries the chemistry-preparation flags for one job.
// There is exactly one pH value: when both receptor and ligand protonation
// are enabled they share it.
type PreparationConfig struct {
	// Receptor side.
	RemoveWater   bool    `json:"remove_water"`
	Protonate     bool    `json:"protonate"`
	PH            float64 `json:"ph"`               // meaningful only when a protonation flag is set
	AddForceField bool    `json:"add_force_field"`
	ForceField    string  `json:"force_field"`      // meaningful only when AddForceField is set

	// Ligand side.
	LigandProtonate bool   `json:"ligand_protonate"`
	LigandMinimize  bool   `json:"ligand_minimize"`
	ChargeMethod    string `json:"charge_method"` // always applied; independent of protonation
}

// SearchRegion is the grid box the engine searches: a center point and
// per-axis extents, both in ångströms.
type SearchRegion struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	CenterZ float64 `json:"center_z"`
	SizeX   float64 `json:"size_x"`
	SizeY   float64 `json:"size_y"`
	SizeZ   float64 `json:"size_z"`
}

// Degenerate reports whether any extent is zero or negative, which leaves the
// engine with no search volume. Construction does not enforce this; callers
// decide whether to warn or refuse.
func (r SearchRegion) Degenerate() bool {
	return r.SizeX <= 0 || r.SizeY <= 0 || r.SizeZ <= 0
}

// SearchParameters are the engine's search-effort knobs.
type SearchParameters struct {
	// Exhaustiveness controls how thoroughly the engine samples the region.
	Exhaustiveness int `json:"exhaustiveness"`

	// NumModes is the requested number of output poses.
	NumModes int `json:"num_modes"`

	// EnergyRange is the kcal/mol spread from the best pose to retain.
	EnergyRange float64 `json:"energy_range"`
}

// Suspicious reports parameter values the engine accepts but that almost
// certainly are not what the user meant. Mirrors SearchRegion.Degenerate:
// reported, never enforced.
func (p SearchParameters) Suspicious() bool {
	return p.Exhaustiveness <= 0 || p.NumModes <= 0
}

// DockingPose is one parsed result record. Mode is assigned by parse order
// (1-based); LogMode is the index the log itself carried on the matched line,
// kept so callers can detect when the engine's own numbering disagrees with
// the order of appearance.
type DockingPose struct {
	Mode      int     `json:"mode"`
	LogMode   int     `json:"log_mode"`
	Affinity  float64 `json:"affinity"`
	RMSDLower float64 `json:"rmsd_lb"`
	RMSDUpper float64 `json:"rmsd_ub"`
}
