package bundle

import (
	"fmt"
	"time"
)

// Canonical artifact names inside a job package. The run and preparation
// scripts reference these names, so they are fixed regardless of what the
// user originally called the uploaded files.
const (
	ConfigFileName = "config.txt"

	PrepScriptSh  = "prepare_structures.sh"
	PrepScriptBat = "prepare_structures.bat"
	RunScriptSh   = "run_job.sh"
	RunScriptBat  = "run_job.bat"

	ReceptorBase     = "receptor"
	LigandBase       = "ligand"
	PreparedReceptor = "receptor.pdbqt"
	PreparedLigand   = "ligand.pdbqt"

	OutputPoses = "docking_out.pdbqt"
	OutputLog   = "docking_out.log"
)

// ArchiveName returns the package filename for the given generation time,
// e.g. "docking_job_2026-08-31.zip".
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("docking_job_%s.zip", t.Format("2006-01-02"))
}
