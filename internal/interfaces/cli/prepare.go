package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anhth20011/dockprep/internal/application/bundle"
	"github.com/anhth20011/dockprep/internal/domain/docking"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
)

// prepareOptions collects the flags of the prepare command.
type prepareOptions struct {
	receptorPath string
	ligandPath   string
	outputPath   string
	enginePath   string

	removeWater     bool
	protonate       bool
	ph              float64
	forceField      string
	ligandProtonate bool
	ligandMinimize  bool
	chargeMethod    string

	centerX, centerY, centerZ float64
	sizeX, sizeY, sizeZ       float64

	exhaustiveness int
	numModes       int
	energyRange    float64

	quiet bool
}

func newPrepareCmd(deps *runtimeDeps) *cobra.Command {
	opts := &prepareOptions{}

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Assemble a docking job package",
		Long: "Reads a receptor and a ligand structure, renders the engine configuration\n" +
			"and the preparation/run scripts, and writes everything into one zip archive\n" +
			"ready to copy to the execution host.",
		Example: `  dockprep prepare --receptor 4hhb.pdb --ligand aspirin.mol2 \
      --center-x 12.1 --center-y -3.4 --center-z 25.0 \
      --remove-water --protonate --ph 7.4 -o job.zip`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrepare(cmd, deps, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.receptorPath, "receptor", "", "receptor structure file (required)")
	f.StringVar(&opts.ligandPath, "ligand", "", "ligand structure file (required)")
	f.StringVarP(&opts.outputPath, "output", "o", "", "output archive path (default: docking_job_<date>.zip)")
	f.StringVar(&opts.enginePath, "engine-path", "", "docking engine path on the execution host")

	f.BoolVar(&opts.removeWater, "remove-water", false, "strip water residues from the receptor")
	f.BoolVar(&opts.protonate, "protonate", false, "protonate the receptor at --ph")
	f.Float64Var(&opts.ph, "ph", 7.4, "protonation pH, shared by receptor and ligand")
	f.StringVar(&opts.forceField, "force-field", "", "minimize the receptor with this force field (e.g. mmff94)")
	f.BoolVar(&opts.ligandProtonate, "ligand-protonate", false, "protonate the ligand at --ph")
	f.BoolVar(&opts.ligandMinimize, "ligand-minimize", false, "regenerate ligand 3D coordinates")
	f.StringVar(&opts.chargeMethod, "charge-method", "gasteiger", "partial charge method for the ligand")

	f.Float64Var(&opts.centerX, "center-x", 0, "search box center X (Å)")
	f.Float64Var(&opts.centerY, "center-y", 0, "search box center Y (Å)")
	f.Float64Var(&opts.centerZ, "center-z", 0, "search box center Z (Å)")
	f.Float64Var(&opts.sizeX, "size-x", 20, "search box size X (Å)")
	f.Float64Var(&opts.sizeY, "size-y", 20, "search box size Y (Å)")
	f.Float64Var(&opts.sizeZ, "size-z", 20, "search box size Z (Å)")

	f.IntVar(&opts.exhaustiveness, "exhaustiveness", 8, "search exhaustiveness")
	f.IntVar(&opts.numModes, "num-modes", 9, "maximum number of binding modes")
	f.Float64Var(&opts.energyRange, "energy-range", 3, "maximum energy difference to the best mode (kcal/mol)")

	f.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")

	_ = cmd.MarkFlagRequired("receptor")
	_ = cmd.MarkFlagRequired("ligand")

	return cmd
}

func runPrepare(cmd *cobra.Command, deps *runtimeDeps, opts *prepareOptions) error {
	receptor, err := readMolecule(opts.receptorPath)
	if err != nil {
		return fmt.Errorf("reading receptor: %w", err)
	}
	ligand, err := readMolecule(opts.ligandPath)
	if err != nil {
		return fmt.Errorf("reading ligand: %w", err)
	}

	req := bundle.Request{
		Receptor: receptor,
		Ligand:   ligand,
		Prep: docking.PreparationConfig{
			RemoveWater:     opts.removeWater,
			Protonate:       opts.protonate,
			PH:              opts.ph,
			AddForceField:   opts.forceField != "",
			ForceField:      opts.forceField,
			LigandProtonate: opts.ligandProtonate,
			LigandMinimize:  opts.ligandMinimize,
			ChargeMethod:    opts.chargeMethod,
		},
		Region: docking.SearchRegion{
			CenterX: opts.centerX, CenterY: opts.centerY, CenterZ: opts.centerZ,
			SizeX: opts.sizeX, SizeY: opts.sizeY, SizeZ: opts.sizeZ,
		},
		Params: docking.SearchParameters{
			Exhaustiveness: opts.exhaustiveness,
			NumModes:       opts.numModes,
			EnergyRange:    opts.energyRange,
		},
		EnginePath: opts.enginePath,
	}

	var progress bundle.ProgressFunc
	if !opts.quiet {
		progress = func(stage bundle.Stage) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", stage)
		}
	}

	assembler := bundle.NewAssembler(deps.cfg.Engine.Binary, deps.cfg.Engine.PrepTool, deps.log)
	pkg, err := assembler.Assemble(req, progress)
	if err != nil {
		return err
	}

	out := opts.outputPath
	if out == "" {
		out = pkg.Name
	}
	if err := os.WriteFile(out, pkg.Data, 0o644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	deps.log.Info("package written",
		logging.String("path", out),
		logging.Int("bytes", len(pkg.Data)))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func readMolecule(path string) (docking.MoleculeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return docking.MoleculeInput{}, err
	}
	in := docking.NewMoleculeInput(filepath.Base(path), data)
	return in, nil
}
