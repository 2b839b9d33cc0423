package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anhth20011/dockprep/internal/application/result"
	"github.com/anhth20011/dockprep/internal/domain/docking"
)

func newParseCmd(_ *runtimeDeps) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse [logfile]",
		Short: "Extract binding poses from a docking result log",
		Long: "Reads a result log (from the given file, or stdin when omitted) and prints\n" +
			"the extracted binding modes with their affinities and RMSD values. A log\n" +
			"with no result table yields an empty result, not an error.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				text []byte
				err  error
			)
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading result log: %w", err)
			}

			poses := result.Parse(string(text))
			switch output {
			case "json":
				return writePosesJSON(cmd.OutOrStdout(), poses)
			case "text":
				return writePosesTable(cmd.OutOrStdout(), poses)
			default:
				return fmt.Errorf("invalid output format %q (must be text or json)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func writePosesJSON(w io.Writer, poses []docking.DockingPose) error {
	if poses == nil {
		poses = []docking.DockingPose{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(poses)
}

func writePosesTable(w io.Writer, poses []docking.DockingPose) error {
	if len(poses) == 0 {
		fmt.Fprintln(w, "no binding modes found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tAFFINITY (kcal/mol)\tRMSD L.B.\tRMSD U.B.")
	for _, p := range poses {
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\n", p.Mode, p.Affinity, p.RMSDLower, p.RMSDUpper)
	}
	if result.Renumbered(poses) {
		fmt.Fprintln(tw, "\nnote: modes renumbered by order of appearance; the log's own numbering disagreed")
	}
	return tw.Flush()
}
