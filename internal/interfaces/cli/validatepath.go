package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anhth20011/dockprep/internal/application/pathcheck"
)

func newValidatePathCmd(_ *runtimeDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-path <path>",
		Short: "Check a docking engine path for syntactic problems",
		Long: "Runs the same syntactic check the package generator applies to a configured\n" +
			"engine path: reserved characters and directory-like trailing separators are\n" +
			"rejected. The path is not required to exist on this machine.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pathcheck.ValidateEnginePath(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
