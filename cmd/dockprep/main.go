// Command dockprep is the CLI for assembling docking job packages and
// inspecting result logs.
package main

import (
	"fmt"
	"os"

	"github.com/anhth20011/dockprep/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
