// Package engine renders the flat key=value configuration file consumed by
// the AutoDock Vina family of docking engines. The key set and order are the
// engine's wire contract, not a free-form format: renaming or reordering a
// key breaks the generated package.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anhth20011/dockprep/internal/domain/docking"
)

// FilePaths names the files the engine reads and writes, relative to the job
// package root.
type FilePaths struct {
	Receptor string
	Ligand   string
	Out      string
	Log      string
}

// formatNum renders a float with its shortest exact decimal representation,
// so 20.0 emits "20" and 7.4 emits "7.4". The engine parses both; what
// matters is that the user's value round-trips without implicit rounding.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderConfig produces the engine configuration text. Key order is fixed:
// receptor, ligand, center_x/y/z, size_x/y/z, exhaustiveness, num_modes,
// energy_range, out, log.
//
// Values are rendered verbatim, including physically meaningless ones such as
// a zero-size region; the engine is the authority on rejecting those.
func RenderConfig(paths FilePaths, region docking.SearchRegion, params docking.SearchParameters) string {
	var b strings.Builder

	line := func(key, value string) {
		fmt.Fprintf(&b, "%s = %s\n", key, value)
	}

	line("receptor", paths.Receptor)
	line("ligand", paths.Ligand)
	b.WriteString("\n")
	line("center_x", formatNum(region.CenterX))
	line("center_y", formatNum(region.CenterY))
	line("center_z", formatNum(region.CenterZ))
	line("size_x", formatNum(region.SizeX))
	line("size_y", formatNum(region.SizeY))
	line("size_z", formatNum(region.SizeZ))
	b.WriteString("\n")
	line("exhaustiveness", strconv.Itoa(params.Exhaustiveness))
	line("num_modes", strconv.Itoa(params.NumModes))
	line("energy_range", formatNum(params.EnergyRange))
	b.WriteString("\n")
	line("out", paths.Out)
	line("log", paths.Log)

	return b.String()
}
