package engine

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhth20011/dockprep/internal/domain/docking"
)

var testPaths = FilePaths{
	Receptor: "receptor.pdbqt",
	Ligand:   "ligand.pdbqt",
	Out:      "docking_out.pdbqt",
	Log:      "docking_out.log",
}

func TestRenderConfigKeyOrderAndUniqueness(t *testing.T) {
	text := RenderConfig(testPaths,
		docking.SearchRegion{CenterX: 1.5, CenterY: -2, CenterZ: 0, SizeX: 20, SizeY: 22, SizeZ: 24},
		docking.SearchParameters{Exhaustiveness: 8, NumModes: 9, EnergyRange: 3},
	)

	wantOrder := []string{
		"receptor", "ligand",
		"center_x", "center_y", "center_z",
		"size_x", "size_y", "size_z",
		"exhaustiveness", "num_modes", "energy_range",
		"out", "log",
	}

	keyLine := regexp.MustCompile(`(?m)^(\w+) = `)
	var gotOrder []string
	for _, m := range keyLine.FindAllStringSubmatch(text, -1) {
		gotOrder = append(gotOrder, m[1])
	}
	require.Equal(t, wantOrder, gotOrder)

	// Every key appears exactly once.
	for _, key := range wantOrder {
		pattern := regexp.MustCompile(`(?m)^` + key + ` = `)
		assert.Len(t, pattern.FindAllString(text, -1), 1,
			"key %q must appear exactly once", key)
	}
}

func TestRenderConfigValues(t *testing.T) {
	text := RenderConfig(testPaths,
		docking.SearchRegion{SizeX: 20, SizeY: 20, SizeZ: 20},
		docking.SearchParameters{Exhaustiveness: 8, NumModes: 9, EnergyRange: 3},
	)

	assert.Contains(t, text, "receptor = receptor.pdbqt\n")
	assert.Contains(t, text, "size_x = 20\n")
	assert.Contains(t, text, "exhaustiveness = 8\n")
	assert.Contains(t, text, "center_x = 0\n")
	assert.Contains(t, text, "energy_range = 3\n")
	assert.Contains(t, text, "out = docking_out.pdbqt\n")
	assert.Contains(t, text, "log = docking_out.log\n")
}

func TestRenderConfigNoRounding(t *testing.T) {
	text := RenderConfig(testPaths,
		docking.SearchRegion{CenterX: 12.345678, SizeX: 20.25, SizeY: 20, SizeZ: 20},
		docking.SearchParameters{Exhaustiveness: 8, NumModes: 9, EnergyRange: 3.5},
	)

	assert.Contains(t, text, "center_x = 12.345678\n")
	assert.Contains(t, text, "size_x = 20.25\n")
	assert.Contains(t, text, "energy_range = 3.5\n")
}

func TestRenderConfigRendersDegenerateValuesVerbatim(t *testing.T) {
	// Zero and negative extents are a known gap: rendered without complaint.
	text := RenderConfig(testPaths,
		docking.SearchRegion{SizeX: 0, SizeY: -5, SizeZ: 20},
		docking.SearchParameters{Exhaustiveness: 0, NumModes: 9},
	)

	assert.Contains(t, text, "size_x = 0\n")
	assert.Contains(t, text, "size_y = -5\n")
	assert.Contains(t, text, "exhaustiveness = 0\n")
}
