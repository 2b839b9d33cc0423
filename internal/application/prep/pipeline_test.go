package prep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhth20011/dockprep/internal/domain/docking"
)

var testFiles = FileSet{
	ReceptorRaw:      "receptor.pdb",
	ReceptorPrepared: "receptor.pdbqt",
	LigandRaw:        "ligand.mol2",
	LigandPrepared:   "ligand.pdbqt",
}

func fullConfig() docking.PreparationConfig {
	return docking.PreparationConfig{
		RemoveWater:     true,
		Protonate:       true,
		PH:              7.4,
		AddForceField:   true,
		ForceField:      "mmff94",
		LigandProtonate: true,
		LigandMinimize:  true,
		ChargeMethod:    "gasteiger",
	}
}

func TestReceptorCommandAllFlags(t *testing.T) {
	plan := BuildPlan("obabel", fullConfig(), testFiles)
	require.Len(t, plan.Commands, 2)

	receptor := plan.Commands[0].String()
	assert.Equal(t,
		"obabel receptor.pdb -O receptor.pdbqt -xr --delete HOH -p 7.4 --minimize --ff mmff94",
		receptor)
}

func TestLigandCommandAllFlags(t *testing.T) {
	plan := BuildPlan("obabel", fullConfig(), testFiles)

	ligand := plan.Commands[1].String()
	assert.Equal(t,
		"obabel ligand.mol2 -O ligand.pdbqt -p 7.4 --gen3d --partialcharge gasteiger",
		ligand)
}

func TestFlagTruthTable(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*docking.PreparationConfig)
		absent  []string
		present []string
	}{
		{
			name:   "no water removal",
			mutate: func(c *docking.PreparationConfig) { c.RemoveWater = false },
			absent: []string{"--delete"},
		},
		{
			name:    "no receptor protonation",
			mutate:  func(c *docking.PreparationConfig) { c.Protonate = false },
			absent:  []string{"receptor.pdbqt -xr -p"},
			present: []string{"-p 7.4"}, // ligand side still protonates
		},
		{
			name:   "no force field",
			mutate: func(c *docking.PreparationConfig) { c.AddForceField = false },
			absent: []string{"--minimize", "--ff"},
		},
		{
			name:   "no ligand minimization",
			mutate: func(c *docking.PreparationConfig) { c.LigandMinimize = false },
			absent: []string{"--gen3d"},
		},
		{
			name: "charge method survives disabled protonation",
			mutate: func(c *docking.PreparationConfig) {
				c.Protonate = false
				c.LigandProtonate = false
			},
			absent:  []string{"-p 7.4"},
			present: []string{"--partialcharge gasteiger"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullConfig()
			tt.mutate(&cfg)
			plan := BuildPlan("obabel", cfg, testFiles)

			joined := plan.Commands[0].String() + "\n" + plan.Commands[1].String()
			for _, s := range tt.absent {
				assert.NotContains(t, joined, s)
			}
			for _, s := range tt.present {
				assert.Contains(t, joined, s)
			}
		})
	}
}

func TestSharedPH(t *testing.T) {
	cfg := fullConfig()
	cfg.PH = 6.5
	plan := BuildPlan("obabel", cfg, testFiles)

	// Both commands carry the single configured pH.
	assert.Contains(t, plan.Commands[0].String(), "-p 6.5")
	assert.Contains(t, plan.Commands[1].String(), "-p 6.5")
}

func TestRenderParity(t *testing.T) {
	plan := BuildPlan("obabel", fullConfig(), testFiles)
	sh := plan.RenderShell()
	bat := plan.RenderBatch()

	// Both scripts must contain the exact same command strings.
	for _, cmd := range plan.Commands {
		assert.Contains(t, sh, cmd.String())
		assert.Contains(t, bat, cmd.String())
	}

	// Both probe for the tool and carry the copy fallback.
	assert.Contains(t, sh, "command -v obabel")
	assert.Contains(t, bat, "where obabel")
	assert.Contains(t, sh, "cp receptor.pdb receptor.pdbqt")
	assert.Contains(t, bat, "copy /Y receptor.pdb receptor.pdbqt")
	assert.Contains(t, sh, "cp ligand.mol2 ligand.pdbqt")
	assert.Contains(t, bat, "copy /Y ligand.mol2 ligand.pdbqt")
}

func TestRenderParityAcrossConfigs(t *testing.T) {
	// Every flag combination must produce identical command strings in both
	// renderings; the renderers consume the same computed plan.
	for mask := 0; mask < 32; mask++ {
		cfg := docking.PreparationConfig{
			RemoveWater:     mask&1 != 0,
			Protonate:       mask&2 != 0,
			PH:              7.0,
			AddForceField:   mask&4 != 0,
			ForceField:      "uff",
			LigandProtonate: mask&8 != 0,
			LigandMinimize:  mask&16 != 0,
			ChargeMethod:    "eem",
		}
		plan := BuildPlan("obabel", cfg, testFiles)
		sh := plan.RenderShell()
		bat := plan.RenderBatch()
		for _, cmd := range plan.Commands {
			require.Contains(t, sh, cmd.String(), "mask %05b", mask)
			require.Contains(t, bat, cmd.String(), "mask %05b", mask)
		}
	}
}

func TestShellScriptShape(t *testing.T) {
	sh := BuildPlan("obabel", fullConfig(), testFiles).RenderShell()

	assert.True(t, strings.HasPrefix(sh, "#!/bin/sh\n"))
	assert.Contains(t, sh, "set -e")
	// Commands run only inside the tool-present branch.
	ifIdx := strings.Index(sh, "if command -v")
	cmdIdx := strings.Index(sh, "obabel receptor.pdb")
	elseIdx := strings.Index(sh, "else")
	require.True(t, ifIdx >= 0 && cmdIdx > ifIdx && elseIdx > cmdIdx)
}

func TestBatchScriptShape(t *testing.T) {
	bat := BuildPlan("obabel", fullConfig(), testFiles).RenderBatch()

	assert.True(t, strings.HasPrefix(bat, "@echo off\n"))
	assert.Contains(t, bat, "if errorlevel 1 goto fallback")
	assert.Contains(t, bat, ":fallback")
	assert.Contains(t, bat, ":done")
}
