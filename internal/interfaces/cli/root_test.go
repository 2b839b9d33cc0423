package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhth20011/dockprep/internal/domain/docking"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, want := range []string{"prepare", "parse", "validate-path"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestPrepareWritesArchive(t *testing.T) {
	dir := t.TempDir()
	receptor := filepath.Join(dir, "4hhb.pdb")
	ligand := filepath.Join(dir, "aspirin.mol2")
	require.NoError(t, os.WriteFile(receptor, []byte("ATOM receptor"), 0o644))
	require.NoError(t, os.WriteFile(ligand, []byte("ATOM ligand"), 0o644))
	out := filepath.Join(dir, "job.zip")

	stdout, _, err := execute(t,
		"prepare", "-q",
		"--receptor", receptor,
		"--ligand", ligand,
		"--center-x", "12.1", "--center-y", "-3.4", "--center-z", "25",
		"--remove-water", "--protonate", "--ph", "7.4",
		"-o", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["config.txt"])
	assert.True(t, names["prepare_structures.sh"])
	assert.True(t, names["run_job.bat"])
	assert.True(t, names["receptor.pdb"])
	assert.True(t, names["ligand.mol2"])
}

func TestPrepareProgressOutput(t *testing.T) {
	dir := t.TempDir()
	receptor := filepath.Join(dir, "r.pdb")
	ligand := filepath.Join(dir, "l.pdb")
	require.NoError(t, os.WriteFile(receptor, []byte("ATOM"), 0o644))
	require.NoError(t, os.WriteFile(ligand, []byte("ATOM"), 0o644))

	_, stderr, err := execute(t,
		"prepare",
		"--receptor", receptor,
		"--ligand", ligand,
		"-o", filepath.Join(dir, "job.zip"),
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "config_rendered")
	assert.Contains(t, stderr, "archive_written")
}

func TestPrepareRequiresInputFlags(t *testing.T) {
	_, _, err := execute(t, "prepare")
	require.Error(t, err)
}

func TestPrepareMissingReceptorFile(t *testing.T) {
	dir := t.TempDir()
	ligand := filepath.Join(dir, "l.pdb")
	require.NoError(t, os.WriteFile(ligand, []byte("ATOM"), 0o644))

	_, _, err := execute(t,
		"prepare", "-q",
		"--receptor", filepath.Join(dir, "missing.pdb"),
		"--ligand", ligand,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading receptor")
}

const sampleLog = `mode |   affinity | dist from best mode
     | (kcal/mol) | rmsd l.b.| rmsd u.b.
-----+------------+----------+----------
   1       -7.5      0.000      0.000
   2       -7.1      1.502      2.118
`

func TestParseCommandJSON(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "docking_out.log")
	require.NoError(t, os.WriteFile(logPath, []byte(sampleLog), 0o644))

	stdout, _, err := execute(t, "parse", "-o", "json", logPath)
	require.NoError(t, err)

	var poses []docking.DockingPose
	require.NoError(t, json.Unmarshal([]byte(stdout), &poses))
	require.Len(t, poses, 2)
	assert.Equal(t, 1, poses[0].Mode)
	assert.Equal(t, -7.5, poses[0].Affinity)
}

func TestParseCommandTable(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "docking_out.log")
	require.NoError(t, os.WriteFile(logPath, []byte(sampleLog), 0o644))

	stdout, _, err := execute(t, "parse", logPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "AFFINITY")
	assert.Contains(t, stdout, "-7.500")
}

func TestParseCommandStdin(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(sampleLog))
	cmd.SetArgs([]string{"parse", "-o", "json"})
	require.NoError(t, cmd.Execute())

	var poses []docking.DockingPose
	require.NoError(t, json.Unmarshal(out.Bytes(), &poses))
	assert.Len(t, poses, 2)
}

func TestParseCommandEmptyLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "empty.log")
	require.NoError(t, os.WriteFile(logPath, []byte("nothing here"), 0o644))

	stdout, _, err := execute(t, "parse", logPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "no binding modes")
}

func TestValidatePathCommand(t *testing.T) {
	stdout, _, err := execute(t, "validate-path", "/usr/local/bin/vina")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok")

	_, _, err = execute(t, "validate-path", `C:\tools\vina?.exe`)
	require.Error(t, err)
}
