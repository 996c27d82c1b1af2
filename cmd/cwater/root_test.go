package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/cwater/internal/config"
	"github.com/hupe1980/cwater/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStructures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"1abc_A.pdb": testutil.PDB(
			testutil.Water{Serial: 301, Occupancy: 1, BFactor: 20},
			testutil.Water{Serial: 302, X: 9, Y: 9, Z: 9, Occupancy: 1, BFactor: 20},
		),
		"2xyz_A.pdb": testutil.PDB(testutil.Water{Serial: 5, X: 0.2, Occupancy: 1, BFactor: 20}),
		"3pqr_A.pdb": testutil.PDB(testutil.Water{Serial: 8, Y: 0.3, Occupancy: 1, BFactor: 20}),
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	data := writeStructures(t)
	outDir := t.TempDir()

	out, err := execute(t,
		"--pdb", "1abc", "--chain", "A",
		"--data-dir", data,
		"--output-dir", outDir,
		"--refinement", "none",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "1abc_A has conserved waters")
	assert.Contains(t, out, "1abc_A_301\t1.0")
	assert.NotContains(t, out, "1abc_A_302")

	for _, name := range []string{
		"1abc_A/1abc_A_clusterPresence.txt",
		"1abc_A/1abc_A_conservedWaters.json",
		"1abc_A/cwm_1abc_A_withConservedWaters.pdb",
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestRootCommand_CustomList(t *testing.T) {
	data := writeStructures(t)

	out, err := execute(t,
		"--pdb", "1abc", "--chain", "A",
		"--structures", "2xyz_A,9zzz_A",
		"--data-dir", data,
		"--output-dir", t.TempDir(),
		"--refinement", "none",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "excluded\t9zzz_A\tmissing")
	assert.Contains(t, out, "1abc_A_301\t1.0")
}

func TestRootCommand_InvalidInput(t *testing.T) {
	_, err := execute(t, "--pdb", "1abc", "--chain", "A", "--probability", "0.1", "--output-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probability")

	_, err = execute(t, "--pdb", "1abc", "--chain", "A", "--source", "ftp")
	assert.Error(t, err)

	_, err = execute(t, "extra-arg")
	assert.Error(t, err)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	data := writeStructures(t)
	outDir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "cwater.yaml")
	content := "query: 1abc_A\nrefinement: none\nlog:\n  level: error\nsource:\n  dir: " + data + "\noutput:\n  dir: " + outDir + "\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))

	out, err := execute(t, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "1abc_A has conserved waters")
}

func TestRun_UnknownCodec(t *testing.T) {
	cfg := config.Default()
	cfg.Query = "1abc_A"
	cfg.Log.Level = "error"
	cfg.Output.Codec = "msgpack"

	var out bytes.Buffer
	err := run(context.Background(), cfg, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown codec "msgpack"`)
	assert.Empty(t, out.String())
}
