package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sc0tts/nsidc0790-tools/internal/common"
	"github.com/sc0tts/nsidc0790-tools/internal/nsidc0790"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	v := common.NewViper()
	root := newRootCmd(v)
	require.NoError(t, common.BindOptions(v, options(root.Flags())))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_NoArguments(t *testing.T) {
	out, err := execute(t)
	require.Error(t, err)
	require.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
	require.Contains(t, out, "Usage:")
	require.Contains(t, out, "parcels-latlon [flags] <nsidc0790_file>")
}

func TestRoot_MissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsidc0790_imparcels_20000801_20010801_v1.0.csv")
	out, err := execute(t, "--quiet", "--output-dir", t.TempDir(), path)
	require.ErrorIs(t, err, nsidc0790.ErrInputNotFound)
	require.NotContains(t, out, "Usage:")
}

func TestRoot_MalformedFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad_name.csv")
	require.NoError(t, os.WriteFile(path, []byte("i_20000101,j_20000101,c_20000101\n180,180,50\n"), 0o644))

	_, err := execute(t, "--quiet", "--header-lines", "1", "--output-dir", t.TempDir(), path)
	require.ErrorIs(t, err, nsidc0790.ErrFilenameFormat)
	require.Contains(t, err.Error(), path)
}

func TestRoot_Converts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nsidc0790_imparcels_20000101_20000201_v1.0.csv")
	require.NoError(t, os.WriteFile(path, []byte("i_20000101,j_20000101,c_20000101\n180,180,50\n-999,-999,-999\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	_, err := execute(t, "--quiet", "--header-lines", "1", "--output-dir", outDir, path)
	require.NoError(t, err)

	lats, err := os.ReadFile(filepath.Join(outDir, "parcels_lats_20000101_20000201.csv"))
	require.NoError(t, err)
	require.Equal(t, "20000101\n90.000\n-999.000\n", string(lats))
	require.FileExists(t, filepath.Join(outDir, "parcels_lons_20000101_20000201.csv"))
	require.FileExists(t, filepath.Join(outDir, "parcels_conc_20000101_20000201.csv"))
}
