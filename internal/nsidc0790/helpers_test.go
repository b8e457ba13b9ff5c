package nsidc0790_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
)

const fixtureName = "nsidc0790_imparcels_20000801_20010801_v1.0.csv"

const fixtureHeader = "i_20000801,j_20000801,c_20000801,i_20000901,j_20000901,c_20000901,i_20001001,j_20001001,c_20001001"

var fixtureRows = []string{
	"-999,-999,-999,180,180,95.5,179,179,90",
	"200,150,80,201,151,75.25,999,999,999",
	"179,179,-999,180,180,0,0,0,12.5",
}

// fixture returns the text of an NSIDC-0790 file with 13 preamble lines,
// the data header on line 14 and the fixture rows.
func fixture() string {
	var b strings.Builder
	b.WriteString("# NSIDC-0790 Sea Ice Parcels\n")
	for n := 2; n <= 13; n++ {
		b.WriteString("# metadata line\n")
	}
	b.WriteString(fixtureHeader + "\n")
	for _, r := range fixtureRows {
		b.WriteString(r + "\n")
	}
	return b.String()
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if !strings.HasSuffix(name, ".gz") {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := pgzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}
