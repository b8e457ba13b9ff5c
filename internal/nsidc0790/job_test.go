package nsidc0790_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/sc0tts/nsidc0790-tools/internal/common"
	"github.com/sc0tts/nsidc0790-tools/internal/nsidc0790"
	"github.com/sc0tts/nsidc0790-tools/internal/parcels"
	"github.com/stretchr/testify/require"
)

func newJob(t *testing.T, opts nsidc0790.Options) (*nsidc0790.Job, *common.Stats) {
	t.Helper()
	if opts.Backend == "" {
		opts.Backend = parcels.BackendLAEA
	}
	stats := common.NewStats()
	job, err := nsidc0790.NewJob(opts, common.NewLogger(io.Discard, "debug"), stats)
	require.NoError(t, err)
	t.Cleanup(func() { job.Close() })
	return job, stats
}

func TestJob_Run(t *testing.T) {
	in := writeFixture(t, t.TempDir(), fixtureName, fixture())
	outDir := filepath.Join(t.TempDir(), "out")
	job, stats := newJob(t, nsidc0790.Options{OutputDir: outDir})

	conv, err := job.Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outDir, "parcels_lats_20000801_20010801.csv"),
		filepath.Join(outDir, "parcels_lons_20000801_20010801.csv"),
		filepath.Join(outDir, "parcels_conc_20000801_20010801.csv"),
	}, conv.Files)

	lats := readLines(t, conv.Files[0])
	lons := readLines(t, conv.Files[1])
	conc := readLines(t, conv.Files[2])

	for _, lines := range [][]string{lats, lons, conc} {
		require.Len(t, lines, 1+len(fixtureRows))
		require.Equal(t, "20000801,20000901,20001001", lines[0])
		for _, l := range lines[1:] {
			require.Len(t, strings.Split(l, ","), 3)
		}
	}

	require.Equal(t, "-999.000,90.000,89.681", lats[1])
	require.Equal(t, "-999.000,180.000,-135.000", lons[1])
	require.Equal(t, "-999.000,95.500,90.000", conc[1])

	require.Equal(t, "81.865", strings.Split(lats[2], ",")[0])
	require.Equal(t, "146.310", strings.Split(lons[2], ",")[0])
	require.Equal(t, "999.000", strings.Split(lats[2], ",")[2])
	require.Equal(t, "999.000", strings.Split(conc[2], ",")[2])

	// A -999 concentration flags the whole triplet.
	require.Equal(t, "-999.000,90.000,29.897", lats[3])
	require.Equal(t, "-999.000,0.000,12.500", conc[3])

	require.EqualValues(t, 1, stats.FilesProcessed.Load())
	require.EqualValues(t, 0, stats.FilesFailed.Load())
	require.EqualValues(t, 3, stats.RowsProcessed.Load())
	require.EqualValues(t, 27, stats.CellsProcessed.Load())
	require.Positive(t, stats.PriorMissing.Load())
	require.Positive(t, stats.PostMissing.Load())
}

func TestJob_RunIsIdempotent(t *testing.T) {
	in := writeFixture(t, t.TempDir(), fixtureName+".gz", fixture())
	outDir := t.TempDir()
	job, _ := newJob(t, nsidc0790.Options{OutputDir: outDir})

	first, err := job.Run(context.Background(), in)
	require.NoError(t, err)
	var before [][]byte
	for _, f := range first.Files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		before = append(before, b)
	}

	second, err := job.Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, first.Files, second.Files)
	for i, f := range second.Files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		require.True(t, bytes.Equal(before[i], b), f)
	}
}

func TestJob_RunGzipAndParquet(t *testing.T) {
	in := writeFixture(t, t.TempDir(), fixtureName, fixture())
	outDir := t.TempDir()
	job, stats := newJob(t, nsidc0790.Options{OutputDir: outDir, Gzip: true, Parquet: true})

	conv, err := job.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, conv.Files, 4)
	for _, f := range conv.Files[:3] {
		require.True(t, strings.HasSuffix(f, ".csv.gz"), f)
		require.FileExists(t, f)
	}

	pq := conv.Files[3]
	require.Equal(t, filepath.Join(outDir, "parcels_20000801_20010801.parquet"), pq)
	data, err := os.ReadFile(pq)
	require.NoError(t, err)
	recs, err := parquet.Read[nsidc0790.Record](bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, recs, 9)
	require.Equal(t, "20000901", recs[1].Date)
	require.Equal(t, nsidc0790.MissingPrior, recs[0].Missing)
	require.Equal(t, nsidc0790.MissingPost, recs[5].Missing)
	require.EqualValues(t, 9, stats.RecordsWritten.Load())
}

func TestJob_Errors(t *testing.T) {
	dir := t.TempDir()
	job, stats := newJob(t, nsidc0790.Options{OutputDir: t.TempDir()})

	_, err := job.Run(context.Background(), filepath.Join(dir, fixtureName))
	require.ErrorIs(t, err, nsidc0790.ErrInputNotFound)

	bad := writeFixture(t, dir, "parcels.csv", fixture())
	_, err = job.Run(context.Background(), bad)
	require.ErrorIs(t, err, nsidc0790.ErrFilenameFormat)

	ragged := writeFixture(t, dir, fixtureName, fixture()+"1,2\n")
	_, err = job.Run(context.Background(), ragged)
	require.ErrorIs(t, err, parcels.ErrMalformedTable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = job.Run(ctx, ragged)
	require.ErrorIs(t, err, context.Canceled)

	require.EqualValues(t, 4, stats.FilesFailed.Load())
	require.EqualValues(t, 0, stats.FilesProcessed.Load())
}

func TestNewJob_UnknownBackend(t *testing.T) {
	_, err := nsidc0790.NewJob(nsidc0790.Options{Backend: "gdal"}, common.NewLogger(io.Discard, "info"), nil)
	require.ErrorIs(t, err, parcels.ErrBackendUnavailable)
}
