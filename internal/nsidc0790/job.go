package nsidc0790

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sc0tts/nsidc0790-tools/internal/common"
	"github.com/sc0tts/nsidc0790-tools/internal/parcels"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Options configures a Job.
type Options struct {
	HeaderLines int
	OutputDir   string
	Backend     parcels.Backend
	Gzip        bool // compress CSV outputs
	Parquet     bool // also write the long-format Parquet file
}

// Conversion is one converted input file.
type Conversion struct {
	Path   string
	Period Period
	Input  *Input
	Result *parcels.Result
	Files  []string // outputs written by Run
}

// Job converts NSIDC-0790 files one at a time with a single reprojector.
type Job struct {
	opts  Options
	log   logrus.FieldLogger
	stats *common.Stats
	rp    parcels.Reprojector
}

// NewJob initializes the reprojector for opts.Backend.
func NewJob(opts Options, log logrus.FieldLogger, stats *common.Stats) (*Job, error) {
	if opts.HeaderLines == 0 {
		opts.HeaderLines = DefaultHeaderLines
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if stats == nil {
		stats = common.NewStats()
	}

	rp, err := parcels.NewReprojector(opts.Backend, parcels.EASEGridNorth, parcels.WGS84)
	if err != nil {
		return nil, err
	}
	return &Job{opts: opts, log: log, stats: stats, rp: rp}, nil
}

// Close releases the reprojector.
func (j *Job) Close() error {
	return j.rp.Close()
}

// Convert reads path and runs the pipeline without writing outputs.
func (j *Job) Convert(ctx context.Context, path string) (*Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}

	period, err := ParseFilename(path)
	if err != nil {
		return nil, err
	}

	log := j.log.WithField("file", filepath.Base(path))
	log.Debugf("Assuming %d header lines", j.opts.HeaderLines)

	in, err := ReadFile(path, j.opts.HeaderLines)
	if err != nil {
		return nil, err
	}
	log.Infof("Data header: %s", in.HeaderLine)
	log.Infof("Table shape: %d x %d", in.Table.Rows(), in.Table.Cols())

	res, err := parcels.Convert(in.Table, j.rp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	j.stats.BytesRead.Add(uint64(in.Size))
	j.stats.RowsProcessed.Add(uint64(in.Table.Rows()))
	j.stats.CellsProcessed.Add(uint64(in.Table.Rows() * in.Table.Cols()))
	j.stats.PriorMissing.Add(uint64(res.Grid.Prior.Count()))
	j.stats.PostMissing.Add(uint64(res.Grid.Post.Count()))

	logRanges(log, res)

	return &Conversion{Path: path, Period: period, Input: in, Result: res}, nil
}

// Run converts path and writes the lats, lons and conc tables (and the
// Parquet file when enabled) to the output directory.
func (j *Job) Run(ctx context.Context, path string) (*Conversion, error) {
	conv, err := j.Convert(ctx, path)
	if err != nil {
		j.stats.FilesFailed.Add(1)
		return nil, err
	}
	log := j.log.WithField("file", filepath.Base(path))

	if err := os.MkdirAll(j.opts.OutputDir, 0o755); err != nil {
		j.stats.FilesFailed.Add(1)
		return nil, err
	}

	header := conv.Input.Header()
	tables := map[Kind]*mat.Dense{
		KindLats: conv.Result.Lats,
		KindLons: conv.Result.Lons,
		KindConc: conv.Result.Conc,
	}
	for _, k := range Kinds {
		name := filepath.Join(j.opts.OutputDir, conv.Period.OutputName(k))
		written, err := j.writeCSV(name, header, tables[k])
		if err != nil {
			j.stats.FilesFailed.Add(1)
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		conv.Files = append(conv.Files, written)
		log.Infof("Wrote: %s", written)
	}

	if j.opts.Parquet {
		name := filepath.Join(j.opts.OutputDir, conv.Period.ParquetName())
		n, err := j.writeParquet(name, conv)
		if err != nil {
			j.stats.FilesFailed.Add(1)
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		conv.Files = append(conv.Files, name)
		log.Infof("Wrote: %s (%d records)", name, n)
	}

	logValidRanges(log, conv.Result)
	j.stats.FilesProcessed.Add(1)
	return conv, nil
}

func (j *Job) writeCSV(name, header string, m *mat.Dense) (string, error) {
	out, err := CreateOutput(name, j.opts.Gzip)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(out, header, m); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	j.stats.BytesWritten.Add(uint64(out.Size()))
	return out.Path, nil
}

func (j *Job) writeParquet(name string, conv *Conversion) (int, error) {
	out, err := CreateOutput(name, false)
	if err != nil {
		return 0, err
	}
	recs := Records(conv.Result, conv.Input.Labels)
	if err := WriteParquet(out, recs); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	j.stats.BytesWritten.Add(uint64(out.Size()))
	j.stats.RecordsWritten.Add(uint64(len(recs)))
	return len(recs), nil
}

// =============================================================================
// Range Reports
// =============================================================================

func logRanges(log logrus.FieldLogger, res *parcels.Result) {
	for _, e := range []struct {
		name string
		m    mat.Matrix
	}{
		{"ivals", res.Grid.I},
		{"jvals", res.Grid.J},
		{"cvals", res.Grid.C},
		{"xvals", res.X},
		{"yvals", res.Y},
	} {
		r := parcels.RangeOf(e.m)
		log.Debugf("range of %s: %v to %v", e.name, r.Min, r.Max)
	}
}

func logValidRanges(log logrus.FieldLogger, res *parcels.Result) {
	rows, steps := res.Dims()
	for _, e := range []struct {
		name string
		m    mat.Matrix
	}{
		{"lats", res.Lats},
		{"lons", res.Lons},
		{"cvals", res.Conc},
	} {
		r := parcels.ValidRangeOf(e.m)
		if !r.Valid() {
			log.Infof("range of %s: no valid values (shape: %d x %d)", e.name, rows, steps)
			continue
		}
		log.Infof("range of %s: %.3f to %.3f (shape: %d x %d)", e.name, r.Min, r.Max, rows, steps)
	}
}
