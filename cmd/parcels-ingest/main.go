// parcels-ingest - NSIDC-0790 parcel positions into ClickHouse
//
// Converts each NSIDC-0790 file to latitude/longitude and inserts the
// long-format parcel records via the ch-go native protocol.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/parcels-ingest ./cmd/parcels-ingest

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ClickHouse/ch-go"
	"github.com/sc0tts/nsidc0790-tools/internal/common"
	"github.com/sc0tts/nsidc0790-tools/internal/nsidc0790"
	"github.com/sc0tts/nsidc0790-tools/internal/parcels"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version can be overridden at build time via -ldflags
var Version = "1.0.0"

const BatchSize = 100_000

var errFilesFailed = errors.New("one or more files failed")

func options(fs *pflag.FlagSet) []common.Option {
	sets := []*pflag.FlagSet{fs}
	return []common.Option{
		{Name: "config", Usage: "configuration file (yaml, toml or json)", Default: "", FlagSets: sets},
		{Name: "header-lines", Usage: "lines before the data, the last being the data header", Default: nsidc0790.DefaultHeaderLines, FlagSets: sets},
		{Name: "backend", Usage: "reprojection backend: laea or proj", Default: string(parcels.BackendLAEA), FlagSets: sets},
		{Name: "ch-host", Usage: "ClickHouse address", Default: "127.0.0.1:9000", FlagSets: sets},
		{Name: "ch-db", Usage: "ClickHouse database", Default: "nsidc", FlagSets: sets},
		{Name: "ch-table", Usage: "ClickHouse table", Default: "parcels", FlagSets: sets},
		{Name: "truncate", Usage: "truncate table before insert", Default: false, FlagSets: sets},
		{Name: "create-table", Usage: "create the table if it does not exist", Default: false, FlagSets: sets},
		{Name: "quiet", Usage: "only log warnings and errors", Shorthand: "q", Default: false, FlagSets: sets},
		{Name: "log-level", Usage: "log level: debug, info, warn, error", Default: "info", FlagSets: sets},
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "parcels-ingest [flags] <nsidc0790_files...>",
		Short:   "Load NSIDC-0790 parcel positions into ClickHouse",
		Version: Version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := common.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, v.GetBool("create-table"), args)
		},
		SilenceErrors: true,
	}
}

func run(ctx context.Context, cfg *common.Config, createTable bool, files []string) error {
	log := common.NewLogger(os.Stderr, cfg.LogLevel)
	common.Banner(log, fmt.Sprintf("Parcels Ingest v%s", Version))

	backend, err := parcels.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	stats := common.NewStats()
	job, err := nsidc0790.NewJob(nsidc0790.Options{
		HeaderLines: cfg.HeaderLines,
		Backend:     backend,
	}, log, stats)
	if err != nil {
		return err
	}
	defer job.Close()

	log.Infof("Connecting to ClickHouse at %s...", cfg.ClickHouseHost)
	conn, err := ch.Dial(ctx, ch.Options{
		Address:     cfg.ClickHouseHost,
		Database:    cfg.ClickHouseDatabase,
		Compression: ch.CompressionLZ4,
	})
	if err != nil {
		return fmt.Errorf("ClickHouse connection failed: %w", err)
	}
	defer conn.Close()

	tableFQN := cfg.ClickHouseTableFQN()
	log.Infof("Table: %s", tableFQN)

	if createTable {
		if err := conn.Do(ctx, ch.Query{Body: createTableQuery(tableFQN)}); err != nil {
			return fmt.Errorf("create table %s: %w", tableFQN, err)
		}
	}
	if cfg.Truncate {
		log.Infof("Truncating table %s...", tableFQN)
		if err := conn.Do(ctx, ch.Query{Body: fmt.Sprintf("TRUNCATE TABLE %s", tableFQN)}); err != nil {
			log.Warnf("Truncate warning: %v", err)
		}
	}

	log.Infof("Found %d file(s)", len(files))

	batch := NewBatch()
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Shutdown requested...")
			break
		}
		flog := log.WithField("file", filepath.Base(path))

		n, err := ingestFile(ctx, conn, job, tableFQN, batch, path)
		if err != nil {
			stats.FilesFailed.Add(1)
			flog.Errorf("Ingest error: %v", err)
			continue
		}
		stats.FilesProcessed.Add(1)
		stats.RecordsWritten.Add(uint64(n))
		flog.Infof("Inserted %d records", n)
	}

	stats.Summary(log)
	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.FilesFailed.Load() > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, stats.FilesFailed.Load(), len(files))
	}
	return nil
}

// ingestFile converts path and inserts its records in BatchSize chunks.
func ingestFile(ctx context.Context, conn *ch.Client, job *nsidc0790.Job, tableFQN string, batch *Batch, path string) (int, error) {
	conv, err := job.Convert(ctx, path)
	if err != nil {
		return 0, err
	}

	sourceFile := filepath.Base(path)
	recs := nsidc0790.Records(conv.Result, conv.Input.Labels)

	batch.Reset()
	for _, rec := range recs {
		batch.AddRecord(rec, sourceFile)
		if batch.Len() >= BatchSize {
			if err := flushBatch(ctx, conn, tableFQN, batch); err != nil {
				return 0, fmt.Errorf("flush: %w", err)
			}
			batch.Reset()
		}
	}
	if err := flushBatch(ctx, conn, tableFQN, batch); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	batch.Reset()
	return len(recs), nil
}

func main() {
	v := common.NewViper()
	root := newRootCmd(v)
	if err := common.BindOptions(v, options(root.Flags())); err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		logrus.Fatal(err)
	}
}
