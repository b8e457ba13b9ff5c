// parcels-latlon - NSIDC-0790 sea ice parcel positions to latitude/longitude
//
// Reads an NSIDC-0790 parcel table of (i, j, c) triplets on the 25 km
// EASE-Grid North and writes three CSV tables (lats, lons, conc) with the
// -999/999 missing-value sentinels carried through unchanged.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/parcels-latlon ./cmd/parcels-latlon
// Build (PROJ backend): go build -tags proj -o build/parcels-latlon ./cmd/parcels-latlon

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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

func options(fs *pflag.FlagSet) []common.Option {
	sets := []*pflag.FlagSet{fs}
	return []common.Option{
		{Name: "config", Usage: "configuration file (yaml, toml or json)", Default: "", FlagSets: sets},
		{Name: "header-lines", Usage: "lines before the data, the last being the data header", Default: nsidc0790.DefaultHeaderLines, FlagSets: sets},
		{Name: "output-dir", Usage: "directory for the output tables", Shorthand: "o", Default: ".", FlagSets: sets},
		{Name: "backend", Usage: "reprojection backend: laea or proj", Default: string(parcels.BackendLAEA), FlagSets: sets},
		{Name: "gzip", Usage: "gzip the CSV outputs", Default: false, FlagSets: sets},
		{Name: "parquet", Usage: "also write a long-format Parquet file", Default: false, FlagSets: sets},
		{Name: "quiet", Usage: "only log warnings and errors", Shorthand: "q", Default: false, FlagSets: sets},
		{Name: "log-level", Usage: "log level: debug, info, warn, error", Default: "info", FlagSets: sets},
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parcels-latlon [flags] <nsidc0790_file>",
		Short:   "Convert NSIDC-0790 parcel grid positions to latitude and longitude",
		Version: Version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := common.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0])
		},
		SilenceErrors: true,
	}
	return cmd
}

func run(ctx context.Context, cfg *common.Config, path string) error {
	log := common.NewLogger(os.Stderr, cfg.LogLevel)
	common.Banner(log, fmt.Sprintf("Parcels LatLon v%s", Version))

	backend, err := parcels.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	stats := common.NewStats()
	job, err := nsidc0790.NewJob(nsidc0790.Options{
		HeaderLines: cfg.HeaderLines,
		OutputDir:   cfg.OutputDir,
		Backend:     backend,
		Gzip:        cfg.Gzip,
		Parquet:     cfg.Parquet,
	}, log, stats)
	if err != nil {
		return err
	}
	defer job.Close()

	log.Infof("Input:   %s", path)
	log.Infof("Backend: %s", backend)

	if _, err := job.Run(ctx, path); err != nil {
		return err
	}
	stats.Summary(log)
	return nil
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
