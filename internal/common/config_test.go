package common_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sc0tts/nsidc0790-tools/internal/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func testOptions(fs *pflag.FlagSet) []common.Option {
	sets := []*pflag.FlagSet{fs}
	return []common.Option{
		{Name: "config", Default: "", FlagSets: sets},
		{Name: "header-lines", Default: 14, FlagSets: sets},
		{Name: "output-dir", Default: ".", FlagSets: sets},
		{Name: "backend", Default: "laea", FlagSets: sets},
		{Name: "gzip", Default: false, FlagSets: sets},
		{Name: "quiet", Shorthand: "q", Default: false, FlagSets: sets},
		{Name: "log-level", Default: "info", FlagSets: sets},
	}
}

func load(t *testing.T, args ...string) (*common.Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	v := common.NewViper()
	require.NoError(t, common.BindOptions(v, testOptions(fs)))
	require.NoError(t, fs.Parse(args))
	return common.Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)
	require.Equal(t, 14, cfg.HeaderLines)
	require.Equal(t, ".", cfg.OutputDir)
	require.Equal(t, "laea", cfg.Backend)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Gzip)
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	t.Setenv("NSIDC0790_OUTPUT_DIR", "/tmp/from-env")
	t.Setenv("NSIDC0790_BACKEND", "proj")

	cfg, err := load(t, "--header-lines=3", "--backend=laea", "-q")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.HeaderLines)
	require.Equal(t, "/tmp/from-env", cfg.OutputDir)
	require.Equal(t, "laea", cfg.Backend, "flag beats environment")
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsidc0790.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gzip: true\noutput-dir: out\n"), 0o644))

	cfg, err := load(t, "--config", path)
	require.NoError(t, err)
	require.True(t, cfg.Gzip)
	require.Equal(t, "out", cfg.OutputDir)
}

func TestLoad_InvalidHeaderLines(t *testing.T) {
	_, err := load(t, "--header-lines=0")
	require.Error(t, err)
}

func TestBindOptions_UnsupportedDefault(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := common.BindOptions(common.NewViper(), []common.Option{
		{Name: "ratio", Default: 0.5, FlagSets: []*pflag.FlagSet{fs}},
	})
	require.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := common.NewLogger(&buf, "warn")
	require.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	require.Equal(t, logrus.InfoLevel, common.NewLogger(&buf, "nonsense").GetLevel())
}

func TestStats_Summary(t *testing.T) {
	var buf bytes.Buffer
	s := common.NewStats()
	s.FilesProcessed.Add(2)
	s.RowsProcessed.Add(1000)
	s.PriorMissing.Add(7)

	s.Summary(common.NewLogger(&buf, "info"))
	require.Contains(t, buf.String(), "Final Statistics")
	require.Contains(t, buf.String(), "Parcel rows:   1000")
	require.Contains(t, buf.String(), "7 prior-missing")
}
