// Package common provides configuration, logging and run statistics
// shared by the nsidc0790 tools.
package common

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// NSIDC0790_OUTPUT_DIR or NSIDC0790_CH_HOST.
const EnvPrefix = "NSIDC0790"

// Config holds configuration for all tools.
type Config struct {
	HeaderLines int
	OutputDir   string
	Backend     string
	Gzip        bool
	Parquet     bool
	LogLevel    string

	ClickHouseHost     string
	ClickHouseDatabase string
	ClickHouseTable    string
	Truncate           bool
}

// Option describes one configuration key and the flag sets it is bound to.
type Option struct {
	Name, Usage, Shorthand string
	Default                interface{}
	FlagSets               []*pflag.FlagSet
}

// NewViper returns a viper instance reading NSIDC0790_* environment
// variables. Flag names use dashes; the matching variables use underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindOptions registers every option on its flag sets, binds the flags to v
// and records the defaults.
func BindOptions(v *viper.Viper, options []Option) error {
	for _, o := range options {
		v.SetDefault(o.Name, o.Default)
		for _, fs := range o.FlagSets {
			if fs.Lookup(o.Name) == nil {
				if err := addFlag(fs, o); err != nil {
					return err
				}
			}
			if err := v.BindPFlag(o.Name, fs.Lookup(o.Name)); err != nil {
				return fmt.Errorf("bind %s: %w", o.Name, err)
			}
		}
	}
	return nil
}

func addFlag(fs *pflag.FlagSet, o Option) error {
	switch d := o.Default.(type) {
	case string:
		fs.StringP(o.Name, o.Shorthand, d, o.Usage)
	case bool:
		fs.BoolP(o.Name, o.Shorthand, d, o.Usage)
	case int:
		fs.IntP(o.Name, o.Shorthand, d, o.Usage)
	default:
		return fmt.Errorf("option %s: unsupported default type %T", o.Name, o.Default)
	}
	return nil
}

// Load reads the optional config file named by the "config" key and
// returns the resolved configuration. Precedence is flag, environment,
// config file, default.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		HeaderLines:        v.GetInt("header-lines"),
		OutputDir:          v.GetString("output-dir"),
		Backend:            v.GetString("backend"),
		Gzip:               v.GetBool("gzip"),
		Parquet:            v.GetBool("parquet"),
		LogLevel:           v.GetString("log-level"),
		ClickHouseHost:     v.GetString("ch-host"),
		ClickHouseDatabase: v.GetString("ch-db"),
		ClickHouseTable:    v.GetString("ch-table"),
		Truncate:           v.GetBool("truncate"),
	}
	if v.GetBool("quiet") {
		cfg.LogLevel = "warn"
	}
	if cfg.HeaderLines < 1 {
		return nil, fmt.Errorf("header-lines must be at least 1, got %d", cfg.HeaderLines)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}

// ClickHouseTableFQN returns database.table.
func (c *Config) ClickHouseTableFQN() string {
	return fmt.Sprintf("%s.%s", c.ClickHouseDatabase, c.ClickHouseTable)
}
