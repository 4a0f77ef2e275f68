// Package config provides layered configuration for the reshape CLI.
//
// Values are read, lowest precedence first, from built-in defaults, a
// reshape.yaml file, RESHAPE_* environment variables and explicitly set
// command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultFormat      = "table"
	DefaultLogLevel    = "warn"
	DefaultHistoryFile = ".reshape_history"

	envPrefix = "RESHAPE_"
)

// TableFlag is the repeatable name=path flag merged into Config.Tables.
const TableFlag = "table"

// Config holds all CLI configuration options.
type Config struct {
	Format      string            `koanf:"format"`
	LogLevel    string            `koanf:"log_level"`
	OutputDir   string            `koanf:"output_dir"`
	HistoryFile string            `koanf:"history_file"`
	Tables      map[string]string `koanf:"tables"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// findConfigFile finds the config file to use.
// Priority: explicit path > reshape.yaml > reshape.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"reshape.yaml", "reshape.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Relative table paths from the config file resolve against its directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"format":       DefaultFormat,
		"log_level":    DefaultLogLevel,
		"output_dir":   "",
		"history_file": DefaultHistoryFile,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	var fileCfg Config
	if err := k.Unmarshal("", &fileCfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 3. Environment: RESHAPE_LOG_LEVEL -> log_level, RESHAPE_TABLES_SALES -> tables.sales
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == TableFlag || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if cfg.Tables == nil {
		cfg.Tables = make(map[string]string)
	}
	if used != "" {
		base := filepath.Dir(used)
		for name, path := range fileCfg.Tables {
			if cfg.Tables[name] == path {
				cfg.Tables[name] = resolvePathRelativeTo(path, base)
			}
		}
	}

	if flags != nil && flags.Lookup(TableFlag) != nil && flags.Changed(TableFlag) {
		specs, err := flags.GetStringArray(TableFlag)
		if err != nil {
			return nil, err
		}
		tables, err := ParseTables(specs)
		if err != nil {
			return nil, err
		}
		for name, path := range tables {
			cfg.Tables[name] = path
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if name, ok := strings.CutPrefix(key, "tables_"); ok {
		return "tables." + name
	}
	return key
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ParseTables parses name=path pairs.
func ParseTables(specs []string) (map[string]string, error) {
	tables := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid table %q: want name=path", spec)
		}
		if _, dup := tables[name]; dup {
			return nil, fmt.Errorf("table %q given twice", name)
		}
		tables[name] = path
	}
	return tables, nil
}

// SlogLevel maps LogLevel to a slog level. Validate rejects unknown names.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
