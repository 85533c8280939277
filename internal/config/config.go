// Package config loads xlview settings from defaults, an optional YAML file,
// XLVIEW_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/ukaji3/xlview-go/pkg/xlview"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
)

// EnvPrefix prefixes every environment override, e.g. XLVIEW_LOG_LEVEL.
const EnvPrefix = "XLVIEW_"

// ConfigFileName is looked up in the settings directory when no file is given.
const ConfigFileName = "config.yaml"

// Settings backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all xlview configuration.
type Config struct {
	Settings SettingsConfig `koanf:"settings"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Decode   DecodeConfig   `koanf:"decode"`
	Log      LogConfig      `koanf:"log"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// SettingsConfig selects where the folder list is persisted.
type SettingsConfig struct {
	Backend string `koanf:"backend"`
	Dir     string `koanf:"dir"`
}

// CatalogConfig tunes folder scanning.
type CatalogConfig struct {
	Locale     string   `koanf:"locale"`
	Watch      bool     `koanf:"watch"`
	Extensions []string `koanf:"extensions"`
}

// DecodeConfig caps decoded grids.
type DecodeConfig struct {
	MaxColumns int `koanf:"max_columns"`
	MaxRows    int `koanf:"max_rows"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"settings-backend": "settings.backend",
	"settings-dir":     "settings.dir",
	"locale":           "catalog.locale",
	"watch":            "catalog.watch",
	"max-columns":      "decode.max_columns",
	"max-rows":         "decode.max_rows",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"log-file":         "log.file",
}

// DefaultSettingsDir returns the per-user directory for xlview state.
func DefaultSettingsDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "xlview")
	}
	return ".xlview"
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"settings.backend":   BackendFile,
		"settings.dir":       DefaultSettingsDir(),
		"catalog.locale":     "",
		"catalog.watch":      true,
		"catalog.extensions": slices.Clone(catalog.DefaultExtensions),
		"decode.max_columns": xlview.DefaultMaxColumns,
		"decode.max_rows":    xlview.DefaultMaxRows,
		"log.level":          "info",
		"log.format":         LogFormatText,
		"log.file":           "",
	}
}

// envKey turns XLVIEW_DECODE_MAX_ROWS into decode.max_rows.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Load reads the configuration. cfgFile may be empty, in which case
// config.yaml in the settings directory is used when it exists. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Env and flags may move the settings directory, so resolve them once up
	// front to find the config file.
	overrides := koanf.New(".")
	if err := loadOverrides(overrides, flags); err != nil {
		return nil, err
	}

	if cfgFile == "" {
		dir := k.String("settings.dir")
		if d := overrides.String("settings.dir"); d != "" {
			dir = d
		}
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			cfgFile = candidate
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := loadOverrides(k, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadOverrides(k *koanf.Koanf, flags *pflag.FlagSet) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("failed to load env vars: %w", err)
	}
	if flags == nil {
		return nil
	}
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("failed to load flags: %w", err)
	}
	return nil
}

// Validate checks enumerated values and limits.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendFile, BackendSQLite, BackendMemory}, c.Settings.Backend) {
		return fmt.Errorf("invalid settings.backend: %s (must be file, sqlite, or memory)", c.Settings.Backend)
	}
	if c.Settings.Backend != BackendMemory && c.Settings.Dir == "" {
		return fmt.Errorf("settings.dir is required for the %s backend", c.Settings.Backend)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return fmt.Errorf("invalid log.format: %s (must be text or json)", c.Log.Format)
	}
	if c.Decode.MaxColumns < 0 || c.Decode.MaxRows < 0 {
		return fmt.Errorf("decode limits must not be negative")
	}
	return nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}
	return level, nil
}

// DecodeOptions returns the decoder limits.
func (c *Config) DecodeOptions() xlview.Options {
	opts := xlview.DefaultOptions()
	if c.Decode.MaxColumns > 0 {
		opts.MaxColumns = c.Decode.MaxColumns
	}
	if c.Decode.MaxRows > 0 {
		opts.MaxRows = c.Decode.MaxRows
	}
	return opts
}

// LogFile returns the log destination for interactive sessions.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Settings.Dir, "xlview.log")
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("settings-backend", BackendFile, "Settings backend: file, sqlite, or memory")
	fs.String("settings-dir", "", "Directory for settings and logs")
	fs.String("locale", "", "Collation locale for file names (BCP 47)")
	fs.Bool("watch", true, "Refresh the file list when registered folders change")
	fs.Int("max-columns", xlview.DefaultMaxColumns, "Maximum columns decoded per sheet")
	fs.Int("max-rows", xlview.DefaultMaxRows, "Maximum rows decoded per sheet")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.String("log-format", LogFormatText, "Log format: text or json")
	fs.String("log-file", "", "Log file (default: xlview.log in the settings directory)")
}
