package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Filter engines.
const (
	FilterRTree = "rtree"
	FilterScan  = "scan"
)

// Config holds application configuration.
type Config struct {
	Widget  WidgetConfig  `mapstructure:"widget"`
	Storage StorageConfig `mapstructure:"storage"`
	Filter  FilterConfig  `mapstructure:"filter"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Log     LogConfig     `mapstructure:"log"`
}

// WidgetConfig holds the knobs of the widget service core.
type WidgetConfig struct {
	LockTimeoutSeconds int `mapstructure:"lock_timeout_seconds"`
	InitialZIndex      int `mapstructure:"initial_z_index"`
	PageDefaultSize    int `mapstructure:"page_default_size"`
	PageMaxSize        int `mapstructure:"page_max_size"`
}

// LockTimeout returns the lock wait budget as a duration.
func (w WidgetConfig) LockTimeout() time.Duration {
	return time.Duration(w.LockTimeoutSeconds) * time.Second
}

// StorageConfig selects the widget store backend.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	Path       string `mapstructure:"path"`
	Migrations string `mapstructure:"migrations"`
}

// FilterConfig selects the containment filter engine.
type FilterConfig struct {
	Engine string `mapstructure:"engine"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// SeedConfig points at an optional YAML fixture applied to an empty store.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("widget.lock_timeout_seconds", 5)
	v.SetDefault("widget.initial_z_index", 0)
	v.SetDefault("widget.page_default_size", 10)
	v.SetDefault("widget.page_max_size", 500)
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "widgetd", "widgets.db"))
	v.SetDefault("storage.migrations", "internal/database/migrations")
	v.SetDefault("filter.engine", FilterRTree)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("seed.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration produced by defaults alone.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Path returns the config file location: $WIDGETD_CONFIG or ~/.config/widgetd/config.toml.
func Path() string {
	if p := os.Getenv("WIDGETD_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "widgetd", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix WIDGETD_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("WIDGETD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate enforces the ranges of the recognized options.
func (c Config) Validate() error {
	w := c.Widget
	if w.LockTimeoutSeconds < 1 {
		return fmt.Errorf("config: widget.lock_timeout_seconds must be >= 1, got %d", w.LockTimeoutSeconds)
	}
	if w.PageDefaultSize < 1 {
		return fmt.Errorf("config: widget.page_default_size must be >= 1, got %d", w.PageDefaultSize)
	}
	if w.PageMaxSize < 1 {
		return fmt.Errorf("config: widget.page_max_size must be >= 1, got %d", w.PageMaxSize)
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite, BackendBolt:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("config: storage.path is required for backend %q", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	switch c.Filter.Engine {
	case FilterRTree, FilterScan:
	default:
		return fmt.Errorf("config: unknown filter.engine %q", c.Filter.Engine)
	}
	return nil
}

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("widget.lock_timeout_seconds", cfg.Widget.LockTimeoutSeconds)
	v.Set("widget.initial_z_index", cfg.Widget.InitialZIndex)
	v.Set("widget.page_default_size", cfg.Widget.PageDefaultSize)
	v.Set("widget.page_max_size", cfg.Widget.PageMaxSize)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.migrations", cfg.Storage.Migrations)
	v.Set("filter.engine", cfg.Filter.Engine)
	v.Set("http.addr", cfg.HTTP.Addr)
	v.Set("seed.path", cfg.Seed.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
