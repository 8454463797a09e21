// Package config loads pm settings from a YAML file and PM_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// EnvPrefix is prepended to upper-cased keys for environment overrides
const EnvPrefix = "PM"

// Config is the user configuration of the pm tool
type Config struct {
	// Database is the path of the JSON project database.
	Database string `mapstructure:"database" yaml:"database"`

	// User is the person in charge written in reports.
	User string `mapstructure:"user" yaml:"user"`

	Width        int    `mapstructure:"width" yaml:"width"`
	WarnDays     int    `mapstructure:"warn_days" yaml:"warn_days"`
	ProgressChar string `mapstructure:"progress_char" yaml:"progress_char"`

	// ReportsDir receives the monthly report files.
	ReportsDir      string `mapstructure:"reports_dir" yaml:"reports_dir"`
	ReportCellColor string `mapstructure:"report_cell_color" yaml:"report_cell_color"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultConfigPath returns ~/.config/pm/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "pm", "config.yaml")
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "pm")
}

// Default returns the configuration used when no file or variable overrides it
func Default() *Config {
	s := domain.DefaultSettings()
	return &Config{
		Database:        filepath.Join(dataDir(), "db.json"),
		Width:           s.Width,
		WarnDays:        s.WarnDays,
		ProgressChar:    s.ProgressChar,
		ReportsDir:      filepath.Join(dataDir(), "reports"),
		ReportCellColor: s.ReportCellColor,
		LogLevel:        "warn",
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("database", d.Database)
	v.SetDefault("user", d.User)
	v.SetDefault("width", d.Width)
	v.SetDefault("warn_days", d.WarnDays)
	v.SetDefault("progress_char", d.ProgressChar)
	v.SetDefault("reports_dir", d.ReportsDir)
	v.SetDefault("report_cell_color", d.ReportCellColor)
	v.SetDefault("log_level", d.LogLevel)
	return v
}

// Load reads the configuration file at path. A missing file leaves the
// defaults and environment overrides in effect.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, domain.WrapError(domain.ErrCodeValidation, fmt.Sprintf("reading config %s", path), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.WrapError(domain.ErrCodeValidation, fmt.Sprintf("parsing config %s", path), err)
	}

	cfg.Database = expandHome(cfg.Database)
	cfg.ReportsDir = expandHome(cfg.ReportsDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the renderer cannot work with
func (c *Config) Validate() error {
	if c.Database == "" {
		return domain.ErrValidation("config: database path is empty")
	}
	if c.Width <= 0 {
		return domain.ErrValidation(fmt.Sprintf("config: width must be positive, got %d", c.Width))
	}
	if c.WarnDays < 0 {
		return domain.ErrValidation(fmt.Sprintf("config: warn_days must not be negative, got %d", c.WarnDays))
	}
	if c.ProgressChar == "" {
		return domain.ErrValidation("config: progress_char is empty")
	}
	return nil
}

// Settings converts the configuration into the value shared by the store and
// the renderer.
func (c *Config) Settings() domain.Settings {
	s := domain.DefaultSettings()
	s.Width = c.Width
	s.WarnDays = c.WarnDays
	s.ProgressChar = c.ProgressChar
	s.User = c.User
	s.ReportCellColor = c.ReportCellColor
	return s
}

// Save writes cfg to a YAML file at path, creating parent directories if
// needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("user", cfg.User)
	v.Set("width", cfg.Width)
	v.Set("warn_days", cfg.WarnDays)
	v.Set("progress_char", cfg.ProgressChar)
	v.Set("reports_dir", cfg.ReportsDir)
	v.Set("report_cell_color", cfg.ReportCellColor)
	v.Set("log_level", cfg.LogLevel)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
