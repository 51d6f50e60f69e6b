// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/magnetic/internal/logging"
)

// Config holds the application configuration.
type Config struct {
	Day     DayConfig     `toml:"day"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// DayConfig describes the item a fresh day is seeded with.
type DayConfig struct {
	SeedTitle string `toml:"seed_title"` // e.g., "Free time"
	SeedColor string `toml:"seed_color"` // "#rrggbb", optional
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, error
	Format string `toml:"format"` // "console" or "json"
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color      bool `toml:"color"`
	StripWidth int  `toml:"strip_width"` // cells in the day strip printed by show
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Day: DayConfig{
			SeedTitle: "Free time",
			SeedColor: "#9ca3af",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		UI: UIConfig{
			Color:      true,
			StripWidth: 48,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "magnetic.db"
	}
	return filepath.Join(home, ".local", "share", "magnetic", "magnetic.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "magnetic", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("MAGNETIC_SEED_TITLE"); v != "" {
		cfg.Day.SeedTitle = v
	}
	if v := os.Getenv("MAGNETIC_SEED_COLOR"); v != "" {
		cfg.Day.SeedColor = v
	}
	if v := os.Getenv("MAGNETIC_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("MAGNETIC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MAGNETIC_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MAGNETIC_STRIP_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAGNETIC_STRIP_WIDTH: %w", err)
		}
		cfg.UI.StripWidth = n
	}
	// NO_COLOR is honored the same way most terminal tools do.
	if os.Getenv("NO_COLOR") != "" || os.Getenv("MAGNETIC_NO_COLOR") != "" {
		cfg.UI.Color = false
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Day.SeedTitle) == "" {
		return errors.New("seed_title must be set")
	}
	if c.Day.SeedColor != "" && !ValidColor(c.Day.SeedColor) {
		return fmt.Errorf("seed_color must be a hex color like #4287f5, got %q", c.Day.SeedColor)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}
	if c.UI.StripWidth < 12 || c.UI.StripWidth > 288 {
		return fmt.Errorf("strip_width must be between 12 and 288, got %d", c.UI.StripWidth)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
