// Package config loads placemarks settings from config.yaml, .env files and
// PLACEMARKS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "PLACEMARKS"

	// Config keys.
	KeyDataDir       = "data_dir"
	KeyBackend       = "backend"
	KeyShareDir      = "share_dir"
	KeyImportDir     = "import_dir"
	KeyLoadWorkers   = "load_workers"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyPositionKnown = "position.known"
	KeyPositionLat   = "position.lat"
	KeyPositionLon   = "position.lon"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# placemarks configuration

# Storage backend: sqlite or json
backend: sqlite

# Where bookmarks are stored (defaults to this directory)
# data_dir:

# Where shared files are written (defaults to <data_dir>/shared)
# share_dir:

# Bookmark files dropped here are imported while the TUI runs
# (defaults to <data_dir>/inbox)
# import_dir:

load_workers: 4

log:
  level: info
  format: text

# Your position, used to sort bookmarks by distance
position:
  known: false
  lat: 0
  lon: 0
`

// Config holds application configuration.
type Config struct {
	DataDir     string   `mapstructure:"data_dir"`
	Backend     string   `mapstructure:"backend"`
	ShareDir    string   `mapstructure:"share_dir"`
	ImportDir   string   `mapstructure:"import_dir"`
	LoadWorkers int      `mapstructure:"load_workers"`
	Log         Log      `mapstructure:"log"`
	Position    Position `mapstructure:"position"`

	// ConfigDir is the directory config.yaml was read from.
	ConfigDir string `mapstructure:"-"`
}

// Log configures the application logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Position is the user's location for distance sorting.
type Position struct {
	Known bool    `mapstructure:"known"`
	Lat   float64 `mapstructure:"lat"`
	Lon   float64 `mapstructure:"lon"`
}

// TempDir is where import copies are kept until the Store has loaded them.
func (c *Config) TempDir() string {
	return filepath.Join(c.DataDir, "tmp")
}

// LogFile is where the TUI writes its log.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "placemarks.log")
}

// DefaultConfigDir returns the default config directory: ~/.config/placemarks
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "placemarks"), nil
}

// Load reads the configuration from configDir. It creates the directory and
// a default config.yaml on first run. Values from a .env file in configDir
// and PLACEMARKS_* variables (PLACEMARKS_LOG_LEVEL for log.level) override
// the file.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	// A missing .env is fine. Existing variables win over the file.
	_ = godotenv.Load(filepath.Join(configDir, ".env"))

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigDir = configDir

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyBackend, "sqlite")
	v.SetDefault(KeyShareDir, "")
	v.SetDefault(KeyImportDir, "")
	v.SetDefault(KeyLoadWorkers, 4)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyPositionKnown, false)
	v.SetDefault(KeyPositionLat, 0.0)
	v.SetDefault(KeyPositionLon, 0.0)
}

// resolve fills derived directories and validates values.
func (c *Config) resolve() error {
	if c.DataDir == "" {
		c.DataDir = c.ConfigDir
	}
	c.DataDir = expandHome(c.DataDir)
	if c.ShareDir == "" {
		c.ShareDir = filepath.Join(c.DataDir, "shared")
	}
	c.ShareDir = expandHome(c.ShareDir)
	if c.ImportDir == "" {
		c.ImportDir = filepath.Join(c.DataDir, "inbox")
	}
	c.ImportDir = expandHome(c.ImportDir)

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "sqlite", "json":
	default:
		return fmt.Errorf("config: unknown backend %q (want sqlite or json)", c.Backend)
	}

	if c.LoadWorkers <= 0 {
		c.LoadWorkers = 1
	}
	if c.Position.Lat < -90 || c.Position.Lat > 90 || c.Position.Lon < -180 || c.Position.Lon > 180 {
		return fmt.Errorf("config: position %.6f,%.6f is out of range", c.Position.Lat, c.Position.Lon)
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

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
