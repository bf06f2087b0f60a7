package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
// Configuration is loaded from a JSON or YAML file; values missing from the
// file keep their defaults.
type Config struct {
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Airports  AirportsConfig  `json:"airports" yaml:"airports"`
	Animation AnimationConfig `json:"animation" yaml:"animation"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// StorageConfig selects where the flight history is kept.
type StorageConfig struct {
	// Driver is one of "file", "postgres" or "memory" (default: "file")
	Driver string `json:"driver" yaml:"driver"`

	// DataDir holds the slot files of the file driver.
	// Empty means the flightlog directory under the user config dir.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Slot names the saved collection (default: "safr_flights")
	Slot string `json:"slot" yaml:"slot"`

	// Database is used by the postgres driver
	Database DatabaseConfig `json:"database" yaml:"database"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string `json:"host" yaml:"host"`

	// Port is the database server port
	Port int `json:"port" yaml:"port"`

	// Database is the database name
	Database string `json:"database" yaml:"database"`

	// Username for database authentication
	Username string `json:"username" yaml:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode" yaml:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns" yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns" yaml:"max_idle_conns"`

	// ConnectRetries is how many times to try connecting at startup
	ConnectRetries int `json:"connect_retries" yaml:"connect_retries"`
}

// AirportsConfig controls where the airport catalog comes from.
type AirportsConfig struct {
	// SourceURL is an OpenFlights airports.dat file
	SourceURL string `json:"source_url" yaml:"source_url"`

	// CachePath is the local copy of the catalog.
	// Empty means airports.msgpack.zst under the user cache dir.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// CacheMaxAgeHours is how long the local copy is trusted; 0 means forever
	CacheMaxAgeHours int `json:"cache_max_age_hours" yaml:"cache_max_age_hours"`

	// RequestsPerMinute limits requests to the source
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// TimeoutSeconds bounds a single download
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// MaxRetries for failed downloads
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AnimationConfig tunes the path animation and globe rotation.
type AnimationConfig struct {
	// FPS is the animation clock rate (default: 60)
	FPS int `json:"fps" yaml:"fps"`

	// CooldownSeconds pauses auto-rotation after user input (default: 10)
	CooldownSeconds int `json:"cooldown_seconds" yaml:"cooldown_seconds"`

	// RotationDegreesPerSecond is the auto-rotation speed
	RotationDegreesPerSecond float64 `json:"rotation_degrees_per_second" yaml:"rotation_degrees_per_second"`

	// BoundariesPath is an optional GeoJSON file of country boundaries
	BoundariesPath string `json:"boundaries_path" yaml:"boundaries_path"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	// Level is debug, info, warn or error (default: info)
	Level string `json:"level" yaml:"level"`

	// Dir holds the log file. Empty means the user config dir.
	Dir string `json:"dir" yaml:"dir"`

	// MaxSizeMB rotates the log at this size
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated logs kept
	MaxBackups int `json:"max_backups" yaml:"max_backups"`
}

// Load reads configuration from a file.
// If the file doesn't exist, returns default configuration.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a file, as YAML or JSON by extension.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "file",
			Slot:   "safr_flights",
			Database: DatabaseConfig{
				Host:           "localhost",
				Port:           5432,
				Database:       "flightlog",
				Username:       "flightlog",
				SSLMode:        "disable",
				MaxOpenConns:   4,
				MaxIdleConns:   2,
				ConnectRetries: 3,
			},
		},
		Airports: AirportsConfig{
			SourceURL:         "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat",
			CacheMaxAgeHours:  24 * 30,
			RequestsPerMinute: 6,
			TimeoutSeconds:    30,
			MaxRetries:        3,
		},
		Animation: AnimationConfig{
			FPS:                      60,
			CooldownSeconds:          10,
			RotationDegreesPerSecond: 6,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  16,
			MaxBackups: 2,
		},
	}
}

// Validate checks values that would otherwise fail later in surprising ways.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "postgres", "memory":
	default:
		return fmt.Errorf("invalid storage driver %q (want file, postgres or memory)", c.Storage.Driver)
	}
	if c.Storage.Slot == "" {
		return fmt.Errorf("storage slot name must not be empty")
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("animation fps must be positive, got %d", c.Animation.FPS)
	}
	return nil
}

// CacheMaxAge returns the airport cache lifetime, 0 meaning no expiry.
func (c *AirportsConfig) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeHours) * time.Hour
}

// Timeout returns the download timeout.
func (c *AirportsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FrameInterval returns the time between animation frames.
func (c *AnimationConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Cooldown returns the auto-rotation pause after user input.
func (c *AnimationConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// DefaultPath returns config.json under the flightlog user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(dir, "flightlog", "config.json")
}

// applyEnvironmentOverrides applies environment variable overrides.
// Environment variables take precedence over config file values.
func (c *Config) applyEnvironmentOverrides() {
	if driver := os.Getenv("FLIGHTLOG_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if dir := os.Getenv("FLIGHTLOG_DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
	}
	if dbPassword := os.Getenv("FLIGHTLOG_DB_PASSWORD"); dbPassword != "" {
		c.Storage.Database.Password = dbPassword
	}
	if url := os.Getenv("FLIGHTLOG_AIRPORTS_URL"); url != "" {
		c.Airports.SourceURL = url
	}
	if level := os.Getenv("FLIGHTLOG_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
