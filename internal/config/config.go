// Package config handles biblio configuration using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Storage backends accepted by storage.backend
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api" json:"api"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" json:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`

	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry" json:"telemetry"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-" yaml:"-" json:"-"`
}

// APIConfig describes how to reach the REST backend.
type APIConfig struct {
	URL        string        `mapstructure:"url" yaml:"url" json:"url"`
	AuthScheme string        `mapstructure:"auth_scheme" yaml:"auth_scheme" json:"auth_scheme"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	Backend     string `mapstructure:"backend" yaml:"backend" json:"backend"`
	Path        string `mapstructure:"path" yaml:"path" json:"path"`
	RedisURL    string `mapstructure:"redis_url" yaml:"redis_url" json:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix" yaml:"redis_prefix" json:"redis_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// OutputConfig holds display settings.
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format" json:"format"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color" json:"no_color"`
}

// TelemetryConfig controls OpenTelemetry tracing of commands and API calls.
// Spans are only exported when an endpoint is set.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
}

// Home returns the biblio state directory: $BIBLIO_HOME or ~/.biblio.
func Home() string {
	if h := os.Getenv("BIBLIO_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".biblio"
	}
	return filepath.Join(home, ".biblio")
}

// DefaultPath is the config file looked up when --config is not given.
func DefaultPath() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load reads configuration from file and environment.
// A missing config file is not an error; every key has a default.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(Home())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BIBLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is OK unless one was named explicitly
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, berrors.Wrap(berrors.ErrCodeConfigRead, "failed to read configuration", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeConfigInvalid, "failed to decode configuration", err)
	}
	cfg.File = v.ConfigFileUsed()

	if strings.HasPrefix(cfg.Storage.Path, "~") {
		home, _ := os.UserHomeDir()
		cfg.Storage.Path = filepath.Join(home, cfg.Storage.Path[1:])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late, at first request.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return berrors.New(berrors.ErrCodeConfigInvalid, "api.url must not be empty")
	}
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return berrors.New(berrors.ErrCodeConfigInvalid, fmt.Sprintf("api.url must be an http(s) URL, got %q", c.API.URL))
	}
	if c.API.Timeout <= 0 {
		return berrors.New(berrors.ErrCodeConfigInvalid, "api.timeout must be positive")
	}

	switch c.Storage.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return berrors.New(berrors.ErrCodeConfigInvalid, "storage.redis_url is required for the redis backend").
				WithSuggestion("Set BIBLIO_STORAGE_REDIS_URL=redis://localhost:6379/0")
		}
	default:
		return berrors.New(berrors.ErrCodeConfigInvalid, fmt.Sprintf("unknown storage.backend %q (supported: file, redis, memory)", c.Storage.Backend))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return berrors.New(berrors.ErrCodeConfigInvalid,
			fmt.Sprintf("telemetry.sample_rate must be between 0 and 1, got %g", c.Telemetry.SampleRate))
	}

	return nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:8000/api")
	v.SetDefault("api.auth_scheme", "Token")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", filepath.Join(Home(), "session.json"))
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.redis_prefix", "biblio:session:")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.format", "text")
	v.SetDefault("output.no_color", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.sample_rate", 1.0)
}
