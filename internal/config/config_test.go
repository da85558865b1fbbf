package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BIBLIO_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.URL)
	assert.Equal(t, "Token", cfg.API.AuthScheme)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(Home(), "session.json"), cfg.Storage.Path)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRate)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BIBLIO_HOME", dir)

	path := filepath.Join(dir, "custom.yaml")
	content := `api:
  url: https://library.example.com/api
  auth_scheme: Bearer
  timeout: 5s
storage:
  backend: redis
  redis_url: redis://localhost:6379/1
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://library.example.com/api", cfg.API.URL)
	assert.Equal(t, "Bearer", cfg.API.AuthScheme)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "biblio:session:", cfg.Storage.RedisPrefix)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BIBLIO_HOME", t.TempDir())
	t.Setenv("BIBLIO_API_URL", "http://api.internal:9000/api")
	t.Setenv("BIBLIO_STORAGE_BACKEND", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000/api", cfg.API.URL)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			API:     APIConfig{URL: "http://localhost:8000/api", Timeout: time.Second},
			Storage: StorageConfig{Backend: BackendFile},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"empty url", func(c *Config) { c.API.URL = "" }, false},
		{"non http url", func(c *Config) { c.API.URL = "ftp://x" }, false},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, false},
		{"redis without url", func(c *Config) { c.Storage.Backend = BackendRedis }, false},
		{"redis with url", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.RedisURL = "redis://localhost:6379"
		}, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "sqlite" }, false},
		{"sample rate above one", func(c *Config) { c.Telemetry.SampleRate = 1.5 }, false},
		{"negative sample rate", func(c *Config) { c.Telemetry.SampleRate = -0.1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, berrors.ErrCodeConfigInvalid, berrors.CodeOf(err))
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("BIBLIO_HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, berrors.ErrCodeConfigRead, berrors.CodeOf(err))
}
