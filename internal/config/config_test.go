package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:       "0.0.0.0",
		Port:       "8080",
		Store:      StoreMemory,
		AdminCreds: "admin:secret",
		LogLevel:   "info",
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "STORE", "DB_PATH", "ADMIN_CREDENTIALS", "JWT_SECRET", "LOG_LEVEL", "DEBUG", "CONFIG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "admin:admin", cfg.AdminCreds)
	assert.Equal(t, cfg.AdminCreds, cfg.JWTSecret)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.Debug)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE", "sqlite")
	t.Setenv("DB_PATH", "/tmp/adtrack.db")
	t.Setenv("ADMIN_CREDENTIALS", "me:pw")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/adtrack.db", cfg.DBPath)
	assert.Equal(t, "me:pw", cfg.AdminCreds)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nsearch_cache_mb: 0\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 0, cfg.SearchCacheMB)
}

func TestLoad_InvalidStore(t *testing.T) {
	t.Setenv("STORE", "redis")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"sqlite store", func(c *Config) { c.Store = StoreSQLite }, true},
		{"empty host", func(c *Config) { c.Host = "" }, false},
		{"port not numeric", func(c *Config) { c.Port = "http" }, false},
		{"unknown store", func(c *Config) { c.Store = "redis" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, false},
		{"negative cache size", func(c *Config) { c.SearchCacheMB = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestProduction(t *testing.T) {
	c := validConfig()
	assert.False(t, c.Production())
	c.Env = "production"
	assert.True(t, c.Production())
	c.Debug = true
	assert.False(t, c.Production())
}
