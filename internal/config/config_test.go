package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no stray config.yaml
// is picked up
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "customers", cfg.Database.DBName)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Environment(t *testing.T) {
	inTempDir(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "crm")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("API_PORT", "9090")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "crm", cfg.Database.DBName)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	content := []byte("api:\n  port: 7070\ncache:\n  ttl: 0s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.API.Port)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
}

func TestLoad_CacheTTLFormats(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{value: "30000", want: 30 * time.Second},
		{value: "1500", want: 1500 * time.Millisecond},
		{value: "0", want: 0},
		{value: "2m", want: 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			inTempDir(t)
			t.Setenv("CACHE_TTL", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Cache.TTL)
		})
	}
}

func TestLoad_CacheTTLMillisecondsInFile(t *testing.T) {
	dir := inTempDir(t)
	content := []byte("cache:\n  ttl: 250\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Cache.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad api port", env: map[string]string{"API_PORT": "0"}},
		{name: "non numeric port", env: map[string]string{"API_PORT": "http"}},
		{name: "negative ttl", env: map[string]string{"CACHE_TTL": "-1s"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
