package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"db"`
	API      APIConfig      `mapstructure:"api"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// CacheConfig holds list cache configuration. A zero TTL disables caching.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StorageConfig selects the customer repository implementation
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"db.host":         "localhost",
	"db.port":         5432,
	"db.user":         "customers",
	"db.password":     "customers",
	"db.name":         "customers",
	"db.sslmode":      "disable",
	"db.auto_migrate": false,
	"api.port":        8080,
	"cache.ttl":       30 * time.Second,
	"storage.driver":  StoragePostgres,
	"log.level":       "info",
	"log.format":      "json",
}

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables. Keys map to variables by
// upper-casing and replacing dots with underscores, so "db.host" is read
// from DB_HOST and "cache.ttl" from CACHE_TTL. CACHE_TTL takes a duration
// ("30s") or a whole number of milliseconds ("30000").
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cacheTTLMillis(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cacheTTLMillis rewrites a bare integer cache.ttl as milliseconds. Duration
// strings such as "30s" are left for Unmarshal.
func cacheTTLMillis(v *viper.Viper) error {
	raw := strings.TrimSpace(v.GetString("cache.ttl"))
	if raw == "" || strings.Trim(raw, "0123456789") != "" {
		return nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid CACHE_TTL %q: %w", raw, err)
	}
	v.Set("cache.ttl", time.Duration(ms)*time.Millisecond)
	return nil
}

// Validate checks that values are usable
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API_PORT: %d", c.API.Port)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid CACHE_TTL: %s", c.Cache.TTL)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid DB_PORT: %d", c.Database.Port)
		}
		if c.Database.Host == "" {
			return errors.New("DB_HOST is required")
		}
		if c.Database.DBName == "" {
			return errors.New("DB_NAME is required")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q (must be %q or %q)", c.Storage.Driver, StoragePostgres, StorageMemory)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (must be json or text)", c.Log.Format)
	}

	return nil
}
