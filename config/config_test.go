package config

import (
	"errors"
	"testing"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/configparser"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg := &Config{}
	if err := configparser.ParseEnv(cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := validConfig(t)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Storage.Driver != types.StorageSQLite || cfg.Storage.RecordStore() != types.StorageSQLite {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.Geocoder.Timeout.Seconds() != 10 {
		t.Fatalf("geocoder timeout = %v, want 10s", cfg.Geocoder.Timeout)
	}
	if cfg.HTTP.Port != 5000 {
		t.Fatalf("port = %d", cfg.HTTP.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"redis as primary", func(c *Config) { c.Storage.Driver = types.StorageRedis }},
		{"mismatched sql record store", func(c *Config) { c.Storage.LocationStore = types.StoragePostgres }},
		{"unknown record store", func(c *Config) { c.Storage.LocationStore = "memcached" }},
		{"unknown events", func(c *Config) { c.Events.Driver = "kafka" }},
		{"unknown geocoder", func(c *Config) { c.Geocoder.Provider = "google" }},
		{"locationiq without key", func(c *Config) { c.Geocoder.Provider = types.ProviderLocationIQ }},
		{"bad log level", func(c *Config) { c.Log.Level = "TRACE" }},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestRecordStoreOverride(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.LocationStore = types.StorageRedis

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.RecordStore() != types.StorageRedis {
		t.Fatalf("record store = %s", cfg.Storage.RecordStore())
	}
}

func TestMaskDSN(t *testing.T) {
	dsn := maskDSN(DatabaseConfig{User: "u", Password: "hunter2", Host: "h", Port: "5432", Database: "d"})
	if dsn != "postgres://u:********@h:5432/d?sslmode=disable" {
		t.Fatalf("dsn = %s", dsn)
	}
}
