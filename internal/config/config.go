// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration. Values start from
// DefaultConfig, are overlaid by an optional YAML file and finally by
// SALONSITE_* environment variables. Nested keys use a double underscore in
// the environment: SALONSITE_SESSION__BACKEND sets session.backend.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SALONSITE_"

// Config holds all application configuration values.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
	Assets   AssetsConfig   `yaml:"assets" koanf:"assets"`
	Session  SessionConfig  `yaml:"session" koanf:"session"`
	Valkey   ValkeyConfig   `yaml:"valkey" koanf:"valkey"`
	Database DatabaseConfig `yaml:"database" koanf:"database"`
	S3       S3Config       `yaml:"s3" koanf:"s3"`
	Suggest  SuggestConfig  `yaml:"suggest" koanf:"suggest"`
	Limits   LimitsConfig   `yaml:"limits" koanf:"limits"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host        string   `yaml:"host" koanf:"host"`
	Port        string   `yaml:"port" koanf:"port"`
	Env         string   `yaml:"env" koanf:"env"` // "development", "production", "testing"
	CORSOrigins []string `yaml:"cors_origins" koanf:"cors_origins"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string `yaml:"format" koanf:"format"` // "text" or "json"
	Level  string `yaml:"level" koanf:"level"`
}

// AssetsConfig selects where theme bundles are read from.
type AssetsConfig struct {
	Source   string        `yaml:"source" koanf:"source"` // "embed", "dir", "http", "s3"
	Dir      string        `yaml:"dir" koanf:"dir"`
	BaseURL  string        `yaml:"base_url" koanf:"base_url"`
	Prefix   string        `yaml:"prefix" koanf:"prefix"`
	CacheTTL time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
}

// SessionConfig controls the visitor session store.
type SessionConfig struct {
	Backend      string        `yaml:"backend" koanf:"backend"` // "memory" or "valkey"
	TTL          time.Duration `yaml:"ttl" koanf:"ttl"`
	SecureCookie bool          `yaml:"secure_cookie" koanf:"secure_cookie"`
}

// ValkeyConfig holds the Valkey connection settings.
type ValkeyConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`
}

// DatabaseConfig enables the generation log when DSN is set.
type DatabaseConfig struct {
	Driver string `yaml:"driver" koanf:"driver"` // "postgres" or "sqlite"
	DSN    string `yaml:"dsn" koanf:"dsn"`
}

// S3Config holds the S3-compatible object storage settings.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" koanf:"endpoint"`
	Region    string `yaml:"region" koanf:"region"`
	AccessKey string `yaml:"access_key" koanf:"access_key"`
	SecretKey string `yaml:"secret_key" koanf:"secret_key"`
	Bucket    string `yaml:"bucket" koanf:"bucket"`
}

// SuggestConfig controls the business-listing suggestion endpoint.
type SuggestConfig struct {
	Enabled      bool   `yaml:"enabled" koanf:"enabled"`
	NominatimURL string `yaml:"nominatim_url" koanf:"nominatim_url"`
	OverpassURL  string `yaml:"overpass_url" koanf:"overpass_url"`
}

// LimitsConfig bounds concurrency and request rates.
type LimitsConfig struct {
	MaxConcurrent    int `yaml:"max_concurrent" koanf:"max_concurrent"`
	GenerateRequests int `yaml:"generate_requests" koanf:"generate_requests"` // per IP per minute
	UploadRequests   int `yaml:"upload_requests" koanf:"upload_requests"`
	SuggestRequests  int `yaml:"suggest_requests" koanf:"suggest_requests"`
}

// DefaultConfig returns the development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Env:  "development",
		},
		Log: LogConfig{Format: "text", Level: "info"},
		Assets: AssetsConfig{
			Source:   "embed",
			CacheTTL: 10 * time.Minute,
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     2 * time.Hour,
		},
		Valkey:   ValkeyConfig{Addr: "localhost:6379"},
		Database: DatabaseConfig{Driver: "postgres"},
		S3:       S3Config{Region: "us-east-1"},
		Suggest: SuggestConfig{
			Enabled:      true,
			NominatimURL: "https://nominatim.openstreetmap.org",
			OverpassURL:  "https://overpass-api.de/api/interpreter",
		},
		Limits: LimitsConfig{
			MaxConcurrent:    4,
			GenerateRequests: 10,
			UploadRequests:   60,
			SuggestRequests:  20,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. An empty path or a missing file leaves
// the defaults in place.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: access %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps SALONSITE_SESSION__BACKEND to session.backend.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

var (
	validEnvs           = map[string]bool{"development": true, "production": true, "testing": true}
	validLogFormats     = map[string]bool{"text": true, "json": true}
	validLogLevels      = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validAssetSources   = map[string]bool{"embed": true, "dir": true, "http": true, "s3": true}
	validSessionStores  = map[string]bool{"memory": true, "valkey": true}
	validDatabaseDriver = map[string]bool{"postgres": true, "sqlite": true}
)

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if !validEnvs[c.Server.Env] {
		return fmt.Errorf("config: invalid server.env %q", c.Server.Env)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("config: server.port is required")
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("config: invalid log.format %q: must be text or json", c.Log.Format)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("config: invalid log.level %q", c.Log.Level)
	}

	if !validAssetSources[c.Assets.Source] {
		return fmt.Errorf("config: invalid assets.source %q: must be one of embed, dir, http, s3", c.Assets.Source)
	}
	switch c.Assets.Source {
	case "dir":
		if c.Assets.Dir == "" {
			return fmt.Errorf("config: assets.dir is required for the dir source")
		}
	case "http":
		if c.Assets.BaseURL == "" {
			return fmt.Errorf("config: assets.base_url is required for the http source")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("config: s3.bucket is required for the s3 source")
		}
	}
	if c.Assets.CacheTTL < 0 {
		return fmt.Errorf("config: assets.cache_ttl must be non-negative")
	}

	if !validSessionStores[c.Session.Backend] {
		return fmt.Errorf("config: invalid session.backend %q: must be memory or valkey", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session.ttl must be positive")
	}

	if c.Database.DSN != "" && !validDatabaseDriver[c.Database.Driver] {
		return fmt.Errorf("config: invalid database.driver %q: must be postgres or sqlite", c.Database.Driver)
	}

	if c.Limits.MaxConcurrent < 1 {
		return fmt.Errorf("config: limits.max_concurrent must be at least 1")
	}
	if c.Limits.GenerateRequests < 0 || c.Limits.UploadRequests < 0 || c.Limits.SuggestRequests < 0 {
		return fmt.Errorf("config: request limits must be non-negative")
	}

	if c.IsProduction() && !c.Session.SecureCookie {
		return fmt.Errorf("config: session.secure_cookie must be enabled in production")
	}
	return nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// NeedsValkey reports whether any component is backed by Valkey.
func (c *Config) NeedsValkey() bool {
	return c.Session.Backend == "valkey" || (c.Assets.Source != "embed" && c.Assets.CacheTTL > 0)
}

// NeedsS3 reports whether an S3 client must be configured.
func (c *Config) NeedsS3() bool {
	return c.Assets.Source == "s3" || c.S3.Bucket != ""
}
