// Package config loads the application configuration from a YAML file
// with environment-variable expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	API      APIConfig     `yaml:"api"`
	Seed     bool          `yaml:"seed"`
	LogLevel string        `yaml:"log_level"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	AdminToken string `yaml:"admin_token"`
}

type StorageConfig struct {
	// Backend selection: "auto" tries SQLite and falls back to the
	// key/value store, "sqlite" and "fallback" force a backend.
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
	Dir        string `yaml:"dir"`
	Namespace  string `yaml:"namespace"`
	QuotaBytes int64  `yaml:"quota_bytes"`
}

type APIConfig struct {
	// Latency adds a fixed delay to façade calls; zero disables it.
	Latency Duration `yaml:"latency"`
}

// Duration is a time.Duration that unmarshals from YAML scalars like
// "250ms" as well as plain nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Load reads the config file at path, expanding ${VAR} references from
// the environment (a .env file is honored when present).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{Seed: true}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "auto"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/cms.db"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data/kv"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "auto", "sqlite", "fallback":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
