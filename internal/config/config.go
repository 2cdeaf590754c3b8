// Package config loads server configuration from an optional YAML file with
// environment variable overrides. Env always wins over file values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort     = "8080"
	DefaultMode     = "tcp"
	DefaultTokenTTL = 24 * time.Hour
)

type Config struct {
	// Mode selects the listener: "tcp" or "uds".
	Mode string `yaml:"mode"`
	Port string `yaml:"port"`
	// SocketPath only applies in uds mode; empty means the default path.
	SocketPath string `yaml:"socket_path"`

	// DBPath is the sqlite file. Empty runs fully in memory.
	DBPath string `yaml:"db_path"`

	// JWTSecret signs session tokens. Mandatory outside of tests.
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	LogLevel string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Mode:     DefaultMode,
		Port:     DefaultPort,
		TokenTTL: DefaultTokenTTL,
		LogLevel: "info",
	}
}

// Load reads path (when non-empty), then applies env overrides. A missing
// file is only an error when it was explicitly requested.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Mode != "tcp" && cfg.Mode != "uds" {
		return Config{}, fmt.Errorf("config: unknown mode %q", cfg.Mode)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("SERVER_SOCKET_PATH"); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
}
