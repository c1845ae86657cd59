// Package config loads application configuration from an optional YAML file
// and environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr    string
	DBPath        string
	SecureCookies bool // mark session/CSRF cookies Secure when served over HTTPS
	LogLevel      slog.Level
}

// fileConfig is the YAML file layout. Pointer fields distinguish unset keys.
type fileConfig struct {
	ListenAddr    *string `yaml:"listen_addr"`
	DBPath        *string `yaml:"db_path"`
	SecureCookies *bool   `yaml:"secure_cookies"`
	LogLevel      *string `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ListenAddr: "127.0.0.1:8080",
		DBPath:     "agendahub.db",
		LogLevel:   slog.LevelInfo,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// AGENDAHUB_CONFIG_FILE (if set), then individual environment variables:
// AGENDAHUB_LISTEN_ADDR (127.0.0.1:8080), AGENDAHUB_DB_PATH (agendahub.db),
// AGENDAHUB_SECURE_COOKIES (false), AGENDAHUB_LOG_LEVEL (info). Invalid values
// and unknown file keys fail fast.
func Load() (*Config, error) {
	cfg := Default()

	if path, ok := os.LookupEnv("AGENDAHUB_CONFIG_FILE"); ok && path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v, ok := os.LookupEnv("AGENDAHUB_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("AGENDAHUB_DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("AGENDAHUB_SECURE_COOKIES"); ok {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("AGENDAHUB_SECURE_COOKIES has invalid boolean %q: %w", v, err)
		}
		cfg.SecureCookies = secure
	}

	if v, ok := os.LookupEnv("AGENDAHUB_LOG_LEVEL"); ok {
		level, err := parseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("AGENDAHUB_LOG_LEVEL %w", err)
		}
		cfg.LogLevel = level
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path must not be empty")
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.ListenAddr != nil {
		c.ListenAddr = *fc.ListenAddr
	}
	if fc.DBPath != nil {
		c.DBPath = *fc.DBPath
	}
	if fc.SecureCookies != nil {
		c.SecureCookies = *fc.SecureCookies
	}
	if fc.LogLevel != nil {
		level, err := parseLevel(*fc.LogLevel)
		if err != nil {
			return fmt.Errorf("config file log_level %w", err)
		}
		c.LogLevel = level
	}

	return nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return 0, fmt.Errorf("has invalid level %q: %w", v, err)
	}
	return level, nil
}
