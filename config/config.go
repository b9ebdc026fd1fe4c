/*
Package config loads server settings.

LAYERS (later wins):
  1. Defaults
  2. YAML file (optional, -config or CONFIG_PATH)
  3. .env file and environment variables
  4. Command-line flags (Overrides, passed in by cmd/server)

ENVIRONMENT:
  PORT             HTTP port
  DB_PATH          SQLite database path (":memory:" for in-memory)
  STATIC_DIR       Frontend directory served at /
  LOG_LEVEL        zerolog level (debug, info, warn, error)
  LOG_FORMAT       "json" or "console"
  ALLOWED_ORIGINS  Comma-separated CORS origins
  BCRYPT_COST      Password hashing cost

EXAMPLE YAML:
  port: 5000
  db_path: ./data/staff.db
  static_dir: ./frontend
  log_level: info
  allowed_origins:
    - http://localhost:3000
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Config holds all server settings.
type Config struct {
	Port           int      `yaml:"port"`
	DBPath         string   `yaml:"db_path"`
	StaticDir      string   `yaml:"static_dir"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	BcryptCost     int      `yaml:"bcrypt_cost"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:       5000,
		DBPath:     "staff.db",
		StaticDir:  "./frontend",
		LogLevel:   "info",
		LogFormat:  "json",
		BcryptCost: 10,
	}
}

// Overrides are command-line values. Zero fields keep the loaded value.
type Overrides struct {
	Port      int
	DBPath    string
	StaticDir string
}

// Load applies the YAML file at path (if any), then .env and the environment,
// then o, on top of Default, and validates the result. An empty path skips
// the file.
func Load(path string, o Overrides) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.applyOverrides(o)
	return cfg, cfg.Validate()
}

func (c *Config) applyOverrides(o Overrides) {
	if o.Port != 0 {
		c.Port = o.Port
	}
	if o.DBPath != "" {
		c.DBPath = o.DBPath
	}
	if o.StaticDir != "" {
		c.StaticDir = o.StaticDir
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}

	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	return nil
}

// Validate checks the settings after all layers are applied.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("log_format %q must be json or console", c.LogFormat))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt_cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
