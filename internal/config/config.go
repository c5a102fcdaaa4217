package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"attendees-extractor/internal/settings"
)

// Config holds all configuration for the application.
type Config struct {
	VaultPath string
	VaultName string
	DBPath    string
	APIPort   string
	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	// Seed values for the settings row, used until settings are saved.
	Heading      string
	Property     string
	Template     string
	Directories  []string
	EnableOnSave bool
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		VaultPath:   getEnv("VAULT_PATH", ""),
		VaultName:   getEnv("VAULT_NAME", "vault"),
		DBPath:      getEnv("DB_PATH", "./data/attendees-extractor.db"),
		APIPort:     getEnv("API_PORT", "9000"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Heading:     getEnv("ATTENDEES_HEADING", settings.DefaultHeading),
		Property:    getEnv("ATTENDEES_PROPERTY", settings.DefaultProperty),
		Template:    getEnv("ATTENDEES_TEMPLATE", settings.DefaultTemplate),
		Directories: settings.ParseDirectories(getEnv("ATTENDEES_DIRECTORIES", "")),
	}

	cfg.LogLevel, err = getLevel("LOG_LEVEL", slog.LevelInfo)
	if err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	cfg.EnableOnSave, err = getBool("ATTENDEES_ENABLE_ON_SAVE", false)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("VAULT_PATH is required")
	}
	info, err := os.Stat(cfg.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("VAULT_PATH %s is not accessible: %w", cfg.VaultPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("VAULT_PATH %s is not a directory", cfg.VaultPath)
	}

	if err := cfg.Seed().Validate(); err != nil {
		return nil, fmt.Errorf("invalid ATTENDEES_* settings: %w", err)
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Seed returns the settings configured through the environment.
func (c *Config) Seed() settings.Settings {
	return settings.Settings{
		Heading:      c.Heading,
		Property:     c.Property,
		Template:     c.Template,
		Directories:  c.Directories,
		EnableOnSave: c.EnableOnSave,
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBool parses a boolean environment variable.
func getBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

// getLevel parses a log level (debug, info, warn, error) environment variable.
func getLevel(key string, defaultValue slog.Level) (slog.Level, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultValue, fmt.Errorf("%s must be one of debug, info, warn, error: %w", key, err)
	}
	return level, nil
}
