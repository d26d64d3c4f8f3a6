package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

type Config struct {
	// Database
	SQLiteDBPath string

	// Logging
	LogLevel string

	// Display currency for CLI output (ISO 4217 code).
	Currency string

	// Dashboard-style views
	RecentLimit int

	// Recurrence processing at startup
	ProcessRecurringOnStart bool
}

func Load() *Config {
	return &Config{
		SQLiteDBPath:            getEnv("SQLITE_DB_PATH", "./data/kasicka.db"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		Currency:                getEnv("CURRENCY", money.CZK),
		RecentLimit:             getEnvInt("RECENT_LIMIT", 6),
		ProcessRecurringOnStart: getEnvBool("PROCESS_RECURRING_ON_START", true),
	}
}

// Validate returns an error describing every invalid setting at once.
func (c *Config) Validate() error {
	var errors []string

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if money.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown currency code '%s'", c.Currency))
	}

	if c.RecentLimit < 1 || c.RecentLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid recent limit %d: must be between 1 and 100", c.RecentLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
