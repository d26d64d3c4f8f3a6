package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.SQLiteDBPath != "./data/kasicka.db" {
		t.Errorf("SQLiteDBPath = %q", cfg.SQLiteDBPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Currency != "CZK" {
		t.Errorf("Currency = %q", cfg.Currency)
	}
	if cfg.RecentLimit != 6 {
		t.Errorf("RecentLimit = %d", cfg.RecentLimit)
	}
	if !cfg.ProcessRecurringOnStart {
		t.Error("ProcessRecurringOnStart = false, want true")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", "/tmp/other.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("RECENT_LIMIT", "10")
	t.Setenv("PROCESS_RECURRING_ON_START", "false")

	cfg := Load()
	if cfg.SQLiteDBPath != "/tmp/other.db" {
		t.Errorf("SQLiteDBPath = %q", cfg.SQLiteDBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("Currency = %q", cfg.Currency)
	}
	if cfg.RecentLimit != 10 {
		t.Errorf("RecentLimit = %d", cfg.RecentLimit)
	}
	if cfg.ProcessRecurringOnStart {
		t.Error("ProcessRecurringOnStart = true, want false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.SQLiteDBPath = "" },
			wantErr: "database path",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log level",
		},
		{
			name:    "unknown currency",
			mutate:  func(c *Config) { c.Currency = "XXX1" },
			wantErr: "currency",
		},
		{
			name:    "recent limit too small",
			mutate:  func(c *Config) { c.RecentLimit = 0 },
			wantErr: "recent limit",
		},
		{
			name:    "recent limit too large",
			mutate:  func(c *Config) { c.RecentLimit = 500 },
			wantErr: "recent limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				SQLiteDBPath: t.TempDir() + "/kasicka.db",
				LogLevel:     "info",
				Currency:     "CZK",
				RecentLimit:  6,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
