package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestHistoryURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.com"
	cfg.HistoryPath = "/history"
	if got := cfg.HistoryURL(); got != "https://example.com/history" {
		t.Errorf("HistoryURL() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "explicit page count", mutate: func(c *Config) { c.TotalPages = 500 }, wantErr: false},
		{name: "sequential strategy", mutate: func(c *Config) { c.Strategy = StrategySequential }, wantErr: false},
		{name: "full snapshots", mutate: func(c *Config) { c.SnapshotFmt = SnapshotFull }, wantErr: false},
		{name: "empty base URL", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
		{name: "base URL without host", mutate: func(c *Config) { c.BaseURL = "https://" }, wantErr: true},
		{name: "negative pages", mutate: func(c *Config) { c.TotalPages = -1 }, wantErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: true},
		{name: "unknown strategy", mutate: func(c *Config) { c.Strategy = "round-robin" }, wantErr: true},
		{name: "zero checkpoint interval", mutate: func(c *Config) { c.CheckpointInterval = 0 }, wantErr: true},
		{name: "zero result buffer", mutate: func(c *Config) { c.ResultBuffer = 0 }, wantErr: true},
		{name: "zero nav timeout", mutate: func(c *Config) { c.NavTimeout = 0 }, wantErr: true},
		{name: "zero extract timeout", mutate: func(c *Config) { c.ExtractTimeout = 0 }, wantErr: true},
		{name: "zero poll attempts", mutate: func(c *Config) { c.PollAttempts = 0 }, wantErr: true},
		{name: "negative poll interval", mutate: func(c *Config) { c.PollInterval = -time.Second }, wantErr: true},
		{name: "negative page delay", mutate: func(c *Config) { c.PageDelay = -time.Second }, wantErr: true},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "empty database file", mutate: func(c *Config) { c.DatabaseFile = "" }, wantErr: true},
		{name: "unknown snapshot format", mutate: func(c *Config) { c.SnapshotFmt = "xml" }, wantErr: true},
		{name: "empty user agent", mutate: func(c *Config) { c.UserAgent = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Run("string present", func(t *testing.T) {
		t.Setenv("TEST_ENV_STRING", "hello")
		value, ok := EnvString("TEST_ENV_STRING")
		if !ok || value != "hello" {
			t.Errorf("EnvString = (%q, %v)", value, ok)
		}
	})

	t.Run("string absent", func(t *testing.T) {
		if _, ok := EnvString("TEST_ENV_MISSING"); ok {
			t.Error("EnvString reported a missing variable as present")
		}
	})

	t.Run("int valid", func(t *testing.T) {
		t.Setenv("TEST_ENV_INT", "42")
		value, ok, err := EnvInt("TEST_ENV_INT")
		if err != nil || !ok || value != 42 {
			t.Errorf("EnvInt = (%d, %v, %v)", value, ok, err)
		}
	})

	t.Run("int invalid", func(t *testing.T) {
		t.Setenv("TEST_ENV_INT", "forty-two")
		if _, _, err := EnvInt("TEST_ENV_INT"); err == nil {
			t.Error("EnvInt accepted a non-integer")
		}
	})

	t.Run("bool valid", func(t *testing.T) {
		t.Setenv("TEST_ENV_BOOL", "true")
		value, ok, err := EnvBool("TEST_ENV_BOOL")
		if err != nil || !ok || !value {
			t.Errorf("EnvBool = (%v, %v, %v)", value, ok, err)
		}
	})

	t.Run("bool invalid", func(t *testing.T) {
		t.Setenv("TEST_ENV_BOOL", "maybe")
		if _, _, err := EnvBool("TEST_ENV_BOOL"); err == nil {
			t.Error("EnvBool accepted a non-boolean")
		}
	})
}
