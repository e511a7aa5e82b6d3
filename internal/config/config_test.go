package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hellod/internal/apperrors"
	"hellod/internal/logging"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.Env != string(Development) {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Addr() != "localhost:3000" {
		t.Errorf("Addr() = %q, want localhost:3000", cfg.Addr())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Env != string(Production) {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"port": 4000, "host": "127.0.0.1"}`
	if err := os.WriteFile(filepath.Join(dir, "hellod.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Port)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	// Untouched keys keep defaults
	if cfg.Env != string(Development) {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"port": 4000}`
	if err := os.WriteFile(filepath.Join(dir, "hellod.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "5000")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want env var to win over config file", cfg.Port)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "out of range"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "out of range"},
		{"empty host", func(c *Config) { c.Host = "" }, "host"},
		{"bad env", func(c *Config) { c.Env = "staging" }, "unknown env"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "logLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if apperrors.CodeOf(err) != apperrors.ConfigInvalid {
				t.Errorf("code = %q, want CONFIG_INVALID", apperrors.CodeOf(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidEnvValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("Load() should reject unknown LOG_LEVEL")
	}
	if apperrors.CodeOf(err) != apperrors.ConfigInvalid {
		t.Errorf("code = %q, want CONFIG_INVALID", apperrors.CodeOf(err))
	}
}

func TestLogFormat(t *testing.T) {
	cfg := Default()
	if cfg.LogFormat() != logging.HumanFormat {
		t.Errorf("development should log human format")
	}

	cfg.Env = string(Production)
	if cfg.LogFormat() != logging.JSONFormat {
		t.Errorf("production should log JSON format")
	}
}
