// Package config loads the hellod runtime configuration. Values resolve
// with the precedence: CLI flag > environment variable > config file >
// built-in default. The loaded Config is treated as immutable and handed
// to each component at construction time; there is no global config state.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"hellod/internal/apperrors"
	"hellod/internal/logging"
)

// Environment names the deployment environment the process runs in
type Environment string

const (
	// Development enables human-readable logs
	Development Environment = "development"
	// Production switches logs to JSON
	Production Environment = "production"
	// Test is used by automated test runs
	Test Environment = "test"
)

// Config represents the complete hellod configuration
type Config struct {
	Port     int    `json:"port" mapstructure:"port"`
	Host     string `json:"host" mapstructure:"host"`
	Env      string `json:"env" mapstructure:"env"`
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
}

// Default returns the built-in default configuration
func Default() *Config {
	return &Config{
		Port:     3000,
		Host:     "localhost",
		Env:      string(Development),
		LogLevel: string(logging.InfoLevel),
	}
}

// Load resolves configuration from hellod.json in dir (optional), the
// process environment, and defaults.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 3000)
	v.SetDefault("host", "localhost")
	v.SetDefault("env", string(Development))
	v.SetDefault("logLevel", string(logging.InfoLevel))

	// Environment variables per the process contract
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("host", "HOST")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("logLevel", "LOG_LEVEL")

	v.SetConfigName("hellod")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.Wrap(apperrors.ConfigInvalid, "failed to read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ConfigInvalid, "failed to parse configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return apperrors.New(apperrors.ConfigInvalid,
			fmt.Sprintf("port %d out of range (1-65535)", c.Port))
	}

	if c.Host == "" {
		return apperrors.New(apperrors.ConfigInvalid, "host must not be empty")
	}

	switch Environment(c.Env) {
	case Development, Production, Test:
	default:
		return apperrors.New(apperrors.ConfigInvalid,
			fmt.Sprintf("unknown env %q (expected development, production, or test)", c.Env))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.Wrap(apperrors.ConfigInvalid, "invalid logLevel", err)
	}

	return nil
}

// Addr returns the host:port string the listener binds
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogFormat returns the log output format implied by the environment:
// JSON in production, human-readable everywhere else.
func (c *Config) LogFormat() logging.Format {
	if Environment(c.Env) == Production {
		return logging.JSONFormat
	}
	return logging.HumanFormat
}
