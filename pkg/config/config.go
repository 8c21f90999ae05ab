// Package config holds the session configuration: the generation-service
// credential, model selection, and the sampling/timeout knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderAPIKey is the unset credential marker. A config left at this
// value rejects every turn with a corrective message instead of attempting
// the call.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

const (
	// DefaultTemperature keeps generation biased toward literal, repeatable
	// code rather than creative variation.
	DefaultTemperature = 0.1
	// DefaultTimeoutSeconds bounds the synchronous generation call.
	DefaultTimeoutSeconds = 20

	DefaultLogFile = "cadagent.log"
)

// ConfigurationError is recoverable: the turn reports it and the loop
// continues.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Reason }

// Config is the session configuration record.
type Config struct {
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	LogFile        string  `yaml:"log_file"`
	LogLevel       string  `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIKey:         PlaceholderAPIKey,
		Temperature:    DefaultTemperature,
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogFile:        DefaultLogFile,
		LogLevel:       "INFO",
	}
}

// RequestTimeout is the generation call bound as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultPath is the config file location used when no --config flag is
// given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "cadagent", "config.yaml")
}

// Load reads the yaml config at path over the defaults. A missing file is
// not an error; the defaults (and the environment) then apply alone.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on the configuration. The
// credential uses the standard GEMINI_API_KEY variable.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CADAGENT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("CADAGENT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Temperature = float32(f)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Credential reports whether a usable generation-service credential is
// present. Absent or placeholder values yield a ConfigurationError with a
// corrective message.
func (c *Config) Credential() error {
	if c.APIKey == "" || c.APIKey == PlaceholderAPIKey {
		return &ConfigurationError{
			Reason: "no API key configured; set GEMINI_API_KEY or api_key in the config file",
		}
	}
	return nil
}
