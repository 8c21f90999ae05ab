package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadagent/pkg/config"
)

func TestDefaultCredentialRejected(t *testing.T) {
	cfg := config.Default()
	err := cfg.Credential()
	require.Error(t, err)
	var ce *config.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "API key")
}

func TestCredentialAccepted(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "sk-something-real"
	assert.NoError(t, cfg.Credential())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.PlaceholderAPIKey, cfg.APIKey)
	assert.Equal(t, float32(config.DefaultTemperature), cfg.Temperature)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api_key: from-file\nmodel: gemini-2.0-pro\ntemperature: 0.4\ntimeout_seconds: 45\nlog_level: DEBUG\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "gemini-2.0-pro", cfg.Model)
	assert.Equal(t, float32(0.4), cfg.Temperature)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	// Unset fields keep the defaults.
	assert.Equal(t, config.DefaultLogFile, cfg.LogFile)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0644))
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("CADAGENT_MODEL", "gemini-env")
	t.Setenv("CADAGENT_TEMPERATURE", "0.7")
	t.Setenv("LOG_LEVEL", "TRACE")

	cfg := config.Default()
	cfg.ApplyEnv()
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "gemini-env", cfg.Model)
	assert.Equal(t, float32(0.7), cfg.Temperature)
	assert.Equal(t, "TRACE", cfg.LogLevel)
}

func TestRequestTimeoutFallsBack(t *testing.T) {
	cfg := config.Config{TimeoutSeconds: 0}
	assert.Equal(t, config.DefaultTimeoutSeconds*time.Second, cfg.RequestTimeout())
}
