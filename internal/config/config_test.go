package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv pins every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_NAME", "APP_VERSION", "DEBUG", "PORT", "ALLOWED_ORIGINS", "METRICS_ENABLED",
		"AI_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OLLAMA_URL",
		"AI_MODEL", "AI_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Workflow Builder API", cfg.AppName)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4", cfg.AI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "Flows")
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_MODEL", "gpt-4o-mini")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Flows", cfg.AppName)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoad_Ollama(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "Ollama")
	t.Setenv("OLLAMA_URL", "http://localhost:11434/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.AI.Provider)
	assert.Equal(t, "llama3:instruct", cfg.AI.Model)
	assert.Equal(t, "http://localhost:11434", cfg.AI.OllamaURL)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "bard")
	_, err := Load("")
	assert.ErrorContains(t, err, "unknown AI_PROVIDER")

	clearEnv(t)
	t.Setenv("PORT", "700000")
	_, err = Load("")
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_VERSION=2.3.4\nOPENAI_API_KEY=sk-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2.3.4", cfg.AppVersion)
	assert.True(t, cfg.AI.Enabled())

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, ParseOrigins(""))
	assert.Equal(t, []string{"*"}, ParseOrigins(" , "))
	assert.Equal(t, []string{"http://x"}, ParseOrigins("http://x"))
}
