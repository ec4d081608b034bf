// Package config resolves the service configuration once at startup. The
// returned Config is a plain value; nothing below the entry point reads the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// AI selects and configures the external workflow generator.
type AI struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	OllamaURL string
	Timeout   time.Duration
}

// Enabled reports whether the selected provider has what it needs to be
// called. A disabled AI is a supported configuration.
func (a AI) Enabled() bool {
	switch a.Provider {
	case ProviderOpenAI:
		return a.APIKey != ""
	case ProviderOllama:
		return a.OllamaURL != ""
	default:
		return false
	}
}

// Config holds the configuration for the application.
type Config struct {
	AppName        string
	AppVersion     string
	Debug          bool
	Port           int
	AllowedOrigins []string
	MetricsEnabled bool
	AI             AI
}

// Load reads envFile (".env" when empty; a missing default file is fine),
// then resolves settings from the environment and an optional config.yaml.
func Load(envFile string) (Config, error) {
	if err := loadDotenv(envFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("app_name", "Workflow Builder API")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("debug", false)
	v.SetDefault("port", 8000)
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("ai_provider", ProviderOpenAI)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("ollama_url", "")
	v.SetDefault("ai_model", "")
	v.SetDefault("ai_timeout", "90s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		AppName:        v.GetString("app_name"),
		AppVersion:     v.GetString("app_version"),
		Debug:          v.GetBool("debug"),
		Port:           v.GetInt("port"),
		AllowedOrigins: ParseOrigins(v.GetString("allowed_origins")),
		MetricsEnabled: v.GetBool("metrics_enabled"),
		AI: AI{
			Provider:  strings.ToLower(strings.TrimSpace(v.GetString("ai_provider"))),
			Model:     v.GetString("ai_model"),
			APIKey:    v.GetString("openai_api_key"),
			BaseURL:   strings.TrimRight(v.GetString("openai_base_url"), "/"),
			OllamaURL: strings.TrimRight(v.GetString("ollama_url"), "/"),
			Timeout:   v.GetDuration("ai_timeout"),
		},
	}

	switch cfg.AI.Provider {
	case ProviderOpenAI:
		if cfg.AI.Model == "" {
			cfg.AI.Model = "gpt-4"
		}
	case ProviderOllama:
		if cfg.AI.Model == "" {
			cfg.AI.Model = "llama3:instruct"
		}
	default:
		return Config{}, fmt.Errorf("unknown AI_PROVIDER %q: must be %s or %s", cfg.AI.Provider, ProviderOpenAI, ProviderOllama)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.AI.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid AI_TIMEOUT %s", cfg.AI.Timeout)
	}
	return cfg, nil
}

// ParseOrigins splits a comma-separated origin list, dropping blanks. An
// empty list means any origin.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func loadDotenv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
