// Package config loads indexpilot configuration from an optional YAML file
// with environment variable overrides. Env always wins over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the full indexpilot configuration.
type Config struct {
	Algolia AlgoliaConfig `yaml:"algolia"`
	AI      AIConfig      `yaml:"ai"`
	Sample  SampleConfig  `yaml:"sample"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// AlgoliaConfig holds Algolia credentials and the target index.
type AlgoliaConfig struct {
	AppID     string `yaml:"app_id"`
	AdminKey  string `yaml:"admin_key"`
	IndexName string `yaml:"index_name"`
}

// AIConfig selects and configures the model provider.
type AIConfig struct {
	Provider      string `yaml:"provider"` // gemini, openai, mock (default: gemini)
	Model         string `yaml:"model"`    // empty = provider default
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"` // empty = public API
}

// SampleConfig bounds how many records feed a suggestion run.
type SampleConfig struct {
	Limit int `yaml:"limit"`
}

// HTTPConfig holds settings for the serve command.
type HTTPConfig struct {
	Port           int               `yaml:"port"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	BasicAuthUsers map[string]string `yaml:"basic_auth_users"` // user -> password; empty disables auth
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

// Load reads configuration from path (optional; "" or a missing default
// path is fine) and applies env overrides and defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Algolia.AppID, "ALGOLIA_APP_ID")
	setString(&c.Algolia.AdminKey, "ALGOLIA_ADMIN_KEY")
	setString(&c.Algolia.IndexName, "ALGOLIA_INDEX_NAME")
	setString(&c.AI.Provider, "INDEXPILOT_PROVIDER")
	setString(&c.AI.Model, "INDEXPILOT_MODEL")
	setString(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.AI.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.AI.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.Logging.Level, "INDEXPILOT_LOG_LEVEL")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTP.Port = port
		}
	}
	if v := os.Getenv("INDEXPILOT_SAMPLE_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.Sample.Limit = limit
		}
	}
}

func (c *Config) applyDefaults() {
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.Sample.Limit <= 0 {
		c.Sample.Limit = 20
	}
	if c.HTTP.Port == 0 {
		// NOTE: not 8080, to avoid conflicts with other local services
		c.HTTP.Port = 8111
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case "gemini", "openai", "mock":
	default:
		return fmt.Errorf("unknown AI provider %q (want gemini, openai, or mock)", c.AI.Provider)
	}
	return nil
}

// RequireAlgolia errors unless the Algolia credentials needed by the live
// index commands are present.
func (c *Config) RequireAlgolia() error {
	if c.Algolia.AppID == "" || c.Algolia.AdminKey == "" {
		return fmt.Errorf("ALGOLIA_APP_ID and ALGOLIA_ADMIN_KEY are required")
	}
	if c.Algolia.IndexName == "" {
		return fmt.Errorf("ALGOLIA_INDEX_NAME is required")
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
