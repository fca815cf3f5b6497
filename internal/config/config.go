package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for quotelens. It is read once at startup
// and never re-read mid-session.
type Config struct {
	HF      HFConfig      `mapstructure:"hf"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Quotes  QuotesConfig  `mapstructure:"quotes"`
	History HistoryConfig `mapstructure:"history"`
	UI      UIConfig      `mapstructure:"ui"`
}

// HFConfig holds Hugging Face inference settings.
type HFConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Stream      bool    `mapstructure:"stream"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// LimitsConfig bounds outbound call volume.
type LimitsConfig struct {
	MaxCalls      int `mapstructure:"max_calls"`
	PeriodSeconds int `mapstructure:"period_seconds"`
}

// QuotesConfig points at the canonical quote library.
type QuotesConfig struct {
	Path string `mapstructure:"path"` // empty = embedded default set
}

// HistoryConfig controls local turn persistence.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// UIConfig holds terminal rendering settings.
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// Period returns the rate-limit window as a duration.
func (c LimitsConfig) Period() time.Duration {
	return time.Duration(c.PeriodSeconds) * time.Second
}

// Validate checks startup requirements. A missing credential is the only
// fatal configuration error.
func (c *Config) Validate() error {
	if c.HF.APIKey == "" {
		return fmt.Errorf("missing Hugging Face credential: set HF_API_KEY (env or .env) or hf.api_key in config.yaml")
	}
	return nil
}

// GetConfigDir returns the config directory, honoring QUOTELENS_CONFIG_DIR
// for tests and sandboxed runs.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("QUOTELENS_CONFIG_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create config dir: %w", err)
		}
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	dir := filepath.Join(configDir, "quotelens")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return dir, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("hf.api_key", "")
	v.SetDefault("hf.model", "Qwen/Qwen2.5-7B-Instruct")
	v.SetDefault("hf.base_url", "https://router.huggingface.co")
	v.SetDefault("hf.stream", false)
	v.SetDefault("hf.temperature", 0.7)
	v.SetDefault("hf.max_tokens", 500)
	v.SetDefault("limits.max_calls", 15)
	v.SetDefault("limits.period_seconds", 60)
	v.SetDefault("quotes.path", "")
	v.SetDefault("history.enabled", true)
	v.SetDefault("ui.theme", "dark")

	// Env vars take precedence over the config file.
	_ = v.BindEnv("hf.api_key", "HF_API_KEY")
	_ = v.BindEnv("hf.model", "MODEL_ID")

	return v
}

// Load reads the config file, falling back to defaults when absent.
func Load() (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// First run: seed a config file so the knobs are discoverable.
	configPath := filepath.Join(configDir, "config.yaml")
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Save writes the current config to disk. The credential is only persisted
// when it did not come from the environment.
func (c *Config) Save() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	v := newViper(configDir)
	v.Set("hf.model", c.HF.Model)
	v.Set("hf.base_url", c.HF.BaseURL)
	v.Set("hf.stream", c.HF.Stream)
	v.Set("hf.temperature", c.HF.Temperature)
	v.Set("hf.max_tokens", c.HF.MaxTokens)
	v.Set("limits.max_calls", c.Limits.MaxCalls)
	v.Set("limits.period_seconds", c.Limits.PeriodSeconds)
	v.Set("quotes.path", c.Quotes.Path)
	v.Set("history.enabled", c.History.Enabled)
	v.Set("ui.theme", c.UI.Theme)
	if os.Getenv("HF_API_KEY") == "" {
		v.Set("hf.api_key", c.HF.APIKey)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
