package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Assistant AssistantConfig
	Profile   ProfileConfig
	UI        UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// AssistantConfig selects the chat responder.
type AssistantConfig struct {
	Provider  string `mapstructure:"provider"` // "rules" or "gemini"
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
}

// ProfileConfig seeds the household on first run.
type ProfileConfig struct {
	Name  string
	Email string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string `mapstructure:"timezone"`
}

// Load reads configuration from file and env. Env var overrides use prefix DUOFIN_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "duofin", "duofin.db"))
	v.SetDefault("assistant.provider", "rules")
	v.SetDefault("assistant.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", "gemini-2.5-flash")
	v.SetDefault("profile.name", "You")
	v.SetDefault("profile.email", "me@duofin.local")
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.currency_symbol", "R$")
	v.SetDefault("ui.timezone", "America/Sao_Paulo")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DUOFIN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "duofin"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DUOFIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the settings view for non-sensitive preferences; the API
// key itself should live in the secrets store or an env var.
func Save(cfg Config) error {
	path := os.Getenv("DUOFIN_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "duofin", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("assistant.provider", cfg.Assistant.Provider)
	v.Set("assistant.api_key_env", cfg.Assistant.APIKeyEnv)
	v.Set("assistant.api_key", cfg.Assistant.APIKey)
	v.Set("assistant.model", cfg.Assistant.Model)
	v.Set("profile.name", cfg.Profile.Name)
	v.Set("profile.email", cfg.Profile.Email)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the assistant key, preferring the env var named by
// APIKeyEnv over the inline value.
func (c Config) ResolveAPIKey() string {
	if c.Assistant.APIKeyEnv != "" {
		if key := os.Getenv(c.Assistant.APIKeyEnv); key != "" {
			return key
		}
	}
	return c.Assistant.APIKey
}
