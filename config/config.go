package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GENDERAPI_API_KEY
	EnvPrefix = "GENDERAPI"

	// MaxConcurrency bounds batch.concurrency
	MaxConcurrency = 32
)

// Load loads the configuration from file, environment and defaults.
// An explicit configPath must exist; without one a missing config file is fine.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".genderapi"))
		}
		v.AddConfigPath("/etc/genderapi/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults. The key default is empty so the env override is visible to Unmarshal.
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", "https://api.genderapi.io")
	v.SetDefault("api.timeout", "30s")

	// Lookup defaults
	v.SetDefault("lookup.country", "")
	v.SetDefault("lookup.ask_to_ai", false)
	v.SetDefault("lookup.force_to_genderize", false)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.filter", "")

	// Output defaults
	v.SetDefault("output.format", "text")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.API.Key) == "" || cfg.API.Key == "your-api-key-here" {
		return fmt.Errorf("api.key must be set to a valid API key (or %s_API_KEY)", EnvPrefix)
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout: %s", cfg.API.Timeout)
	}

	if c := cfg.Lookup.Country; c != "" && !isCountryCode(c) {
		return fmt.Errorf("invalid lookup.country: %s (must be a two-letter code)", c)
	}

	if cfg.Batch.Concurrency < 1 || cfg.Batch.Concurrency > MaxConcurrency {
		return fmt.Errorf("invalid batch.concurrency: %d (must be between 1 and %d)", cfg.Batch.Concurrency, MaxConcurrency)
	}

	validOutputs := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output.format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
