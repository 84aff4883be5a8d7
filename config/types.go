package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds GenderAPI connection details
type APIConfig struct {
	Key     string        `mapstructure:"key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LookupConfig holds default lookup modifiers
type LookupConfig struct {
	Country          string `mapstructure:"country"`
	AskToAI          bool   `mapstructure:"ask_to_ai"`
	ForceToGenderize bool   `mapstructure:"force_to_genderize"`
}

// BatchConfig contains settings for the batch command
type BatchConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Filter      string `mapstructure:"filter"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
