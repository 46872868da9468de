// Package config provides configuration management for GitQuill.
package config

// Config represents the complete GitQuill configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Git      GitConfig      `mapstructure:"git"`
	UI       UIConfig       `mapstructure:"ui"`
	History  HistoryConfig  `mapstructure:"history"`
}

// ProviderConfig contains Gemini API settings.
type ProviderConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	Endpoint        string  `mapstructure:"endpoint"`
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

// GitConfig contains Git-related settings.
type GitConfig struct {
	CommandTimeoutSeconds int `mapstructure:"command_timeout_seconds"`
	PushTimeoutSeconds    int `mapstructure:"push_timeout_seconds"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	SpinnerStyle string `mapstructure:"spinner_style"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Save(config *Config) error
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
