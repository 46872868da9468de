package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gitquill/gitquill/internal/pkg/ai"
)

const (
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"
)

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.gitquill/config.yaml).
func NewManager(configPath string) (*ViperManager, error) {
	// Pick up a local .env if present; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, ".gitquill", "config.yaml")
	}

	v.SetConfigFile(configPath)

	v.SetEnvPrefix("GITQUILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults are required for env binding to work with nested keys
	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// bindEnvVars explicitly binds environment variables for all config keys.
// Viper's AutomaticEnv doesn't work well with nested keys.
func bindEnvVars(v *viper.Viper) {
	// The API key is read from GEMINI_API_KEY, the variable the Gemini
	// tooling ecosystem uses, with GITQUILL_PROVIDER_API_KEY as an alias.
	_ = v.BindEnv("provider.api_key", "GEMINI_API_KEY", "GITQUILL_PROVIDER_API_KEY")
	_ = v.BindEnv("provider.model", "GITQUILL_PROVIDER_MODEL")
	_ = v.BindEnv("provider.endpoint", "GITQUILL_PROVIDER_ENDPOINT")
	_ = v.BindEnv("provider.temperature", "GITQUILL_PROVIDER_TEMPERATURE")
	_ = v.BindEnv("provider.max_output_tokens", "GITQUILL_PROVIDER_MAX_OUTPUT_TOKENS")

	_ = v.BindEnv("git.command_timeout_seconds", "GITQUILL_GIT_COMMAND_TIMEOUT_SECONDS")
	_ = v.BindEnv("git.push_timeout_seconds", "GITQUILL_GIT_PUSH_TIMEOUT_SECONDS")

	_ = v.BindEnv("ui.color_enabled", "GITQUILL_UI_COLOR_ENABLED")
	_ = v.BindEnv("ui.spinner_style", "GITQUILL_UI_SPINNER_STYLE")

	_ = v.BindEnv("history.enabled", "GITQUILL_HISTORY_ENABLED")
	_ = v.BindEnv("history.max_entries", "GITQUILL_HISTORY_MAX_ENTRIES")
	_ = v.BindEnv("history.file_path", "GITQUILL_HISTORY_FILE_PATH")
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", ai.DefaultModel)
	v.SetDefault("provider.endpoint", ai.DefaultEndpoint)
	v.SetDefault("provider.temperature", ai.DefaultTemperature)
	v.SetDefault("provider.max_output_tokens", ai.DefaultMaxOutputTokens)

	v.SetDefault("git.command_timeout_seconds", 10)
	v.SetDefault("git.push_timeout_seconds", 60)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.spinner_style", "dots")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 500)
	homeDir, _ := os.UserHomeDir()
	v.SetDefault("history.file_path", filepath.Join(homeDir, ".gitquill", "history.json"))
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600 for security.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Save saves the configuration to file.
func (m *ViperManager) Save(config *Config) error {
	m.v.Set("provider", config.Provider)
	m.v.Set("git", config.Git)
	m.v.Set("ui", config.UI)
	m.v.Set("history", config.History)

	if err := m.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Set sets a configuration value by key.
// Supports nested keys using dot notation (e.g., "provider.model").
func (m *ViperManager) Set(key string, value string) error {
	if err := m.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	existingValue := m.v.Get(key)
	convertedValue, err := convertValue(value, existingValue)
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	m.v.Set(key, convertedValue)

	if err := m.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// convertValue converts a string value to the appropriate type based on the existing value type.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
	}

	value := m.v.Get(key)
	if value == nil {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", value), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.v.ReadInConfig()

	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// Used for command-line flag overrides that shouldn't persist.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}
