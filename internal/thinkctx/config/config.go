package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Output formats supported by commands that print conversation records
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds the configuration for thinkctx
type Config struct {
	ScriptDirs           []string `toml:"script_dirs" mapstructure:"script_dirs"`                       // Later directories take precedence
	SessionDir           string   `toml:"session_dir" mapstructure:"session_dir"`                       // Empty = "sessions" next to the config file
	StrictRoles          bool     `toml:"strict_roles" mapstructure:"strict_roles"`                     // Reject roles other than user/assistant/tool/system
	OutputFormat         string   `toml:"output_format" mapstructure:"output_format"`                   // "json" or "text"
	SessionRetentionDays int      `toml:"session_retention_days" mapstructure:"session_retention_days"` // Number of days to retain sessions (default: 30)
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(scriptDir string) *Config {
	return &Config{
		ScriptDirs:           []string{scriptDir},
		SessionDir:           "",
		StrictRoles:          false,
		OutputFormat:         FormatJSON,
		SessionRetentionDays: 30,
	}
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("unsupported output format: %s (expected %s or %s)", c.OutputFormat, FormatJSON, FormatText)
	}
	if c.SessionRetentionDays < 0 {
		return fmt.Errorf("session_retention_days must not be negative (got %d)", c.SessionRetentionDays)
	}
	return nil
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Convert script directories to absolute paths
	for i, scriptDir := range config.ScriptDirs {
		absPath, err := ResolvePath(scriptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving script directory path '%s': %w", scriptDir, err)
		}
		config.ScriptDirs[i] = absPath
	}

	if config.SessionDir != "" {
		absPath, err := ResolvePath(config.SessionDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving session directory path '%s': %w", config.SessionDir, err)
		}
		config.SessionDir = absPath
	}

	if config.OutputFormat == "" {
		config.OutputFormat = FormatJSON
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
