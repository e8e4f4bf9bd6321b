package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandHome replaces a leading "~" with the user home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns the absolute directory of the config file in use,
// or an empty string when no config file was read
func ConfigDir() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return "", nil
	}

	configDir := filepath.Dir(configFile)
	if !filepath.IsAbs(configDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		configDir = filepath.Join(cwd, configDir)
	}
	return configDir, nil
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the config file directory, or the
// current working directory when no config file is used.
func ResolvePath(path string) (string, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(path) {
		return path, nil
	}

	baseDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		baseDir = cwd
	}

	return filepath.Join(baseDir, path), nil
}
