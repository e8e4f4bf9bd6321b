/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	logger  = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thinkctx",
	Short: "Reasoning-aware conversation context for tool-calling LLM clients",
	Long: `thinkctx records the conversation history of a tool-calling LLM client and
prunes model reasoning from it.

Reasoning blocks (<think>...</think>) written by the assistant are kept while a
tool-call loop is running and removed from every earlier assistant message as
soon as the next user message arrives.

Conversations can be replayed from TOML, YAML or JSON scripts and persisted as
sessions that are extended one turn at a time.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger, initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/thinkctx/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initLogger configures the diagnostic logger on stderr.
func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("THINKCTX")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "thinkctx")

	// Later directories in the array take precedence over earlier ones
	defaultScriptDirs := []string{
		"/usr/share/thinkctx/scripts",
		"/usr/local/share/thinkctx/scripts",
		filepath.Join(userConfigDir, "scripts"),
	}
	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "scripts"))

	viper.SetDefault("script_dirs", defaultScriptDirs)
	viper.SetDefault("session_dir", defaultConfig.SessionDir)
	viper.SetDefault("strict_roles", defaultConfig.StrictRoles)
	viper.SetDefault("output_format", defaultConfig.OutputFormat)
	viper.SetDefault("session_retention_days", defaultConfig.SessionRetentionDays)

	viper.BindEnv("session_dir", "THINKCTX_SESSION_DIR")
	viper.BindEnv("strict_roles", "THINKCTX_STRICT_ROLES")
	viper.BindEnv("output_format", "THINKCTX_OUTPUT_FORMAT")
	viper.BindEnv("session_retention_days", "THINKCTX_SESSION_RETENTION_DAYS")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// Load system-wide config first (lower priority)
		for _, path := range []string{"/etc/thinkctx", "/usr/local/etc/thinkctx"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			logger.Debug("loaded system-wide config", "file", viper.ConfigFileUsed())
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			} else {
				logger.Debug("merged user config", "file", viper.ConfigFileUsed())
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				}
			}
		}
	}

	logger.Debug("configuration",
		"config_file", viper.ConfigFileUsed(),
		"script_dirs", viper.GetStringSlice("script_dirs"),
		"session_dir", viper.GetString("session_dir"),
		"strict_roles", viper.GetBool("strict_roles"),
		"output_format", viper.GetString("output_format"),
	)
}
