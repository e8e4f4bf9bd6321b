package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/spf13/cobra"
)

// exampleScript is written to the scripts directory by init
const exampleScript = `name = "flight"

[[turns]]
role = "user"
content = "Find a flight to {{city}} and book the cheapest one."

[[turns]]
role = "assistant"
content = "<think>The user wants a flight to {{city}}. I need to list flights first.</think> [Tool Call: get_flights(city='{{city}}')]"

[[turns]]
role = "tool"
content = "Flight A: 500 CNY, Flight B: 800 CNY"

[[turns]]
role = "assistant"
content = "<think>Flight A is cheaper at 500 CNY. Proceeding to book.</think> [Tool Call: book_flight(id='A')]"

[[turns]]
role = "user"
content = "Also find a hotel nearby."
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/thinkctx/config.toml by default.
You can specify a different location using the --config option.

An example script (flight.toml) is written to the scripts directory next to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configFile := filepath.Join(home, ".config", "thinkctx", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		scriptsDir := filepath.Join(configDir, "scripts")
		cfg := config.NewDefaultConfig(scriptsDir)

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		defer f.Close()

		encoder := toml.NewEncoder(f)
		if err := encoder.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		if err := os.MkdirAll(scriptsDir, 0755); err != nil {
			return fmt.Errorf("failed to create scripts directory: %w", err)
		}
		examplePath := filepath.Join(scriptsDir, "flight.toml")
		if _, err := os.Stat(examplePath); os.IsNotExist(err) {
			if err := os.WriteFile(examplePath, []byte(exampleScript), 0644); err != nil {
				return fmt.Errorf("failed to write example script: %w", err)
			}
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Printf("Scripts directory created at: %s\n", scriptsDir)
		fmt.Printf("\nTry it with:\n  thinkctx replay flight --arg city:Hangzhou\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
