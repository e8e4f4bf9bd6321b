package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/longkey1/thinkctx/internal/thinkctx/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, script_dirs, session_dir, strict_roles, output_format, session_retention_days"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  thinkctx config                  # Show all configuration
  thinkctx config script_dirs      # Show only script directories
  thinkctx config session_dir      # Show only the effective session directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		sessionDir, err := session.GetSessionDir(cfg.SessionDir)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "script_dirs", "scriptdirs":
				fmt.Println(strings.Join(cfg.ScriptDirs, ","))
			case "session_dir", "sessiondir":
				fmt.Println(sessionDir)
			case "strict_roles", "strictroles":
				fmt.Println(cfg.StrictRoles)
			case "output_format", "outputformat":
				fmt.Println(cfg.OutputFormat)
			case "session_retention_days", "sessionretentiondays":
				fmt.Println(cfg.SessionRetentionDays)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				return fmt.Errorf("unknown config field: %s", args[0])
			}
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("ScriptDirectories: %s\n", strings.Join(cfg.ScriptDirs, ","))
		fmt.Printf("SessionDirectory: %s\n", sessionDir)
		fmt.Printf("StrictRoles: %v\n", cfg.StrictRoles)
		fmt.Printf("OutputFormat: %s\n", cfg.OutputFormat)
		fmt.Printf("SessionRetentionDays: %d\n", cfg.SessionRetentionDays)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
