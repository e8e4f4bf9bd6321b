/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/longkey1/thinkctx/internal/thinkctx/script"
	"github.com/spf13/cobra"
)

var withDir bool

// scriptsCmd represents the scripts command
var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List available conversation scripts",
	Long: `List all conversation scripts found in the configured script directories.
Directories are scanned recursively for .toml, .yaml, .yml and .json files.

Script names are displayed as relative paths from the script directory root
without extension. For example, a file at ${script_dir}/travel/flight.toml is
displayed as "travel/flight". When a name exists in several directories, the
one from the later directory is used.

If you want to see which directory each script comes from, use the --with-dir option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("scanning script directories", "dirs", cfg.ScriptDirs)

		entries, err := script.List(cfg.ScriptDirs)
		if err != nil {
			return fmt.Errorf("listing scripts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No scripts found.")
			fmt.Fprintf(out, "Create %s files in the following directories:\n", strings.Join(script.Extensions, ", "))
			for _, dir := range cfg.ScriptDirs {
				fmt.Fprintf(out, "  - %s\n", dir)
			}
			return nil
		}

		fmt.Fprintf(out, "Available scripts (%d found):\n\n", len(entries))
		for _, entry := range entries {
			if withDir {
				fmt.Fprintf(out, "  %s (from %s)\n", entry.Name, entry.Dir)
			} else {
				fmt.Fprintf(out, "  %s\n", entry.Name)
			}
		}

		fmt.Fprintf(out, "\nReplay a script with: thinkctx replay <name>\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each script was found in")
}
