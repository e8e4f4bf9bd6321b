/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/longkey1/thinkctx/internal/thinkctx"
	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/longkey1/thinkctx/internal/thinkctx/script"
	"github.com/longkey1/thinkctx/internal/thinkctx/session"
	"github.com/spf13/cobra"
)

var (
	replayArgs   []string
	replaySave   bool
	replayName   string
	replayFormat string
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a conversation script and print the resulting context",
	Long: `Replay every turn of a conversation script through the context manager and
print the conversation payload that would be sent to the model.

The script can be a file path or the name of a script in one of the configured
script directories (see 'thinkctx scripts'). Supported formats: TOML, YAML, JSON.

Each turn has a role, a content and an optional reasoning flag. When the flag
is omitted it is inferred from the presence of a <think>...</think> block.

Placeholders of the form {{key}} in turn contents are replaced with values given
by --arg key:value.

Examples:
  thinkctx replay flight                      # Replay a named script
  thinkctx replay ./trip.yaml --arg city:Oslo # Replay a file with a placeholder value
  thinkctx replay flight --save --name trip   # Persist the result as a session`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		scriptPath, err := script.Find(args[0], cfg.ScriptDirs)
		if err != nil {
			return fmt.Errorf("finding script: %w", err)
		}
		logger.Debug("replaying script", "path", scriptPath)

		s, err := script.Load(scriptPath)
		if err != nil {
			return fmt.Errorf("loading script: %w", err)
		}
		if err := s.Apply(replayArgs); err != nil {
			return fmt.Errorf("applying arguments: %w", err)
		}

		m := thinkctx.New(thinkctx.WithLogger(logger))
		if err := s.Run(m, cfg.StrictRoles); err != nil {
			return fmt.Errorf("running script %s: %w", s.Name, err)
		}

		format := cfg.OutputFormat
		if cmd.Flags().Changed("format") {
			format = replayFormat
		}
		if err := printRecords(cmd.OutOrStdout(), m.Export(), format); err != nil {
			return err
		}

		if !replaySave {
			return nil
		}

		sessionDir, err := session.GetSessionDir(cfg.SessionDir)
		if err != nil {
			return err
		}
		store := session.NewStore(sessionDir)

		sess := session.NewSession()
		sess.Name = replayName
		sess.Script = s.Name
		sess.Capture(m)
		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Fprintf(os.Stderr, "\nSession created: %s\n", sess.GetShortID())
		fmt.Fprintf(os.Stderr, "Path: %s\n", filepath.Join(sessionDir, sess.ID+".json"))
		fmt.Fprintf(os.Stderr, "\nContinue with:\n  thinkctx sessions append %s <role> \"content\"\n", sess.GetShortID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringArrayVar(&replayArgs, "arg", []string{}, "Key-value pairs for script placeholders (format: key:value)")
	replayCmd.Flags().BoolVar(&replaySave, "save", false, "Save the resulting conversation as a session")
	replayCmd.Flags().StringVar(&replayName, "name", "", "Name for the saved session (optional)")
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", config.FormatJSON, "Output format (json or text)")
}
