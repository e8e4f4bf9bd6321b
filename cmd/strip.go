/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/thinkctx/internal/thinkctx"
	"github.com/spf13/cobra"
)

// stripCmd represents the strip command
var stripCmd = &cobra.Command{
	Use:   "strip [text]",
	Short: "Remove reasoning blocks from text",
	Long: `Remove every <think>...</think> block from the given text and print the result.
If no text is provided as an argument, it reads from stdin.

Each <think> is paired with the nearest following </think>, blocks may span
several lines, and the result is trimmed of surrounding whitespace. A <think>
without a closing </think> is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) > 0 {
			text = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			text = string(input)
		}

		fmt.Fprintln(cmd.OutOrStdout(), thinkctx.StripReasoning(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stripCmd)
}
