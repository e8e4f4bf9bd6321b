package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/thinkctx/internal/thinkctx"
	"github.com/longkey1/thinkctx/internal/thinkctx/config"
)

// printRecords writes exported conversation records in the given format
func printRecords(w io.Writer, records []thinkctx.Record, format string) error {
	switch format {
	case config.FormatText:
		for i, r := range records {
			fmt.Fprintf(w, "[%d] %s:\n%s\n", i+1, r.Role, r.Content)
			if i < len(records)-1 {
				fmt.Fprintln(w)
			}
		}
		return nil
	case config.FormatJSON, "":
		// Keep an empty conversation as [] rather than null
		if records == nil {
			records = []thinkctx.Record{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encoding records: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// roleLabel returns a human readable label for a role
func roleLabel(role thinkctx.Role) string {
	switch role {
	case thinkctx.RoleUser:
		return "User"
	case thinkctx.RoleAssistant:
		return "Assistant"
	case thinkctx.RoleTool:
		return "Tool"
	case thinkctx.RoleSystem:
		return "System"
	}
	if role == "" {
		return "Unknown"
	}
	s := string(role)
	return strings.ToUpper(s[:1]) + s[1:]
}
