package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/longkey1/thinkctx/internal/thinkctx"
	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/longkey1/thinkctx/internal/thinkctx/session"
	"github.com/spf13/cobra"
)

var (
	assumeYes      bool
	appendThinking bool
	exportFormat   string
)

// openStore loads the configuration and returns the session store it points to
func openStore() (*config.Config, *session.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	sessionDir, err := session.GetSessionDir(cfg.SessionDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("session store", "dir", sessionDir)
	return cfg, session.NewStore(sessionDir), nil
}

// confirm asks a yes/no question on stdout and reads the answer
func confirm(question string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", question)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
	Long: `Manage persisted conversation sessions including listing, viewing, extending and deleting sessions.

A session stores the full message history of one conversation together with the
tool loop state, so the context can be continued one turn at a time.`,
}

// sessionsListCmd represents the sessions list command
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Long:  `List all conversation sessions sorted by most recently updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			fmt.Println("\nCreate a new session with:")
			fmt.Println("  thinkctx replay --save <script>")
			fmt.Println("  thinkctx sessions start")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tMESSAGES\tREASONING\tLOOP\tNAME")
		fmt.Fprintln(w, "--\t-------\t--------\t---------\t----\t----")

		for _, sess := range sessions {
			name := sess.Name
			if name == "" {
				name = "-"
			}
			loop := "-"
			if sess.LoopActive {
				loop = "active"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
				sess.GetShortID(),
				sess.CreatedAt.Format("2006-01-02"),
				sess.MessageCount(),
				sess.ReasoningCount(),
				loop,
				name,
			)
		}
		w.Flush()

		fmt.Println("\nUse 'thinkctx sessions show <id>' to view session details.")
		return nil
	},
}

// sessionsShowCmd represents the sessions show command
var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show session details and history",
	Long: `Show detailed information about a session including all messages.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		fmt.Printf("Session: %s\n", sess.ID)
		if sess.Name != "" {
			fmt.Printf("Name: %s\n", sess.Name)
		}
		if sess.Script != "" {
			fmt.Printf("Script: %s\n", sess.Script)
		}
		fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Tool loop: %v\n", sess.LoopActive)
		fmt.Printf("Messages: %d (%d with reasoning)\n", sess.MessageCount(), sess.ReasoningCount())
		fmt.Println()

		if len(sess.Messages) == 0 {
			fmt.Println("No messages in this session.")
			return nil
		}

		fmt.Println("Message History:")
		fmt.Println("----------------")
		for i, msg := range sess.Messages {
			marker := ""
			if msg.HasReasoning {
				marker = " [reasoning]"
			}
			fmt.Printf("\n[%d] %s (%s)%s:\n%s\n",
				i+1,
				roleLabel(msg.Role),
				msg.CreatedAt.Format("2006-01-02 15:04:05"),
				marker,
				msg.Content,
			)
		}

		fmt.Printf("\nContinue this session with:\n  thinkctx sessions append %s <role> \"content\"\n", sess.GetShortID())
		return nil
	},
}

// sessionsExportCmd represents the sessions export command
var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Print the model payload of a session",
	Long: `Print the role/content records of a session in turn order, exactly as they
would be sent to the model on the next request.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		format := cfg.OutputFormat
		if cmd.Flags().Changed("format") {
			format = exportFormat
		}
		return printRecords(cmd.OutOrStdout(), sess.Export(), format)
	},
}

// sessionsAppendCmd represents the sessions append command
var sessionsAppendCmd = &cobra.Command{
	Use:   "append <id> <role> [content]",
	Short: "Append a message to a session",
	Long: `Append one message to a session and save it.

A user message first removes reasoning blocks from every earlier assistant
message. A tool message marks the tool loop as active. If no content is given as
an argument, it is read from stdin.

Whether the message carries reasoning is inferred from a complete
<think>...</think> block in the content unless --reasoning is given.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Examples:
  thinkctx sessions append latest assistant "<think>check prices</think> [call get_flights]"
  thinkctx sessions append latest tool "Flight A: 500"
  echo "Also find a hotel" | thinkctx sessions append 550e8400 user`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}

		role := thinkctx.Role(args[1])
		if cfg.StrictRoles {
			if role, err = thinkctx.ParseRole(args[1]); err != nil {
				return err
			}
		}

		var content string
		if len(args) > 2 {
			content = strings.Join(args[2:], " ")
		} else {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			content = strings.TrimSpace(string(input))
		}

		hasReasoning := thinkctx.ContainsReasoning(content)
		if cmd.Flags().Changed("reasoning") {
			hasReasoning = appendThinking
		}

		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		m := sess.Manager(thinkctx.WithLogger(logger))
		msg := m.Append(role, content, hasReasoning)
		sess.Capture(m)

		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Appended %s message %s to session %s (%d messages, tool loop: %v)\n",
			msg.Role, msg.ID, sess.GetShortID(), sess.MessageCount(), sess.LoopActive)
		return nil
	},
}

// sessionsDeleteCmd represents the sessions delete command
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Long: `Delete a conversation session permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Warning: This action cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		if !confirm(fmt.Sprintf("Are you sure you want to delete session %s?", sess.GetShortID())) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := store.Delete(sess.ID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}

		fmt.Printf("Session %s deleted successfully.\n", sess.GetShortID())
		return nil
	},
}

// sessionsRenameCmd represents the sessions rename command
var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a session",
	Long: `Rename a conversation session.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		sess.Name = args[1]
		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Session %s renamed to \"%s\".\n", sess.GetShortID(), args[1])
		return nil
	},
}

// sessionsClearCmd represents the sessions clear command
var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete old sessions",
	Long: `Delete old conversation sessions permanently.

By default, deletes sessions created more than session_retention_days (30) days ago.
Use --before to specify a different date, or --all to delete all sessions.

Warning: This action cannot be undone.

Examples:
  thinkctx sessions clear                      # Delete sessions older than the retention period
  thinkctx sessions clear --before 2024-01-01  # Delete sessions created before 2024-01-01
  thinkctx sessions clear --before 2024-12     # Delete sessions created before 2024-12-01
  thinkctx sessions clear --all                # Delete all sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeDateStr, _ := cmd.Flags().GetString("before")
		deleteAll, _ := cmd.Flags().GetBool("all")

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions to delete.")
			return nil
		}

		var question string
		var sessionsToDelete []session.Session
		if deleteAll {
			sessionsToDelete = sessions
			question = fmt.Sprintf("Are you sure you want to delete all %d sessions?", len(sessionsToDelete))
		} else {
			var beforeDate time.Time
			if beforeDateStr != "" {
				beforeDate, err = parseDate(beforeDateStr)
				if err != nil {
					return fmt.Errorf("parsing date: %w", err)
				}
			} else {
				beforeDate = time.Now().AddDate(0, 0, -cfg.SessionRetentionDays)
			}

			sessionsToDelete = sessionsCreatedBefore(sessions, beforeDate)
			if len(sessionsToDelete) == 0 {
				fmt.Printf("No sessions found created before %s.\n", beforeDate.Format("2006-01-02"))
				return nil
			}
			question = fmt.Sprintf("Are you sure you want to delete %d sessions created before %s?",
				len(sessionsToDelete), beforeDate.Format("2006-01-02"))
		}

		if !confirm(question) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		deleted := 0
		failed := 0
		for _, sess := range sessionsToDelete {
			if err := store.Delete(sess.ID); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to delete session %s: %v\n", sess.GetShortID(), err)
				failed++
			} else {
				deleted++
			}
		}

		fmt.Printf("Successfully deleted %d sessions", deleted)
		if failed > 0 {
			fmt.Printf(" (%d failed)", failed)
		}
		fmt.Println(".")
		return nil
	},
}

// sessionsCreatedBefore returns the sessions created strictly before t
func sessionsCreatedBefore(sessions []session.Session, t time.Time) []session.Session {
	var matched []session.Session
	for _, sess := range sessions {
		if sess.CreatedAt.Before(t) {
			matched = append(matched, sess)
		}
	}
	return matched
}

// parseDate parses a date string in various formats and returns a time.Time
// Supported formats: YYYY-MM-DD, YYYY-MM, YYYY
func parseDate(dateStr string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t, nil
	}

	// YYYY-MM uses the first day of month
	if t, err := time.Parse("2006-01", dateStr); err == nil {
		return t, nil
	}

	// YYYY uses the first day of year
	if t, err := time.Parse("2006", dateStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, YYYY-MM, or YYYY)", dateStr)
}

// sessionsStartCmd represents the sessions start command
var sessionsStartCmd = &cobra.Command{
	Use:   "start [session-id]",
	Short: "Start an interactive session",
	Long: `Start an interactive session that records turns typed on stdin.

Plain lines are recorded as user messages. Use /assistant, /tool and /system
to record other roles, and /export to print the current model payload.

You can either start a new session or continue an existing one by providing its ID.
The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Examples:
  thinkctx sessions start                # Start a new interactive session
  thinkctx sessions start 550e8400       # Continue session 550e8400 in interactive mode
  thinkctx sessions start latest         # Continue latest session in interactive mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}

		var sess *session.Session
		if len(args) > 0 {
			sess, err = store.FindByPrefix(args[0])
			if err != nil {
				return fmt.Errorf("finding session: %w", err)
			}
			logger.Debug("continuing session", "id", sess.ID)
		} else {
			sess = session.NewSession()
			if err := store.Save(sess); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Session created: %s\n", sess.GetShortID())
			fmt.Fprintf(os.Stderr, "Path: %s\n\n", store.Path(sess.ID))
		}

		r := &interactiveSession{
			sess:   sess,
			store:  store,
			m:      sess.Manager(thinkctx.WithLogger(logger)),
			strict: cfg.StrictRoles,
			format: cfg.OutputFormat,
			out:    cmd.OutOrStdout(),
			errOut: os.Stderr,
		}
		if err := r.run(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		return nil
	},
}

// interactiveSession drives a session from line-oriented input
type interactiveSession struct {
	sess   *session.Session
	store  *session.Store
	m      *thinkctx.Manager
	strict bool
	format string
	out    io.Writer
	errOut io.Writer
}

func (r *interactiveSession) run(in io.Reader) error {
	fmt.Fprintf(r.errOut, "\n=== Interactive Session [%s] ===\n", r.sess.GetShortID())
	fmt.Fprintf(r.errOut, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(r.errOut, "===================================\n\n")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.errOut, "> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			fmt.Fprintln(r.errOut, "\nGoodbye!")
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if !strings.HasPrefix(input, "/") {
			r.record(thinkctx.RoleUser, input)
			continue
		}
		if !r.handleCommand(input) {
			return nil
		}
	}
}

// record appends a message and saves the session
func (r *interactiveSession) record(role thinkctx.Role, content string) {
	if r.strict {
		if _, err := thinkctx.ParseRole(string(role)); err != nil {
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return
		}
	}

	pruned := 0
	if role == thinkctx.RoleUser {
		for _, msg := range r.m.History() {
			if msg.Role == thinkctx.RoleAssistant && msg.HasReasoning {
				pruned++
			}
		}
	}

	r.m.Append(role, content, thinkctx.ContainsReasoning(content))
	r.sess.Capture(r.m)
	if err := r.store.Save(r.sess); err != nil {
		fmt.Fprintf(r.errOut, "Warning: failed to save session: %v\n", err)
	}

	if pruned > 0 {
		fmt.Fprintf(r.errOut, "(pruned reasoning from %d assistant messages)\n", pruned)
	}
}

// handleCommand processes special commands in interactive mode
// Returns true to continue the loop, false to exit
func (r *interactiveSession) handleCommand(input string) bool {
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "/help", "/h":
		fmt.Fprintln(r.errOut, "\nAvailable commands:")
		fmt.Fprintln(r.errOut, "  <text>              - Record a user message")
		fmt.Fprintln(r.errOut, "  /assistant <text>   - Record an assistant message")
		fmt.Fprintln(r.errOut, "  /tool <text>        - Record a tool result")
		fmt.Fprintln(r.errOut, "  /system <text>      - Record a system message")
		fmt.Fprintln(r.errOut, "  /export, /e         - Print the model payload")
		fmt.Fprintln(r.errOut, "  /info, /i           - Show session information")
		fmt.Fprintln(r.errOut, "  /exit, /quit, /q    - Exit interactive mode")
		fmt.Fprintln(r.errOut, "  Ctrl+D              - Exit interactive mode")
		fmt.Fprintln(r.errOut, "")
		return true

	case "/assistant", "/a":
		r.record(thinkctx.RoleAssistant, arg)
		return true

	case "/tool", "/t":
		r.record(thinkctx.RoleTool, arg)
		return true

	case "/system", "/s":
		r.record(thinkctx.RoleSystem, arg)
		return true

	case "/export", "/e":
		if err := printRecords(r.out, r.m.Export(), r.format); err != nil {
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}
		return true

	case "/info", "/i":
		fmt.Fprintln(r.errOut, "\nSession Information:")
		fmt.Fprintf(r.errOut, "  ID: %s\n", r.sess.GetShortID())
		fmt.Fprintf(r.errOut, "  Full ID: %s\n", r.sess.ID)
		if r.sess.Name != "" {
			fmt.Fprintf(r.errOut, "  Name: %s\n", r.sess.Name)
		}
		fmt.Fprintf(r.errOut, "  Messages: %d\n", r.m.Len())
		fmt.Fprintf(r.errOut, "  Tool loop: %v\n", r.m.LoopActive())
		fmt.Fprintf(r.errOut, "  Created: %s\n", r.sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(r.errOut, "")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(r.errOut, "Goodbye!")
		return false

	default:
		fmt.Fprintf(r.errOut, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsAppendCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	sessionsCmd.AddCommand(sessionsStartCmd)

	sessionsCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	sessionsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", config.FormatJSON, "Output format (json or text)")
	sessionsAppendCmd.Flags().BoolVar(&appendThinking, "reasoning", false, "Mark the message as carrying a reasoning block (default: detect from content)")

	sessionsClearCmd.Flags().String("before", "", "Delete only sessions created before this date (format: YYYY-MM-DD, YYYY-MM, or YYYY)")
	sessionsClearCmd.Flags().Bool("all", false, "Delete all sessions (overrides retention days setting)")
}
