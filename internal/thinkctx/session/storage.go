package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/longkey1/thinkctx/internal/thinkctx/config"
)

// ErrNotFound is returned when no session matches the requested ID
var ErrNotFound = errors.New("session not found")

// AmbiguousIDError is returned when multiple sessions match a prefix
type AmbiguousIDError struct {
	Prefix  string
	Matches []Session
}

func (e *AmbiguousIDError) Error() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Ambiguous session ID %q. Multiple matches found:", e.Prefix))
	for _, match := range e.Matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %d messages)",
			match.GetDisplayName(),
			match.CreatedAt.Format("2006-01-02"),
			match.MessageCount()))
	}
	lines = append(lines, "")
	lines = append(lines, "Please use a longer prefix or run 'thinkctx sessions list'.")
	return strings.Join(lines, "\n")
}

// GetSessionDir returns the directory where sessions are stored.
// A configured directory wins. Otherwise, if a config file is used,
// sessions are stored in the same directory as the config file.
// Otherwise, defaults to $HOME/.config/thinkctx/sessions
func GetSessionDir(configured string) (string, error) {
	if configured != "" {
		return config.ResolvePath(configured)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	if configDir != "" {
		return filepath.Join(configDir, "sessions"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "thinkctx", "sessions"), nil
}

// Store reads and writes session files in a single directory
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the file path of the session with the given full ID
func (s *Store) Path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// Save saves a session to disk
func (s *Store) Save(session *Session) error {
	// Create session directory if it doesn't exist
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := os.WriteFile(s.Path(session.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load loads a session from disk by full ID
func (s *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s\n\nRun 'thinkctx sessions list' to see available sessions.", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w\n\nThe session file may be corrupted.", err)
	}

	return &session, nil
}

// Delete deletes a session from disk by full ID
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all sessions sorted by UpdatedAt (newest first)
func (s *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		session, err := s.Load(id)
		if err != nil {
			// Skip corrupted session files
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// FindByPrefix finds a session by short ID prefix (minimum 4 characters)
// Returns error if multiple matches are found (AmbiguousIDError)
// Special case: "latest" returns the most recently updated session
func (s *Store) FindByPrefix(prefix string) (*Session, error) {
	if prefix == "latest" {
		return s.Latest()
	}

	if len(prefix) < 4 {
		return nil, fmt.Errorf("session ID prefix must be at least 4 characters (got %d)", len(prefix))
	}

	// Full UUID (36 characters with 4 dashes)
	if len(prefix) == 36 && strings.Count(prefix, "-") == 4 {
		return s.Load(prefix)
	}

	sessions, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []Session
	for _, session := range sessions {
		if strings.HasPrefix(session.ID, prefix) {
			matches = append(matches, session)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s\n\nRun 'thinkctx sessions list' to see available sessions.", ErrNotFound, prefix)
	}

	if len(matches) > 1 {
		return nil, &AmbiguousIDError{
			Prefix:  prefix,
			Matches: matches,
		}
	}

	return &matches[0], nil
}

// Latest returns the most recently updated session
func (s *Store) Latest() (*Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w\n\nCreate a new session with: thinkctx replay --save <script>", ErrNotFound)
	}

	return &sessions[0], nil
}
