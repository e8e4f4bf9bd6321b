package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Find resolves a script reference to a file path.
// A reference that names an existing file is returned as-is. Otherwise it
// is treated as a script name and searched in every directory, trying each
// supported extension when the name has none. Later directories take
// precedence over earlier ones.
func Find(ref string, scriptDirs []string) (string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}

	candidates := []string{ref}
	if filepath.Ext(ref) == "" {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, ref+ext)
		}
	}

	var scriptPath string
	var found bool
	for _, scriptDir := range scriptDirs {
		for _, candidate := range candidates {
			candidatePath := filepath.Join(scriptDir, candidate)
			if info, err := os.Stat(candidatePath); err == nil && !info.IsDir() {
				scriptPath = candidatePath
				found = true
				// First extension wins within a directory; keep scanning later directories
				break
			}
		}
	}

	if !found {
		return "", fmt.Errorf("script '%s' not found in any of the script directories: %v", ref, scriptDirs)
	}
	return scriptPath, nil
}

// Apply substitutes {{key}} placeholders in every turn content using
// key:value arguments
func (s *Script) Apply(args []string) error {
	argMap, err := processArgs(args)
	if err != nil {
		return fmt.Errorf("error processing arguments: %w", err)
	}
	if len(argMap) == 0 {
		return nil
	}

	for i := range s.Turns {
		content := s.Turns[i].Content
		for key, value := range argMap {
			content = strings.ReplaceAll(content, fmt.Sprintf("{{%s}}", key), value)
		}
		s.Turns[i].Content = content
	}
	return nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		// Handle quoted values
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid argument format: %s. Key cannot be empty", arg)
		}

		// Remove escape characters from value
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		result[key] = value
	}
	return result, nil
}

// Entry is a script discovered in one of the script directories
type Entry struct {
	Name string // Relative path without extension, using forward slashes (e.g., "travel/flight")
	Path string // Absolute file path
	Dir  string // Script directory the file was found in
}

// List recursively scans the script directories and returns every script
// sorted by name. When the same name exists in several directories, the
// entry from the later directory is kept, matching Find. Missing
// directories are skipped.
func List(scriptDirs []string) ([]Entry, error) {
	found := make(map[string]Entry)

	for _, scriptDir := range scriptDirs {
		if _, err := os.Stat(scriptDir); os.IsNotExist(err) {
			continue
		}

		dirEntries := make(map[string]Entry)
		err := filepath.Walk(scriptDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !isScriptFile(info.Name()) {
				return nil
			}

			relPath, err := filepath.Rel(scriptDir, path)
			if err != nil {
				return nil
			}
			name := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))

			// First extension wins within a directory
			if existing, ok := dirEntries[name]; ok && extRank(existing.Path) <= extRank(path) {
				return nil
			}
			dirEntries[name] = Entry{Name: name, Path: path, Dir: scriptDir}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking script directory %s: %w", scriptDir, err)
		}

		for name, entry := range dirEntries {
			found[name] = entry
		}
	}

	entries := make([]Entry, 0, len(found))
	for _, entry := range found {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func isScriptFile(name string) bool {
	return extRank(name) < len(Extensions)
}

// extRank returns the position of the file extension in Extensions,
// or len(Extensions) when it is not supported
func extRank(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return len(Extensions)
}
