// Package script loads conversation scripts: files listing the turns of
// a conversation that are replayed through a thinkctx.Manager.
//
// A TOML script looks like:
//
//	name = "flight"
//
//	[[turns]]
//	role = "user"
//	content = "Find a flight to {{city}}"
//
//	[[turns]]
//	role = "assistant"
//	content = "<think>list flights first</think> [call get_flights]"
//
// The same structure is accepted as YAML or JSON.
package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/longkey1/thinkctx/internal/thinkctx"
)

// Extensions lists the supported script file extensions in lookup order
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// Turn is one scripted message
type Turn struct {
	Role      string `toml:"role" yaml:"role" json:"role"`
	Content   string `toml:"content" yaml:"content" json:"content"`
	Reasoning *bool  `toml:"reasoning,omitempty" yaml:"reasoning,omitempty" json:"reasoning,omitempty"` // nil = detect from content
}

// HasReasoning returns the explicit reasoning flag, or whether the
// content holds a complete reasoning block when the flag is unset
func (t Turn) HasReasoning() bool {
	if t.Reasoning != nil {
		return *t.Reasoning
	}
	return thinkctx.ContainsReasoning(t.Content)
}

// Script represents the structure of a script file
type Script struct {
	Name  string `toml:"name" yaml:"name" json:"name"`
	Turns []Turn `toml:"turns" yaml:"turns" json:"turns"`
}

// Load loads a script file, choosing the decoder from its extension
func Load(filePath string) (*Script, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading script file: %w", err)
	}

	var s Script
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &s); err != nil {
			return nil, fmt.Errorf("error decoding script file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("error decoding script file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("error decoding script file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported script format: %q (expected one of %s)", ext, strings.Join(Extensions, ", "))
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	return &s, nil
}

// Run appends every turn of the script to m in order. When strict is
// set, a turn with a role outside the known set aborts the run before
// it is appended.
func (s *Script) Run(m *thinkctx.Manager, strict bool) error {
	for i, turn := range s.Turns {
		role := thinkctx.Role(turn.Role)
		if strict {
			parsed, err := thinkctx.ParseRole(turn.Role)
			if err != nil {
				return fmt.Errorf("turn %d: %w", i+1, err)
			}
			role = parsed
		}
		m.Append(role, turn.Content, turn.HasReasoning())
	}
	return nil
}
