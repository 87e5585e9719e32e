// Package project holds the project configuration record and its
// YAML persistence under .umbrella/project.yaml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// StateDir is the per-project directory for tool state.
const StateDir = ".umbrella"

// FileName is the persisted config file inside StateDir.
const FileName = "project.yaml"

// Config describes the project being scaffolded.
type Config struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	TechStack   []string          `yaml:"tech_stack" json:"tech_stack"`
	AITools     map[string]string `yaml:"ai_tools" json:"ai_tools"`
}

// Normalize trims whitespace and replaces nil collections with empty ones.
func (c *Config) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)

	stack := make([]string, 0, len(c.TechStack))
	for _, t := range c.TechStack {
		stack = append(stack, strings.TrimSpace(t))
	}
	c.TechStack = stack

	tools := make(map[string]string, len(c.AITools))
	for role, name := range c.AITools {
		tools[strings.TrimSpace(role)] = strings.TrimSpace(name)
	}
	c.AITools = tools
}

// ToolPairs returns "role=name" entries sorted by role.
func (c Config) ToolPairs() []string {
	roles := make([]string, 0, len(c.AITools))
	for role := range c.AITools {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	pairs := make([]string, 0, len(roles))
	for _, role := range roles {
		pairs = append(pairs, role+"="+c.AITools[role])
	}
	return pairs
}

// MaxNameRunes bounds the project name length.
const MaxNameRunes = 100

// NameFromDir derives a schema-valid project name from a directory path.
// Runes outside [A-Za-z0-9._-] become '-', leading punctuation is dropped
// and the result is cut to MaxNameRunes. An unusable path yields "project".
func NameFromDir(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, base)
	mapped = strings.TrimLeft(mapped, "._-")
	if len(mapped) > MaxNameRunes {
		mapped = mapped[:MaxNameRunes]
	}
	if mapped == "" {
		return "project"
	}
	return mapped
}

// ParseTool splits a "role=name" flag value.
func ParseTool(s string) (role, name string, err error) {
	role, name, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(role) == "" || strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("invalid tool %q: expected role=name", s)
	}
	return strings.TrimSpace(role), strings.TrimSpace(name), nil
}

// LoadFile reads a config from a YAML file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read project config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse project config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Path returns the persisted config location for a project root.
func Path(root string) string {
	return filepath.Join(root, StateDir, FileName)
}

// Load reads the persisted config for a project root.
// Returns (Config{}, false, nil) when the project has none.
func Load(root string) (Config, bool, error) {
	cfg, err := LoadFile(Path(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, false, nil
		}
		return Config{}, false, err
	}
	return cfg, true, nil
}

// Save writes cfg to the project's state directory.
func Save(root string, cfg Config) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal project config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project config: %w", err)
	}
	return nil
}
