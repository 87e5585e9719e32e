// Package rules ships the AI assistant rule files and installs them into a
// project's assistant configuration directory.
package rules

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/umbrella/internal/phase"
)

//go:embed files/*.md
var embedded embed.FS

// DefaultTarget is where rules are installed, relative to the project root.
const DefaultTarget = ".amazonq/rules"

// Shared rule files loaded in every phase.
const (
	ContextManagement = "context-management-rules.md"
	FileOrganization  = "file-organization-rules.md"
)

// Files lists every rule file in install order.
func Files() []string {
	var names []string
	for _, p := range phase.All() {
		names = append(names, p.RulesFile)
	}
	return append(names, ContextManagement, FileOrganization)
}

// Embedded returns the rule files compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source returns the on-disk directory dir when set, otherwise the embedded rules.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}

// Install copies every rule file present in src into root/target.
// Files missing from src are skipped. Returns the number copied.
func Install(src fs.FS, root, target string) (int, error) {
	if target == "" {
		target = DefaultTarget
	}
	dest := filepath.Join(root, filepath.FromSlash(target))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("create rules dir: %w", err)
	}

	copied := 0
	for _, name := range Files() {
		data, err := fs.ReadFile(src, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return copied, fmt.Errorf("read rule %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dest, name), data, 0o644); err != nil {
			return copied, fmt.Errorf("write rule %s: %w", name, err)
		}
		copied++
	}
	return copied, nil
}

// PathFor returns the installed rules file for p, relative to the project root.
func PathFor(target string, p phase.Phase) string {
	if target == "" {
		target = DefaultTarget
	}
	return filepath.ToSlash(filepath.Join(target, p.RulesFile))
}
