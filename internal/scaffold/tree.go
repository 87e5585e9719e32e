// Package scaffold creates the lifecycle folder tree and the project .gitignore.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/umbrella/internal/phase"
)

// Folders returns every directory EnsureTree creates, relative to the root.
func Folders() []string {
	var dirs []string
	for _, p := range phase.All() {
		dirs = append(dirs, p.Folder)
	}
	return append(dirs, phase.Subfolders...)
}

// EnsureTree creates the phase folders and their fixed subfolders under root.
// Existing directories are left alone.
func EnsureTree(root string) error {
	for _, dir := range Folders() {
		path := filepath.Join(root, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
