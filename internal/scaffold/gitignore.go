package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreHeader = "# AI-SDLC Project"

// IgnorePatterns are the entries every project .gitignore carries.
var IgnorePatterns = []string{
	"*.log",
	"*.tmp",
	".DS_Store",
	"Thumbs.db",
	".umbrella/*.db*",
}

// GitignoreResult indicates what happened to .gitignore.
type GitignoreResult string

const (
	GitignoreCreated   GitignoreResult = "created"
	GitignoreUpdated   GitignoreResult = "updated"
	GitignoreUnchanged GitignoreResult = "unchanged"
)

// EnsureGitignore writes root/.gitignore, or appends the patterns it lacks.
func EnsureGitignore(root string) (GitignoreResult, error) {
	path := filepath.Join(root, ".gitignore")

	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read .gitignore: %w", err)
		}
		fresh := gitignoreHeader + "\n" + strings.Join(IgnorePatterns, "\n") + "\n"
		if err := os.WriteFile(path, []byte(fresh), 0o644); err != nil {
			return "", fmt.Errorf("write .gitignore: %w", err)
		}
		return GitignoreCreated, nil
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, p := range IgnorePatterns {
		if !present[p] {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return GitignoreUnchanged, nil
	}

	updated := string(content)
	if len(updated) > 0 && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += strings.Join(missing, "\n") + "\n"

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("write .gitignore: %w", err)
	}
	return GitignoreUpdated, nil
}
