// Package status renders and parses SESSION-STATUS.md, the human-edited
// record of where a project stands in the lifecycle.
package status

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/project"
)

// FileName is the status file at the project root.
const FileName = "SESSION-STATUS.md"

// Date layouts used in the status file.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04"
)

// InitialTask is the Last Task recorded when a project starts.
const InitialTask = "Project initialization"

// Document is everything needed to render the status file.
type Document struct {
	Phase    phase.Phase
	LastTask string
	Date     time.Time
	// Project is rendered as the Project Info section when non-nil.
	Project *project.Config
}

// Path returns the status file location for a project root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// RenderInitial renders the status file written by project start.
func RenderInitial(cfg project.Config, date time.Time) string {
	return Render(Document{
		Phase:    phase.First(),
		LastTask: InitialTask,
		Date:     date,
		Project:  &cfg,
	})
}

// RenderUpdate renders the status file after advancing to p.
func RenderUpdate(p phase.Phase, cfg *project.Config, date time.Time) string {
	return Render(Document{
		Phase:    p,
		LastTask: "Advanced to " + p.Label(),
		Date:     date,
		Project:  cfg,
	})
}

// Render produces the markdown for doc.
func Render(doc Document) string {
	var b strings.Builder

	b.WriteString("# AI-SDLC Session Status\n\n")

	b.WriteString("## Current State\n")
	fmt.Fprintf(&b, "- **Phase:** %s\n", doc.Phase.Label())
	fmt.Fprintf(&b, "- **Progress:** %s\n", doc.Phase.Progress())
	if doc.LastTask != "" {
		fmt.Fprintf(&b, "- **Last Task:** %s\n", doc.LastTask)
	}
	fmt.Fprintf(&b, "- **Session Date:** %s\n\n", doc.Date.Format(DateLayout))

	if doc.Project != nil {
		b.WriteString("## Project Info\n")
		fmt.Fprintf(&b, "- **Name:** %s\n", doc.Project.Name)
		fmt.Fprintf(&b, "- **Description:** %s\n", doc.Project.Description)
		fmt.Fprintf(&b, "- **Tech Stack:** %s\n", strings.Join(doc.Project.TechStack, ", "))
		if tools := doc.Project.ToolPairs(); len(tools) > 0 {
			fmt.Fprintf(&b, "- **AI Tools:** %s\n", strings.Join(tools, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Next Actions\n")
	for _, action := range doc.Phase.Actions {
		fmt.Fprintf(&b, "- %s\n", action)
	}

	return b.String()
}

// RenderPause renders the section appended when a session is paused.
func RenderPause(at time.Time, commitMessage string) string {
	var b strings.Builder
	b.WriteString("\n## Session Paused\n")
	fmt.Fprintf(&b, "- **Paused At:** %s\n", at.Format(TimestampLayout))
	fmt.Fprintf(&b, "- **Last Commit:** %s\n", commitMessage)
	return b.String()
}

// Write replaces the status file atomically.
func Write(root, content string) error {
	path := Path(root)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".umbrella-status-*")
	if err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	success = true
	return nil
}

// AppendPause appends the pause section to the existing status file.
func AppendPause(root string, at time.Time, commitMessage string) error {
	f, err := os.OpenFile(Path(root), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append pause info: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(RenderPause(at, commitMessage)); err != nil {
		return fmt.Errorf("append pause info: %w", err)
	}
	return nil
}
