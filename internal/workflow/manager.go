// Package workflow implements the lifecycle operations: start, advance,
// resume, validate and pause. Each operation is a short sequence of
// filesystem steps and git commands run against one project root.
package workflow

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/git"
	"github.com/roach88/umbrella/internal/rules"
	"github.com/roach88/umbrella/internal/status"
)

var (
	// ErrNoStatus is returned when the project has no status file.
	ErrNoStatus = status.ErrNoStatus
	// ErrNoRepo is returned when pausing a project without a git repository.
	ErrNoRepo = errors.New("no git repository found")
	// ErrPhaseUndetermined is returned when the status file has no usable phase line.
	ErrPhaseUndetermined = errors.New("could not determine current phase")
)

// Options configures a Manager. Zero values fall back to defaults.
type Options struct {
	Git         *git.Client
	Rules       fs.FS
	RulesTarget string
	Push        bool
	Now         func() time.Time
	Logger      *zap.Logger
}

// Manager runs lifecycle operations for one project root.
type Manager struct {
	root        string
	git         *git.Client
	rules       fs.FS
	rulesTarget string
	push        bool
	now         func() time.Time
	log         *zap.Logger
}

// New creates a Manager for root.
func New(root string, opts Options) *Manager {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	m := &Manager{
		root:        root,
		git:         opts.Git,
		rules:       opts.Rules,
		rulesTarget: opts.RulesTarget,
		push:        opts.Push,
		now:         opts.Now,
		log:         opts.Logger,
	}
	if m.rules == nil {
		m.rules = rules.Embedded()
	}
	if m.rulesTarget == "" {
		m.rulesTarget = rules.DefaultTarget
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m
}

// Root returns the absolute project root.
func (m *Manager) Root() string {
	return m.root
}

// RulesTarget returns the rules directory relative to the root.
func (m *Manager) RulesTarget() string {
	return m.rulesTarget
}
