package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/git"
	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/rules"
	"github.com/roach88/umbrella/internal/scaffold"
	"github.com/roach88/umbrella/internal/status"
	"github.com/roach88/umbrella/internal/store"
)

// InitialCommitMessage is used for the commit made by start.
const InitialCommitMessage = "Initial AI-SDLC project setup"

// Git status messages reported by start.
const (
	GitMissingStatus  = "Git not found - please install Git first"
	GitExistsStatus   = "Git repository already exists"
	GitInitOKStatus   = "Git repository initialized successfully"
	gitFailedStatusFn = "Git setup failed: %v"
)

// GitOutcome classifies what start did with git.
type GitOutcome string

const (
	GitInitialized GitOutcome = "initialized"
	GitExisting    GitOutcome = "existing"
	GitMissing     GitOutcome = "missing"
	GitFailed      GitOutcome = "failed"
	GitSkipped     GitOutcome = "skipped"
)

// StartResult reports what start did.
type StartResult struct {
	Project                string     `json:"project"`
	Phase                  string     `json:"phase"`
	PhaseFolder            string     `json:"phase_folder"`
	Actions                []string   `json:"actions"`
	FolderStructureCreated bool       `json:"folder_structure_created"`
	GitOutcome             GitOutcome `json:"git_outcome"`
	GitStatus              string     `json:"git_initialized"`
	RulesCopied            int        `json:"rules_copied"`
	RulesStatus            string     `json:"ai_rules_loaded"`
}

// Start scaffolds a new project: folder tree, status file, persisted config,
// git repository and rule files, in that order. Git and rules problems are
// reported in the result rather than returned.
func (m *Manager) Start(ctx context.Context, cfg project.Config) (StartResult, error) {
	cfg.Normalize()
	if err := project.Validate(cfg); err != nil {
		return StartResult{}, err
	}

	first := phase.First()
	m.log.Debug("starting project", zap.String("project", cfg.Name), zap.String("root", m.root))

	if err := scaffold.EnsureTree(m.root); err != nil {
		return StartResult{}, fmt.Errorf("create folder structure: %w", err)
	}
	if err := status.Write(m.root, status.RenderInitial(cfg, m.now())); err != nil {
		return StartResult{}, err
	}
	if err := project.Save(m.root, cfg); err != nil {
		return StartResult{}, err
	}

	result := StartResult{
		Project:                cfg.Name,
		Phase:                  first.Key,
		PhaseFolder:            first.Folder,
		Actions:                first.Actions,
		FolderStructureCreated: true,
	}
	result.GitOutcome, result.GitStatus = m.initGit(ctx)
	result.RulesCopied, result.RulesStatus = m.installRules()

	m.record(ctx, store.Event{
		Kind:  store.KindStart,
		Phase: first.Number(),
		Detail: map[string]any{
			"project": cfg.Name,
			"git":     string(result.GitOutcome),
			"rules":   result.RulesCopied,
		},
	})
	return result, nil
}

func (m *Manager) initGit(ctx context.Context) (GitOutcome, string) {
	if m.git == nil {
		return GitSkipped, "Git initialization skipped"
	}
	if err := m.git.Available(ctx); err != nil {
		m.log.Warn("git unavailable", zap.Error(err))
		return GitMissing, GitMissingStatus
	}
	if git.IsRepo(m.root) {
		// The journal must stay out of commits in adopted repositories too.
		if _, err := scaffold.EnsureGitignore(m.root); err != nil {
			m.log.Warn("gitignore update failed", zap.Error(err))
		}
		return GitExisting, GitExistsStatus
	}

	if err := m.bootstrapRepo(ctx); err != nil {
		if errors.Is(err, git.ErrGitNotFound) {
			return GitMissing, GitMissingStatus
		}
		m.log.Warn("git setup failed", zap.Error(err))
		return GitFailed, fmt.Sprintf(gitFailedStatusFn, err)
	}
	return GitInitialized, GitInitOKStatus
}

func (m *Manager) bootstrapRepo(ctx context.Context) error {
	if err := m.git.Init(ctx, m.root); err != nil {
		return err
	}
	if _, err := scaffold.EnsureGitignore(m.root); err != nil {
		return err
	}
	if err := m.git.AddAll(ctx, m.root); err != nil {
		return err
	}
	return m.git.Commit(ctx, m.root, InitialCommitMessage)
}

func (m *Manager) installRules() (int, string) {
	n, err := rules.Install(m.rules, m.root, m.rulesTarget)
	if err != nil {
		m.log.Warn("rules install failed", zap.Error(err))
		return n, fmt.Sprintf("Failed to setup AI rules: %v", err)
	}
	return n, fmt.Sprintf("AI rules loaded: %d files copied to %s/", n, m.rulesTarget)
}
