package cli

import (
	"bytes"
	"encoding/json"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/status"
	"github.com/roach88/umbrella/internal/testutil"
)

var testNow = time.Date(2026, 3, 9, 14, 5, 0, 0, time.UTC)

// newTestOptions returns options rooted at an empty "expense-tracker-app"
// directory with git scripted through a stub.
func newTestOptions(t *testing.T, format string) (*RootOptions, *testutil.StubRunner) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := filepath.Join(t.TempDir(), "expense-tracker-app")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	runner := testutil.NewStubRunner().On("git init", testutil.Response{
		Do: func(c testutil.Call) {
			require.NoError(t, os.MkdirAll(filepath.Join(c.Dir, ".git"), 0o755))
		},
	})
	clock := testutil.NewFixedClock(testNow)
	return &RootOptions{Format: format, Dir: dir, Runner: runner, Now: clock.Now}, runner
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decode(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func startProject(t *testing.T, opts *RootOptions, args ...string) {
	t.Helper()
	_, err := run(t, NewStartCommand(opts), args...)
	require.NoError(t, err)
}

func TestStartText(t *testing.T) {
	opts, runner := newTestOptions(t, "text")

	out, err := run(t, NewStartCommand(opts))
	require.NoError(t, err)

	assert.Contains(t, out, "🚀 AI-SDLC Project Started!")
	assert.Contains(t, out, "📁 Project: expense-tracker-app")
	assert.Contains(t, out, "📋 Current Phase: planning")
	assert.Contains(t, out, "🗂️  Work in: 1-Planning")
	assert.Contains(t, out, "🔧 Git Status: Git repository initialized successfully")
	assert.Contains(t, out, "🤖 AI Rules: AI rules loaded: 9 files copied to .amazonq/rules/")
	assert.Contains(t, out, "✅ Amazon Q Integration Ready!")
	assert.Contains(t, out, "📝 Next Actions:\n   - Create project charter\n")
	assert.NotContains(t, out, "Git Installation Required")

	assert.Equal(t, []string{
		"git --version",
		"git init",
		"git add .",
		"git commit -m Initial AI-SDLC project setup",
	}, runner.CommandLines())
	assert.FileExists(t, status.Path(opts.Dir))
}

func TestStartJSONWithFlags(t *testing.T) {
	opts, _ := newTestOptions(t, "json")

	out, err := run(t, NewStartCommand(opts),
		"--name", "ledger",
		"--description", "Shared ledger",
		"--tech", "Go,SQLite",
		"--tech", "HTMX",
		"--tool", "assistant=amazon-q",
		"--tool", "testing=automated",
	)
	require.NoError(t, err)

	resp := decode(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ledger", data["project"])
	assert.Equal(t, "initialized", data["git_outcome"])
	assert.Equal(t, float64(9), data["rules_copied"])

	cfg, found, err := project.Load(opts.Dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"Go", "SQLite", "HTMX"}, cfg.TechStack)
	assert.Equal(t, map[string]string{"assistant": "amazon-q", "testing": "automated"}, cfg.AITools)
}

func TestStartConfigFile(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	cfgPath := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`name: expense-tracker
description: from file
tech_stack: [PHP, Laravel]
ai_tools:
  assistant: amazon-q
`), 0o644))

	out, err := run(t, NewStartCommand(opts), "--config", cfgPath, "--description", "from flag")
	require.NoError(t, err)
	assert.Contains(t, out, "📁 Project: expense-tracker")

	cfg, _, err := project.Load(opts.Dir)
	require.NoError(t, err)
	assert.Equal(t, "from flag", cfg.Description)
	assert.Equal(t, []string{"PHP", "Laravel"}, cfg.TechStack)
}

func TestStartConfigFileMissing(t *testing.T) {
	opts, _ := newTestOptions(t, "text")

	out, err := run(t, NewStartCommand(opts), "--config", "/nonexistent/project.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
	assert.NoFileExists(t, status.Path(opts.Dir))
}

func TestStartInvalidName(t *testing.T) {
	opts, _ := newTestOptions(t, "json")

	out, err := run(t, NewStartCommand(opts), "--name=bad/name")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInvalidConfig, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestStartNameFromSpacedDir(t *testing.T) {
	opts, _ := newTestOptions(t, "json")
	opts.Dir = filepath.Join(filepath.Dir(opts.Dir), "My Project")
	require.NoError(t, os.MkdirAll(opts.Dir, 0o755))

	out, err := run(t, NewStartCommand(opts), "--no-git")
	require.NoError(t, err)
	assert.Equal(t, "My-Project", decode(t, out).Data.(map[string]interface{})["project"])
}

func TestStartBadTool(t *testing.T) {
	opts, _ := newTestOptions(t, "text")

	out, err := run(t, NewStartCommand(opts), "--tool", "amazon-q")
	require.Error(t, err)
	assert.Contains(t, out, "E002")
}

func TestStartGitMissing(t *testing.T) {
	opts, runner := newTestOptions(t, "text")
	runner.On("git --version", testutil.Response{Err: osexec.ErrNotFound})

	out, err := run(t, NewStartCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "🔧 Git Status: Git not found - please install Git first")
	assert.Contains(t, out, "⚠️  Git Installation Required:")
	assert.Contains(t, out, "1. Install Git: https://git-scm.com/downloads")
}

func TestStartNoGit(t *testing.T) {
	opts, runner := newTestOptions(t, "text")

	out, err := run(t, NewStartCommand(opts), "--no-git")
	require.NoError(t, err)
	assert.Contains(t, out, "Git initialization skipped")
	assert.Empty(t, runner.Calls())
}

func TestStartRulesDir(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	rulesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "phase1-planning-rules.md"), []byte("# custom\n"), 0o644))

	out, err := run(t, NewStartCommand(opts), "--rules-dir", rulesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "AI rules loaded: 1 files copied to .amazonq/rules/")

	data, err := os.ReadFile(filepath.Join(opts.Dir, ".amazonq", "rules", "phase1-planning-rules.md"))
	require.NoError(t, err)
	assert.Equal(t, "# custom\n", string(data))
}

func TestAdvance(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)

	out, err := run(t, NewAdvanceCommand(opts), "--artifact", "charter=1-Planning/project-charter.md")
	require.NoError(t, err)
	assert.Contains(t, out, "🚀 Advanced to Phase 2. Requirements")
	assert.Contains(t, out, "🗂️  Work in: 2-Requirements")
	assert.Contains(t, out, "📦 Artifacts recorded: 1")
	assert.Contains(t, out, "   - Generate user stories")

	content, err := status.Read(opts.Dir)
	require.NoError(t, err)
	assert.Contains(t, content, "- **Phase:** 2. Requirements")
	assert.Contains(t, content, "- **Name:** expense-tracker-app")
}

func TestAdvanceBadArtifact(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)

	out, err := run(t, NewAdvanceCommand(opts), "--artifact", "charter")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeInvalidArg)
}

func TestAdvanceNoStatus(t *testing.T) {
	opts, _ := newTestOptions(t, "text")

	out, err := run(t, NewAdvanceCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "No SESSION-STATUS.md found")
}

func TestResume(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)

	out, err := run(t, NewResumeCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "📋 Current Project Status:\n"+strings.Repeat("=", 50)+"\n# AI-SDLC Session Status")
	assert.Contains(t, out, "🤖 AI rules already loaded in .amazonq/rules/phase1-planning-rules.md")
	assert.Contains(t, out, "💡 To update status manually, edit: "+status.Path(opts.Dir))
}

func TestResumeNoStatusJSON(t *testing.T) {
	opts, _ := newTestOptions(t, "json")

	out, err := run(t, NewResumeCommand(opts))
	require.Error(t, err)

	resp := decode(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNoStatus, resp.Error.Code)
}

func TestValidateIncomplete(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)

	out, err := run(t, NewValidateCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "🔍 Validating Phase 1 completion...")
	assert.Contains(t, out, "❌ Phase 1 incomplete. Missing:\n   - 1-Planning/project-charter.md\n")
	assert.Contains(t, out, "💡 Complete these items before advancing to Phase 2")
}

func TestValidatePassed(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)
	for _, f := range []string{"project-charter.md", "initial-timeline.md", "stakeholder-map.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(opts.Dir, "1-Planning", f), []byte("x"), 0o644))
	}

	out, err := run(t, NewValidateCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Phase 1 validation passed!")
	assert.Contains(t, out, "🚀 Ready to advance to Phase 2")
}

func TestValidateDevelopmentJSON(t *testing.T) {
	opts, _ := newTestOptions(t, "json")
	startProject(t, opts)
	for _, sub := range []string{"src", "tests", "docs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(opts.Dir, "4-Development", "components", "auth", sub), 0o755))
	}

	out, err := run(t, NewValidateCommand(opts), "--phase", "4")
	require.NoError(t, err)

	resp := decode(t, out)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["passed"])
	comps := data["components"].(map[string]interface{})
	assert.Equal(t, []interface{}{"auth"}, comps["ready"])
}

func TestValidateDevelopmentText(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)
	require.NoError(t, os.MkdirAll(filepath.Join(opts.Dir, "4-Development", "components", "billing", "src"), 0o755))

	out, err := run(t, NewValidateCommand(opts), "--phase", "4")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "🔄 Phase 4: Development (Iterative)")
	assert.Contains(t, out, "🚧 Components in development: 1")
}

func TestValidatePhaseOutOfRange(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)

	_, err := run(t, NewValidateCommand(opts), "--phase", "8")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

const dirtyTree = " M SESSION-STATUS.md\n"

func TestPause(t *testing.T) {
	opts, runner := newTestOptions(t, "text")
	startProject(t, opts)
	runner.On("git status --porcelain", testutil.Stdout(dirtyTree)).
		On("git status --short", testutil.Stdout(dirtyTree))

	out, err := run(t, NewPauseCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "⏸️  Pausing AI-SDLC Project...")
	assert.Contains(t, out, "📋 Changes to be committed:")
	assert.Contains(t, out, "✅ Changes committed locally: Pause work: 1. Planning - 2026-03-09 14:05")
	assert.Contains(t, out, "📡 No remote repository configured")
	assert.Contains(t, out, "⏸️  Project paused successfully at 2026-03-09 14:05")

	content, err := status.Read(opts.Dir)
	require.NoError(t, err)
	assert.Contains(t, content, "## Session Paused")
}

func TestPauseCustomMessageAndPush(t *testing.T) {
	opts, runner := newTestOptions(t, "json")
	startProject(t, opts)
	runner.On("git status --porcelain", testutil.Stdout(dirtyTree)).
		On("git remote -v", testutil.Stdout("origin\tgit@example.com:me/app.git (push)\n"))

	out, err := run(t, NewPauseCommand(opts), "-m", "wip: charter")
	require.NoError(t, err)

	data := decode(t, out).Data.(map[string]interface{})
	assert.Equal(t, "wip: charter", data["commit_message"])
	assert.Equal(t, "pushed", data["push"])
	assert.Contains(t, runner.CommandLines(), "git push")
}

func TestPausePushDisabled(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		opts, runner := newTestOptions(t, "json")
		startProject(t, opts)
		runner.On("git status --porcelain", testutil.Stdout(dirtyTree))

		// Settings are read once per RootOptions, so the pause flag needs its own.
		pauseOpts := &RootOptions{Format: opts.Format, Dir: opts.Dir, Runner: opts.Runner, Now: opts.Now}
		out, err := run(t, NewPauseCommand(pauseOpts), "--push=false")
		require.NoError(t, err)
		assert.Equal(t, "disabled", decode(t, out).Data.(map[string]interface{})["push"])
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("UMBRELLA_PUSH", "false")
		opts, runner := newTestOptions(t, "json")
		startProject(t, opts)
		runner.On("git status --porcelain", testutil.Stdout(dirtyTree))

		out, err := run(t, NewPauseCommand(opts))
		require.NoError(t, err)
		assert.Equal(t, "disabled", decode(t, out).Data.(map[string]interface{})["push"])
		assert.NotContains(t, runner.CommandLines(), "git remote -v")
	})
}

func TestPauseUpToDate(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts)

	out, err := run(t, NewPauseCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "✅ No changes to commit. Project already up to date.")
}

func TestPauseNoRepo(t *testing.T) {
	opts, _ := newTestOptions(t, "text")
	startProject(t, opts, "--no-git")

	out, err := run(t, NewPauseCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "No Git repository found")
	assert.Contains(t, out, "❌ Failed to pause project")
}

func TestPauseCommitFails(t *testing.T) {
	opts, runner := newTestOptions(t, "text")
	startProject(t, opts)
	runner.On("git status --porcelain", testutil.Stdout(dirtyTree)).
		OnPrefix("git commit -m Pause", testutil.Exit(1, "pre-commit hook failed"))

	out, err := run(t, NewPauseCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeGit)
	assert.Contains(t, out, "Git operation failed")
}

func TestPhases(t *testing.T) {
	opts, _ := newTestOptions(t, "text")

	out, err := run(t, NewPhasesCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "  1. Planning  [1-Planning]")
	assert.NotContains(t, out, "▶")

	startProject(t, opts)
	out, err = run(t, NewPhasesCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "▶ 1. Planning  [1-Planning]")
	assert.Contains(t, out, "  5. Testing (Iterative)  [5-Testing]")
}

func TestPhasesJSON(t *testing.T) {
	opts, _ := newTestOptions(t, "json")

	out, err := run(t, NewPhasesCommand(opts))
	require.NoError(t, err)
	phases := decode(t, out).Data.([]interface{})
	require.Len(t, phases, 7)
	last := phases[6].(map[string]interface{})
	assert.Equal(t, "maintenance", last["key"])
	assert.Equal(t, "phase7-maintenance-rules.md", last["rules_file"])
}

func TestHistory(t *testing.T) {
	opts, _ := newTestOptions(t, "json")
	startProject(t, opts)
	_, err := run(t, NewAdvanceCommand(opts), "--artifact", "charter=done")
	require.NoError(t, err)

	out, err := run(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	events := decode(t, out).Data.([]interface{})
	require.Len(t, events, 2)
	assert.Equal(t, "start", events[0].(map[string]interface{})["kind"])

	out, err = run(t, NewHistoryCommand(opts), "--kind", "advance")
	require.NoError(t, err)
	events = decode(t, out).Data.([]interface{})
	require.Len(t, events, 1)
	advance := events[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"charter": "done"}, advance["artifacts"])
}

func TestHistoryText(t *testing.T) {
	opts, _ := newTestOptions(t, "text")

	out, err := run(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "📭 No recorded events")

	startProject(t, opts)
	out, err = run(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-09 14:05  start")
	assert.Contains(t, out, "project=expense-tracker-app")
}

func TestHistoryBadKind(t *testing.T) {
	opts, _ := newTestOptions(t, "text")

	_, err := run(t, NewHistoryCommand(opts), "--kind", "deploy")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
