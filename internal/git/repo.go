// Package git wraps the git operations the lifecycle needs. Every operation
// shells out to the configured git binary through exec.CommandRunner.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/umbrella/internal/exec"
)

// ErrGitNotFound is returned when the git binary cannot be run.
var ErrGitNotFound = errors.New("git not found")

// CommandError describes a git command that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s exited %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Client runs git in a project directory.
type Client struct {
	runner exec.CommandRunner
	binary string
}

// New creates a Client. An empty binary means "git" from PATH.
func New(runner exec.CommandRunner, binary string) *Client {
	if binary == "" {
		binary = "git"
	}
	return &Client{runner: runner, binary: binary}
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (exec.CmdResult, error) {
	res, err := c.runner.Run(ctx, c.binary, args, exec.RunOpts{Dir: dir})
	if err != nil {
		if exec.IsNotFound(err) {
			return res, fmt.Errorf("%w: %v", ErrGitNotFound, err)
		}
		return res, fmt.Errorf("run git %s: %w", strings.Join(args, " "), err)
	}
	if res.ExitCode != 0 {
		return res, &CommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

// Available checks that git runs at all via `git --version`.
func (c *Client) Available(ctx context.Context) error {
	res, err := c.runner.Run(ctx, c.binary, []string{"--version"}, exec.RunOpts{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGitNotFound, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: git --version exited %d", ErrGitNotFound, res.ExitCode)
	}
	return nil
}

// IsRepo reports whether root already has a .git entry.
func IsRepo(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

// Init runs `git init` in root.
func (c *Client) Init(ctx context.Context, root string) error {
	_, err := c.run(ctx, root, "init")
	return err
}

// AddAll stages everything with `git add .`.
func (c *Client) AddAll(ctx context.Context, root string) error {
	_, err := c.run(ctx, root, "add", ".")
	return err
}

// Commit records staged changes with message.
func (c *Client) Commit(ctx context.Context, root, message string) error {
	_, err := c.run(ctx, root, "commit", "-m", message)
	return err
}

// Porcelain returns the changed files from `git status --porcelain`, one per line.
func (c *Client) Porcelain(ctx context.Context, root string) ([]string, error) {
	res, err := c.run(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(res.Stdout), nil
}

// Short returns the output of `git status --short` for display.
func (c *Client) Short(ctx context.Context, root string) (string, error) {
	res, err := c.run(ctx, root, "status", "--short")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// HasRemote reports whether any remote is configured.
func (c *Client) HasRemote(ctx context.Context, root string) (bool, error) {
	res, err := c.run(ctx, root, "remote", "-v")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// Push runs `git push` with the branch's configured upstream.
func (c *Client) Push(ctx context.Context, root string) error {
	_, err := c.run(ctx, root, "push")
	return err
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimRight(line, "\r"))
		}
	}
	return out
}
