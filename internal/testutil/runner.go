// Package testutil provides deterministic fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/roach88/umbrella/internal/exec"
)

// Call records one invocation made through a StubRunner.
type Call struct {
	Name string
	Args []string
	Dir  string
}

// String renders the call as a command line, e.g. "git commit -m msg".
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is a scripted reply for a command line.
type Response struct {
	Result exec.CmdResult
	Err    error
	// Do runs before the reply is returned, e.g. to create .git on "git init".
	Do func(call Call)
}

// StubRunner is a scripted exec.CommandRunner.
//
// Responses are keyed by the command line without the working directory
// ("git status --porcelain"). Unscripted commands succeed with empty output.
type StubRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// NewStubRunner creates a runner where every command succeeds.
func NewStubRunner() *StubRunner {
	return &StubRunner{responses: make(map[string]Response)}
}

// On scripts the reply for a command line.
func (s *StubRunner) On(cmdline string, resp Response) *StubRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[cmdline] = resp
	return s
}

// OnPrefix scripts the reply for every command line starting with prefix.
// Exact matches registered with On take precedence.
func (s *StubRunner) OnPrefix(prefix string, resp Response) *StubRunner {
	return s.On(prefix+"*", resp)
}

// Run implements exec.CommandRunner.
func (s *StubRunner) Run(_ context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	call := Call{Name: name, Args: append([]string(nil), args...), Dir: opts.Dir}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	resp, ok := s.lookup(call.String())
	s.mu.Unlock()

	if !ok {
		return exec.CmdResult{}, nil
	}
	if resp.Do != nil {
		resp.Do(call)
	}
	return resp.Result, resp.Err
}

func (s *StubRunner) lookup(cmdline string) (Response, bool) {
	if resp, ok := s.responses[cmdline]; ok {
		return resp, true
	}
	best := ""
	for key := range s.responses {
		prefix, isPrefix := strings.CutSuffix(key, "*")
		if isPrefix && strings.HasPrefix(cmdline, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return Response{}, false
	}
	return s.responses[best+"*"], true
}

// Calls returns every recorded call in order.
func (s *StubRunner) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CommandLines returns the recorded calls rendered as strings.
func (s *StubRunner) CommandLines() []string {
	calls := s.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Exit is shorthand for a response with the given exit code and stderr.
func Exit(code int, stderr string) Response {
	return Response{Result: exec.CmdResult{ExitCode: code, Stderr: stderr}}
}

// Stdout is shorthand for a successful response printing out.
func Stdout(out string) Response {
	return Response{Result: exec.CmdResult{Stdout: out}}
}

// Fail is shorthand for a response whose process could not run.
func Fail(format string, args ...any) Response {
	return Response{Err: fmt.Errorf(format, args...)}
}
