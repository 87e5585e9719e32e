package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/umbrella/internal/git"
	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/testutil"
)

var testNow = time.Date(2026, 3, 9, 14, 5, 0, 0, time.UTC)

func testConfig() project.Config {
	return project.Config{
		Name:        "expense-tracker-app",
		Description: "Personal finance management application",
		TechStack:   []string{"PHP", "Laravel", "MariaDB", "JavaScript"},
		AITools:     map[string]string{"assistant": "amazon-q", "testing": "automated"},
	}
}

// gitRunner returns a stub where "git init" creates the .git directory.
func gitRunner(t *testing.T) *testutil.StubRunner {
	t.Helper()
	return testutil.NewStubRunner().On("git init", testutil.Response{
		Do: func(c testutil.Call) {
			require.NoError(t, os.MkdirAll(filepath.Join(c.Dir, ".git"), 0o755))
		},
	})
}

func newTestManager(t *testing.T, runner *testutil.StubRunner) (*Manager, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock(testNow)
	m := New(t.TempDir(), Options{
		Git:    git.New(runner, ""),
		Push:   true,
		Now:    clock.Now,
		Logger: zaptest.NewLogger(t),
	})
	return m, clock
}

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func mkdirs(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(r)), 0o755))
	}
}
