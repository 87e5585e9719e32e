package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Name:        "expense-tracker-app",
		Description: "Personal finance management application",
		TechStack:   []string{"PHP", "Laravel", "MariaDB", "JavaScript"},
		AITools:     map[string]string{"assistant": "amazon-q", "testing": "automated"},
	}
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_EmptyCollections(t *testing.T) {
	cfg := Config{Name: "demo"}
	require.NoError(t, Validate(cfg))
}

func TestValidate_BadName(t *testing.T) {
	for _, name := range []string{"", "-leading-dash", "has space", "slash/name"} {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Name = name

			err := Validate(cfg)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.NotEmpty(t, vErr.Problems)
			assert.Contains(t, err.Error(), "invalid project config")
		})
	}
}

func TestValidate_EmptyTech(t *testing.T) {
	cfg := validConfig()
	cfg.TechStack = append(cfg.TechStack, " ")

	err := Validate(cfg)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestValidate_EmptyToolName(t *testing.T) {
	cfg := validConfig()
	cfg.AITools["review"] = ""

	err := Validate(cfg)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestNameFromDir(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"/work/expense-tracker-app", "expense-tracker-app"},
		{"/work/My Project", "My-Project"},
		{"/work/café app", "caf--app"},
		{"/work/.hidden", "hidden"},
		{"/", "project"},
		{"/work/---", "project"},
		{"/work/" + strings.Repeat("a", 150), strings.Repeat("a", MaxNameRunes)},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := NameFromDir(tt.dir)
			assert.Equal(t, tt.want, got)
			require.NoError(t, Validate(Config{Name: got}))
		})
	}
}

func TestParseTool(t *testing.T) {
	role, name, err := ParseTool("assistant = amazon-q")
	require.NoError(t, err)
	assert.Equal(t, "assistant", role)
	assert.Equal(t, "amazon-q", name)

	for _, bad := range []string{"assistant", "=x", "x=", ""} {
		_, _, err := ParseTool(bad)
		assert.Error(t, err, bad)
	}
}

func TestToolPairs_Sorted(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []string{"assistant=amazon-q", "testing=automated"}, cfg.ToolPairs())
	assert.Empty(t, Config{}.ToolPairs())
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	cfg := validConfig()

	require.NoError(t, Save(root, cfg))
	assert.FileExists(t, filepath.Join(root, ".umbrella", "project.yaml"))

	got, ok, err := Load(root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cfg, got)
}

func TestLoad_Missing(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFile_Normalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "umbrella.yaml")
	content := `
name: "  shop  "
description: Online shop
tech_stack:
  - Go
  - " Postgres "
ai_tools:
  assistant: amazon-q
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.Name)
	assert.Equal(t, []string{"Go", "Postgres"}, cfg.TechStack)
	assert.Equal(t, "amazon-q", cfg.AITools["assistant"])
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse project config")
}
