// Package settings loads tool-level settings (not per-project config) from
// defaults, an optional settings file, UMBRELLA_* environment variables and
// bound command flags, in increasing order of precedence.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. UMBRELLA_GIT_BINARY.
const EnvPrefix = "UMBRELLA"

// Setting keys.
const (
	KeyGitBinary   = "git_binary"
	KeyRulesDir    = "rules_dir"
	KeyRulesTarget = "rules_target"
	KeyPush        = "push"
	KeyLogLevel    = "log_level"
)

// Settings controls how umbrella talks to git and where rules come from.
type Settings struct {
	GitBinary   string `mapstructure:"git_binary"`
	RulesDir    string `mapstructure:"rules_dir"`
	RulesTarget string `mapstructure:"rules_target"`
	Push        bool   `mapstructure:"push"`
	LogLevel    string `mapstructure:"log_level"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyGitBinary, "git")
	v.SetDefault(KeyRulesDir, "")
	v.SetDefault(KeyRulesTarget, ".amazonq/rules")
	v.SetDefault(KeyPush, true)
	v.SetDefault(KeyLogLevel, "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultFile is $XDG_CONFIG_HOME/umbrella/settings.yaml, falling back to
// ~/.config. Returns "" when no home directory can be determined.
func DefaultFile() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "umbrella", "settings.yaml")
}

// ReadFile merges the settings file at path into v.
// A missing file is not an error when optional is true.
func ReadFile(v *viper.Viper, path string, optional bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("settings file: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	return nil
}

// From decodes the effective settings held by v.
func From(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
