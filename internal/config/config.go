package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Config is the hookline configuration loaded from ~/.hookline/config.yaml.
type Config struct {
	DefaultProfile string              `yaml:"default_profile,omitempty"`
	ActivityLog    bool                `yaml:"activity_log,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles,omitempty"`
}

// Profile is a named launch configuration for the agent CLI.
type Profile struct {
	Command        string `yaml:"command,omitempty"`         // agent binary, default "claude"
	Model          string `yaml:"model,omitempty"`           // passed as --model
	PermissionMode string `yaml:"permission_mode,omitempty"` // passed as --permission-mode
	ExtraArgs      string `yaml:"extra_args,omitempty"`      // shell-style extra CLI args
}

// ValidPermissionModes lists all valid values for the permission_mode field.
var ValidPermissionModes = []string{
	"default", "delegate", "acceptEdits", "plan", "dontAsk", "bypassPermissions",
}

// ConfigDir returns the hookline configuration directory (~/.hookline/).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".hookline")
	}
	return filepath.Join(home, ".hookline")
}

// Load reads the config from ~/.hookline/config.yaml.
// If the file does not exist, it returns an empty Config with no error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads the config from the given path.
// If the file does not exist, it returns an empty Config with no error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var profileNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func (c *Config) validate() error {
	for name, p := range c.Profiles {
		if !profileNameRe.MatchString(name) {
			return fmt.Errorf("profiles: invalid profile name %q (must match [a-zA-Z0-9_-]+)", name)
		}
		if p == nil {
			continue
		}
		if err := p.validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	if c.DefaultProfile != "" {
		if _, ok := c.Profiles[c.DefaultProfile]; !ok {
			return fmt.Errorf("default_profile %q is not defined in profiles", c.DefaultProfile)
		}
	}
	return nil
}

func (p *Profile) validate() error {
	if p.PermissionMode != "" {
		valid := false
		for _, mode := range ValidPermissionModes {
			if p.PermissionMode == mode {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid permission_mode %q; valid values: %s",
				p.PermissionMode, strings.Join(ValidPermissionModes, ", "))
		}
	}
	if _, err := p.SplitExtraArgs(); err != nil {
		return fmt.Errorf("invalid extra_args: %w", err)
	}
	return nil
}

// GetCommand returns the agent command, defaulting to "claude".
func (p *Profile) GetCommand() string {
	if p != nil && p.Command != "" {
		return p.Command
	}
	return "claude"
}

// SplitExtraArgs splits the extra_args string using shell quoting rules.
func (p *Profile) SplitExtraArgs() ([]string, error) {
	if p == nil || p.ExtraArgs == "" {
		return nil, nil
	}
	return shlex.Split(p.ExtraArgs)
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
