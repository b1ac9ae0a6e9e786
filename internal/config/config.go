// Package config loads the layered jarl configuration: defaults, then the
// global file, then the project file, then JARL_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jarl-lint/jarl/pkg/rules"
)

// Format selects how diagnostics are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds all configuration for jarl.
type Config struct {
	// Select restricts linting to the named rules. Empty means every rule
	// that is enabled by default.
	Select []string `yaml:"select" env:"JARL_SELECT"`

	// Ignore disables the named rules. Ignore wins over Select.
	Ignore []string `yaml:"ignore" env:"JARL_IGNORE"`

	// Fixable, when set, is the only set of rules allowed to apply fixes.
	Fixable []string `yaml:"fixable" env:"JARL_FIXABLE"`

	// Unfixable strips automatic fixes from the named rules.
	Unfixable []string `yaml:"unfixable" env:"JARL_UNFIXABLE"`

	// StopFunctions supplements the functions treated as terminating by
	// the reachability analysis (stop, abort, quit and friends).
	StopFunctions []string `yaml:"stop_functions" env:"JARL_STOP_FUNCTIONS"`

	// Exclude lists gitignore-style patterns skipped during file discovery,
	// on top of the built-in excludes.
	Exclude []string `yaml:"exclude" env:"JARL_EXCLUDE"`

	// Format is the diagnostic output format: "text" or "json".
	Format Format `yaml:"format" env:"JARL_FORMAT"`

	// Cache toggles the on-disk result cache.
	Cache bool `yaml:"cache" env:"JARL_CACHE"`

	// Logging
	Verbose bool `yaml:"verbose" env:"JARL_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Select:        nil,
		Ignore:        nil,
		Fixable:       nil,
		Unfixable:     nil,
		StopFunctions: nil,
		Exclude:       nil,
		Format:        FormatText,
		Cache:         true,
		Verbose:       false,
	}
}

// globalConfigFilePath returns the global config file path (~/.jarl/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".jarl", "config.yaml")
	}
	return filepath.Join(home, ".jarl", "config.yaml")
}

// ProjectConfigFile is the per-project config filename.
const ProjectConfigFile = ".jarl.yaml"

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.jarl.yaml)
// 3. Global config (~/.jarl/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	if data, err := os.ReadFile(ProjectConfigFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", ProjectConfigFile, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JARL_SELECT"); v != "" {
		cfg.Select = splitList(v)
	}
	if v := os.Getenv("JARL_IGNORE"); v != "" {
		cfg.Ignore = splitList(v)
	}
	if v := os.Getenv("JARL_FIXABLE"); v != "" {
		cfg.Fixable = splitList(v)
	}
	if v := os.Getenv("JARL_UNFIXABLE"); v != "" {
		cfg.Unfixable = splitList(v)
	}
	if v := os.Getenv("JARL_STOP_FUNCTIONS"); v != "" {
		cfg.StopFunctions = splitList(v)
	}
	if v := os.Getenv("JARL_EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}
	if v := os.Getenv("JARL_FORMAT"); v != "" {
		cfg.Format = Format(v)
	}
	if v := os.Getenv("JARL_CACHE"); v != "" {
		cfg.Cache = isTruthy(v)
	}
	if v := os.Getenv("JARL_VERBOSE"); v != "" {
		cfg.Verbose = isTruthy(v)
	}
}

// Validate checks that the configuration has valid required fields.
func (c *Config) Validate() error {
	if err := validateRuleNames("select", c.Select); err != nil {
		return err
	}
	if err := validateRuleNames("ignore", c.Ignore); err != nil {
		return err
	}
	if err := validateRuleNames("fixable", c.Fixable); err != nil {
		return err
	}
	if err := validateRuleNames("unfixable", c.Unfixable); err != nil {
		return err
	}

	switch c.Format {
	case FormatText, FormatJSON:
		// Valid
	default:
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", c.Format)
	}

	return nil
}

// EnabledRules resolves Select and Ignore into the final rule set. An empty
// Select means every rule that is enabled by default; Ignore always wins.
func (c *Config) EnabledRules() map[string]bool {
	enabled := make(map[string]bool)
	if len(c.Select) == 0 {
		for _, name := range rules.DefaultEnabled() {
			enabled[name] = true
		}
	} else {
		for _, name := range c.Select {
			enabled[name] = true
		}
	}
	for _, name := range c.Ignore {
		delete(enabled, name)
	}
	return enabled
}

func validateRuleNames(field string, names []string) error {
	var invalid []string
	for _, name := range names {
		if !rules.IsKnown(name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("unknown rules in %s: %s", field, strings.Join(invalid, ", "))
	}
	return nil
}

// splitList splits a comma-separated environment value, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}
