// Package config loads and validates the board configuration.
//
// The configuration lives in .canvas/config.yaml and is read once per
// invocation into an immutable value object that is passed explicitly to
// every component; the engine never reaches for ambient config state.
// Environment variables with the SCB_ prefix override file values
// (SCB_PROVIDER, SCB_TIERS_BOARD, ...).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// CanvasDir is the project-local directory holding config and tier files.
const CanvasDir = ".canvas"

// ConfigFileName is the board configuration file inside CanvasDir.
const ConfigFileName = "config.yaml"

// Provider selects the backing workflow implementation.
type Provider string

const (
	ProviderKanban    Provider = "kanban"
	ProviderChecklist Provider = "checklist"
)

// TierPaths holds the three tier file locations.
type TierPaths struct {
	Backlog string `mapstructure:"backlog" yaml:"backlog"`
	Board   string `mapstructure:"board" yaml:"board"`
	Done    string `mapstructure:"done" yaml:"done"`
}

// Config is the validated board configuration. Treat it as read-only after
// Load; the engine never mutates it.
type Config struct {
	Provider  Provider       `mapstructure:"provider" yaml:"provider"`
	Tiers     TierPaths      `mapstructure:"tiers" yaml:"tiers"`
	Columns   []string       `mapstructure:"columns" yaml:"columns"`
	Terminal  string         `mapstructure:"terminal" yaml:"terminal"`
	WIPLimits map[string]int `mapstructure:"wip_limits" yaml:"wip_limits,omitempty"`
}

// DefaultColumns is the canonical column progression.
var DefaultColumns = []string{"planned", "active", "review", "done"}

// Default returns the configuration `scb init` writes, with tier files
// rooted under dir.
func Default(dir string) *Config {
	return &Config{
		Provider: ProviderKanban,
		Tiers: TierPaths{
			Backlog: filepath.Join(dir, "backlog.json"),
			Board:   filepath.Join(dir, "board.json"),
			Done:    filepath.Join(dir, "done.json"),
		},
		Columns:  append([]string(nil), DefaultColumns...),
		Terminal: "done",
	}
}

// Load reads the configuration from path, or discovers .canvas/config.yaml
// walking up from the working directory when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findProjectConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fault.New(fault.ConfigMissing, "config file %s does not exist", path).
			WithHint("run init to create a board here, or pass --config")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SCB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider", string(ProviderKanban))
	v.SetDefault("columns", DefaultColumns)
	v.SetDefault("terminal", "done")

	if err := v.ReadInConfig(); err != nil {
		return nil, fault.Wrap(fault.ConfigInvalid, err, fmt.Sprintf("parsing %s", path))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fault.Wrap(fault.ConfigInvalid, err, fmt.Sprintf("decoding %s", path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration is complete and internally consistent.
// Config faults are fatal: a partially valid config never reaches the engine.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderKanban, ProviderChecklist:
	case "":
		return fault.New(fault.ConfigInvalid, "provider is required").
			WithHint("set provider to kanban or checklist")
	default:
		return fault.New(fault.ConfigInvalid, "unknown provider %q", c.Provider).
			WithHint("set provider to kanban or checklist")
	}

	// The checklist provider manages its own markdown state; tier paths and
	// columns only bind when the kanban engine is active.
	if c.Provider == ProviderChecklist {
		return nil
	}

	for tier, path := range map[string]string{
		"backlog": c.Tiers.Backlog,
		"board":   c.Tiers.Board,
		"done":    c.Tiers.Done,
	} {
		if path == "" {
			return fault.New(fault.ConfigInvalid, "tiers.%s path is required", tier).
				WithHint("set tiers.%s in config.yaml", tier)
		}
	}

	if len(c.Columns) == 0 {
		return fault.New(fault.ConfigInvalid, "columns must not be empty").
			WithHint("list the board columns in order, e.g. [planned, active, review, done]")
	}
	seen := map[string]bool{}
	for _, col := range c.Columns {
		if col == "" {
			return fault.New(fault.ConfigInvalid, "columns must not contain empty names")
		}
		if seen[col] {
			return fault.New(fault.ConfigInvalid, "column %q listed twice", col)
		}
		seen[col] = true
	}

	if c.Terminal == "" {
		return fault.New(fault.ConfigInvalid, "terminal column name is required").
			WithHint("set terminal to the column that archives cards, commonly done")
	}
	if !seen[c.Terminal] {
		return fault.New(fault.ConfigInvalid, "terminal column %q is not in columns", c.Terminal).
			WithHint("add %q to columns or pick an existing column as terminal", c.Terminal)
	}

	for col := range c.WIPLimits {
		if !seen[col] {
			return fault.New(fault.ConfigInvalid, "wip_limits names unknown column %q", col).
				WithHint("limits may only reference configured columns: %s", strings.Join(c.Columns, ", "))
		}
	}
	return nil
}

// LockPath returns the advisory lock file guarding this board's tier files.
func (c *Config) LockPath() string {
	return filepath.Join(filepath.Dir(c.Tiers.Board), "board.lock")
}

// TierPath returns the file backing a tier.
func (c *Config) TierPath(tier types.Tier) string {
	switch tier {
	case types.TierBacklog:
		return c.Tiers.Backlog
	case types.TierDone:
		return c.Tiers.Done
	default:
		return c.Tiers.Board
	}
}

// findProjectConfig walks up from the working directory looking for
// .canvas/config.yaml, the same way the CLI discovers which board it is in.
func findProjectConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fault.Wrap(fault.ConfigMissing, err, "getting working directory")
	}
	dir := cwd
	for {
		candidate := filepath.Join(dir, CanvasDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fault.New(fault.ConfigMissing, "no %s/%s found in %s or any parent", CanvasDir, ConfigFileName, cwd).
				WithHint("run init to create a board here, or pass --config")
		}
		dir = parent
	}
}
