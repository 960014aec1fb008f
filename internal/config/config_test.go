package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, CanvasDir, ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
provider: kanban
tiers:
  backlog: .canvas/backlog.json
  board: .canvas/board.json
  done: .canvas/done.json
columns: [planned, active, review, done]
terminal: done
wip_limits:
  active: 2
  review: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderKanban, cfg.Provider)
	assert.Equal(t, ".canvas/board.json", cfg.Tiers.Board)
	assert.Equal(t, 1, cfg.WIPLimits["review"])
	assert.Equal(t, "done", cfg.Terminal)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
provider: kanban
tiers:
  backlog: b.json
  board: brd.json
  done: d.json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultColumns, cfg.Columns)
	assert.Equal(t, "done", cfg.Terminal)
	assert.Empty(t, cfg.WIPLimits)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, fault.Is(err, fault.ConfigMissing), "err = %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"default is valid", func(c *Config) {}, true},
		{"checklist skips tier checks", func(c *Config) {
			c.Provider = ProviderChecklist
			c.Tiers = TierPaths{}
		}, true},
		{"empty provider", func(c *Config) { c.Provider = "" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "spreadsheet" }, false},
		{"missing board path", func(c *Config) { c.Tiers.Board = "" }, false},
		{"empty columns", func(c *Config) { c.Columns = nil }, false},
		{"duplicate column", func(c *Config) { c.Columns = []string{"planned", "planned"} }, false},
		{"terminal not a column", func(c *Config) { c.Terminal = "shipped" }, false},
		{"wip limit on unknown column", func(c *Config) { c.WIPLimits = map[string]int{"shipped": 1} }, false},
		{"wip limit on known column", func(c *Config) { c.WIPLimits = map[string]int{"review": 2} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(".canvas")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
				return
			}
			f, ok := fault.As(err)
			require.True(t, ok, "Validate() = %v, want CONFIG.INVALID", err)
			assert.Equal(t, fault.ConfigInvalid, f.Code)
			assert.False(t, f.Recoverable, "config faults are fatal")
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CanvasDir, ConfigFileName)

	cfg := Default(filepath.Join(dir, CanvasDir))
	cfg.WIPLimits = map[string]int{"review": 2}
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Provider, loaded.Provider)
	assert.Equal(t, cfg.Tiers, loaded.Tiers)
	assert.Equal(t, 2, loaded.WIPLimits["review"])
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, `
provider: kanban
tiers:
  backlog: b.json
  board: brd.json
  done: d.json
`)
	t.Setenv("SCB_PROVIDER", "checklist")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderChecklist, cfg.Provider)
}

func TestTierPath(t *testing.T) {
	cfg := Default("/tmp/.canvas")
	assert.Equal(t, cfg.Tiers.Backlog, cfg.TierPath("backlog"))
	assert.Equal(t, cfg.Tiers.Board, cfg.TierPath("board"))
	assert.Equal(t, cfg.Tiers.Done, cfg.TierPath("done"))
}
