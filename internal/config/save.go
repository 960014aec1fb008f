package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
)

// Write marshals the configuration to path, creating parent directories as
// needed. Used by `scb init`; the engine itself never writes config.
func (c *Config) Write(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fault.Wrap(fault.ConfigInvalid, err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fault.Wrap(fault.ConfigInvalid, err, fmt.Sprintf("creating %s", filepath.Dir(path)))
	}
	header := []byte("# Synaptic canvas board configuration.\n# provider: kanban | checklist\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fault.Wrap(fault.ConfigInvalid, err, fmt.Sprintf("writing %s", path))
	}
	return nil
}
