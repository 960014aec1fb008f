// Package canvas provides a minimal public API for driving the card
// lifecycle programmatically.
//
// Most automation should shell out to the scb CLI with --json. This
// package exports only the essential types and the provider constructor
// for Go-based orchestrators that want to embed the engine directly.
package canvas

import (
	"github.com/randlee/synaptic-canvas-sub004/internal/config"
	"github.com/randlee/synaptic-canvas-sub004/internal/engine"
	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Core types for working with cards.
type (
	Card         = types.Card
	LeanCard     = types.LeanCard
	RichCard     = types.RichCard
	Status       = types.Status
	Tier         = types.Tier
	Filter       = types.Filter
	Fault        = fault.Fault
	Config       = config.Config
	Provider     = engine.Provider
	ExpandFields = engine.ExpandFields
)

// Status constants.
const (
	StatusPlanned  = types.StatusPlanned
	StatusActive   = types.StatusActive
	StatusReview   = types.StatusReview
	StatusDone     = types.StatusDone
	StatusArchived = types.StatusArchived
)

// Tier constants.
const (
	TierBacklog = types.TierBacklog
	TierBoard   = types.TierBoard
	TierDone    = types.TierDone
)

// LoadConfig reads and validates a board configuration. An empty path
// discovers .canvas/config.yaml upward from the working directory.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// NewProvider returns the workflow provider for a validated configuration:
// the kanban engine, or the checklist advisor.
func NewProvider(cfg *Config) Provider {
	return engine.NewProvider(cfg)
}

// InitBoard creates any missing tier files for a kanban configuration.
func InitBoard(cfg *Config) error {
	return engine.New(cfg).Init()
}

// IsRecoverable reports whether an operation failure is safe to retry or
// repair, per its fault envelope.
func IsRecoverable(err error) bool {
	return fault.IsRecoverable(err)
}
