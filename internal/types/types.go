// Package types defines core data structures for the synaptic canvas board.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tier identifies one of the three storage arrays a card can live in.
type Tier string

const (
	TierBacklog Tier = "backlog"
	TierBoard   Tier = "board"
	TierDone    Tier = "done"
)

// IsValid checks if the tier value is valid.
func (t Tier) IsValid() bool {
	switch t {
	case TierBacklog, TierBoard, TierDone:
		return true
	}
	return false
}

// Tiers returns all tiers in canonical order.
func Tiers() []Tier {
	return []Tier{TierBacklog, TierBoard, TierDone}
}

// CardKind discriminates the two card shapes.
type CardKind string

const (
	KindLean CardKind = "lean" // backlog and done tiers
	KindRich CardKind = "rich" // board tier only
)

// KindForTier returns the card shape a tier holds.
func KindForTier(t Tier) CardKind {
	if t == TierBoard {
		return KindRich
	}
	return KindLean
}

// LeanCard is the archival/planning shape held in the backlog and done tiers.
// SprintID is an opaque token ("1.1", "2.3a") and is never parsed numerically.
type LeanCard struct {
	SprintID     string     `json:"sprint_id"`
	Title        string     `json:"title,omitempty"`        // required in done tier
	Dependencies []string   `json:"dependencies,omitempty"` // backlog only: ordered sprint_ids
	PRURL        string     `json:"pr_url,omitempty"`       // done only
	CompletedAt  *time.Time `json:"completed_at,omitempty"` // done only
	ActualCycles int        `json:"actual_cycles,omitempty"`
}

// RichCard is the in-flight shape held in the board tier. It carries every
// lean field plus execution metadata filled in as the card progresses.
type RichCard struct {
	SprintID           string     `json:"sprint_id"`
	Title              string     `json:"title,omitempty"`
	Dependencies       []string   `json:"dependencies,omitempty"`
	Worktree           string     `json:"worktree"`
	DevAgent           string     `json:"dev_agent,omitempty"`
	QAAgent            string     `json:"qa_agent,omitempty"`
	DevPrompt          string     `json:"dev_prompt,omitempty"`
	QAPrompt           string     `json:"qa_prompt,omitempty"`
	AcceptanceCriteria []string   `json:"acceptance_criteria,omitempty"`
	MaxRetries         int        `json:"max_retries,omitempty"`
	BaseBranch         string     `json:"base_branch,omitempty"`
	Status             Status     `json:"status"`
	PRURL              string     `json:"pr_url,omitempty"`
	StatusReport       string     `json:"status_report,omitempty"`
	ActualCycles       int        `json:"actual_cycles,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// Card is the tagged union over the two shapes. Exactly one of Lean/Rich is
// set, matching Kind.
type Card struct {
	Kind CardKind
	Lean *LeanCard
	Rich *RichCard
}

// NewLean wraps a lean record in the union.
func NewLean(l *LeanCard) Card {
	return Card{Kind: KindLean, Lean: l}
}

// NewRich wraps a rich record in the union.
func NewRich(r *RichCard) Card {
	return Card{Kind: KindRich, Rich: r}
}

// SprintID returns the card's identifier regardless of shape.
func (c Card) SprintID() string {
	if c.Kind == KindRich && c.Rich != nil {
		return c.Rich.SprintID
	}
	if c.Lean != nil {
		return c.Lean.SprintID
	}
	return ""
}

// Title returns the card's title regardless of shape.
func (c Card) Title() string {
	if c.Kind == KindRich && c.Rich != nil {
		return c.Rich.Title
	}
	if c.Lean != nil {
		return c.Lean.Title
	}
	return ""
}

// MarshalJSON flattens the union to the inner record, which is what the
// tier files and the CLI's --json output both carry. The shape is implied
// by the fields present.
func (c Card) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Kind == KindRich {
		return json.Marshal(c.Rich)
	}
	return json.Marshal(c.Lean)
}

// Validate checks the union is internally consistent (shape matches kind).
func (c Card) Validate() error {
	switch c.Kind {
	case KindLean:
		if c.Lean == nil || c.Rich != nil {
			return fmt.Errorf("lean card must carry exactly the lean shape")
		}
	case KindRich:
		if c.Rich == nil || c.Lean != nil {
			return fmt.Errorf("rich card must carry exactly the rich shape")
		}
	default:
		return fmt.Errorf("invalid card kind: %s", c.Kind)
	}
	if c.SprintID() == "" {
		return fmt.Errorf("sprint_id is required")
	}
	return nil
}

// Status represents a board column. "done" is a transient marker used only
// while a card is being scrubbed and moved into the done tier; no persisted
// board record holds it across operations.
type Status string

// Built-in column set.
const (
	StatusPlanned Status = "planned"
	StatusActive  Status = "active"
	StatusReview  Status = "review"
	StatusDone    Status = "done"
)

// StatusArchived is the terminal state exposed to callers. It is not a board
// column: transitioning to it removes the card from the board tier entirely.
const StatusArchived Status = "archived"

// IsValid checks if the status is a built-in column.
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusReview, StatusDone:
		return true
	}
	return false
}

// IsValidWithCustom checks if the status is valid, including a configured
// custom column set. An empty column set falls back to the built-ins.
func (s Status) IsValidWithCustom(columns []string) bool {
	if len(columns) == 0 {
		return s.IsValid()
	}
	for _, col := range columns {
		if string(s) == col {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status names the archival transition.
func (s Status) IsTerminal() bool {
	return s == StatusArchived || s == StatusDone
}

// Filter selects cards for read-only queries. Zero values match everything.
type Filter struct {
	SprintID string
	Status   Status
	Worktree string
	Tier     Tier // restrict to one tier; empty means all implied tiers
}

// Matches reports whether a card satisfies the filter. Status and Worktree
// only ever match rich cards; a filter naming either implies the board tier.
func (f Filter) Matches(c Card) bool {
	if f.SprintID != "" && c.SprintID() != f.SprintID {
		return false
	}
	if f.Status != "" {
		if c.Kind != KindRich || c.Rich.Status != f.Status {
			return false
		}
	}
	if f.Worktree != "" {
		if c.Kind != KindRich || c.Rich.Worktree != f.Worktree {
			return false
		}
	}
	return true
}

// ImpliedTiers returns the tiers a filter can match in canonical order.
func (f Filter) ImpliedTiers() []Tier {
	if f.Tier != "" {
		return []Tier{f.Tier}
	}
	if f.Status != "" || f.Worktree != "" {
		return []Tier{TierBoard}
	}
	return Tiers()
}
