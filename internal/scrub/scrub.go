// Package scrub projects a rich board record down to its lean archival shape.
//
// Scrubbing happens exactly once in a card's life, at the board→done move.
// It is deterministic and total given a record that already passed rich
// validation; its only failure mode is a missing title, which the done tier
// requires and which scrubbing must never synthesize.
package scrub

import (
	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Lean copies exactly the archival fields from a rich record into a new lean
// record. Every other rich field is dropped; that is the scrub invariant the
// done tier depends on.
func Lean(rich *types.RichCard) (*types.LeanCard, error) {
	if rich.Title == "" {
		return nil, fault.New(fault.ScrubMissingField, "card %s has no title; the done tier requires one", rich.SprintID).
			WithSub("title").
			WithHint("set a title on card %s (update %s --set title=<text>), then retry the archival", rich.SprintID, rich.SprintID)
	}
	return &types.LeanCard{
		SprintID:     rich.SprintID,
		Title:        rich.Title,
		PRURL:        rich.PRURL,
		CompletedAt:  rich.CompletedAt,
		ActualCycles: rich.ActualCycles,
	}, nil
}
