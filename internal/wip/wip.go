// Package wip enforces per-column work-in-progress limits on the board tier.
//
// A limit bounds the count of rich cards whose status equals that column, not
// the total board size. Limits never evict: lowering a limit below current
// occupancy only blocks new entries until occupancy naturally drops.
package wip

import (
	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Limiter holds the configured column limits. A missing or zero-or-less
// limit means the column is unbounded.
type Limiter struct {
	limits map[string]int
}

// New creates a limiter from the configured column → limit map.
func New(limits map[string]int) *Limiter {
	return &Limiter{limits: limits}
}

// Limit returns the configured limit for a column and whether it is bounded.
func (l *Limiter) Limit(column types.Status) (int, bool) {
	limit, ok := l.limits[string(column)]
	if !ok || limit <= 0 {
		return 0, false
	}
	return limit, true
}

// Check admits a card into a column given the occupancy excluding the card
// itself. Excluding self makes re-entry into the card's current column
// idempotent. Returns WIP.EXCEEDED carrying limit and occupancy on failure.
func (l *Limiter) Check(column types.Status, occupancyExcludingSelf int) error {
	limit, bounded := l.Limit(column)
	if !bounded {
		return nil
	}
	if occupancyExcludingSelf < limit {
		return nil
	}
	return fault.New(fault.WIPExceeded, "column %q is at its WIP limit (%d/%d)", column, occupancyExcludingSelf, limit).
		WithSub(string(column)).
		WithHint("complete or move an existing %s card first, or raise the configured limit", column)
}

// Occupancy counts the board cards currently at a column, excluding the card
// with excludeID (the one being transitioned) if present.
func Occupancy(board []types.Card, column types.Status, excludeID string) int {
	count := 0
	for _, card := range board {
		if card.Kind != types.KindRich {
			continue
		}
		if card.Rich.Status != column {
			continue
		}
		if card.Rich.SprintID == excludeID {
			continue
		}
		count++
	}
	return count
}
