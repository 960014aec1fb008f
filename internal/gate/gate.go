// Package gate implements named precondition checks evaluated before a
// transition is allowed to commit.
//
// Gates are pure functions of (card, target status): they never mutate the
// card or touch storage, and a failed gate is always recoverable: the caller
// fixes the card's fields and retries the same transition. Gates express
// "not yet", never a permanent veto.
package gate

import (
	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Gate is a single named precondition.
type Gate struct {
	ID          string                                              // e.g. "pr_url_required"
	Description string                                              // human-readable purpose
	Applies     func(target types.Status) bool                      // which targets this gate guards
	Check       func(card *types.RichCard, target types.Status) error // nil = pass
}

// Registry holds an ordered list of gates. Order matters: the first failing
// gate wins, so cheaper and more fundamental checks go first.
type Registry struct {
	gates []Gate
}

// NewRegistry creates a registry with the given gates in evaluation order.
func NewRegistry(gates ...Gate) *Registry {
	return &Registry{gates: gates}
}

// Register appends a gate to the evaluation order.
func (r *Registry) Register(g Gate) {
	r.gates = append(r.gates, g)
}

// Gates returns the gates in evaluation order.
func (r *Registry) Gates() []Gate {
	return r.gates
}

// Evaluate runs every applicable gate against the card for the target status
// and returns the first failure, or nil if all gates pass.
func (r *Registry) Evaluate(card *types.RichCard, target types.Status) error {
	for _, g := range r.gates {
		if g.Applies != nil && !g.Applies(target) {
			continue
		}
		if err := g.Check(card, target); err != nil {
			return err
		}
	}
	return nil
}

// Builtin returns the registry of gates every kanban board ships with.
func Builtin() *Registry {
	return NewRegistry(PRURLRequired())
}

// PRURLRequired fails a transition into review or the terminal state unless
// the card carries a non-empty pr_url.
func PRURLRequired() Gate {
	return Gate{
		ID:          "pr_url_required",
		Description: "review and archival require an associated pull request",
		Applies: func(target types.Status) bool {
			return target == types.StatusReview || target.IsTerminal()
		},
		Check: func(card *types.RichCard, target types.Status) error {
			if card.PRURL != "" {
				return nil
			}
			return fault.New(fault.GateValidation, "card %s has no pr_url; %s requires one", card.SprintID, target).
				WithSub("pr_url_missing").
				WithHint("add pr_url to card %s (update %s --set pr_url=<url>), then retry the transition", card.SprintID, card.SprintID)
		},
	}
}
