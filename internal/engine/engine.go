// Package engine orchestrates the card lifecycle across the three tiers.
//
// The engine is the only component that mutates store state, and every
// operation is all-or-nothing from the caller's perspective: validation,
// gates, and WIP checks all run before the first write, so a rejected
// transition leaves every tier file exactly as it was. Operations are
// synchronous and single-writer; an advisory file lock serializes
// cooperating processes.
package engine

import (
	"encoding/json"
	"time"

	"github.com/randlee/synaptic-canvas-sub004/internal/config"
	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/gate"
	"github.com/randlee/synaptic-canvas-sub004/internal/lockfile"
	"github.com/randlee/synaptic-canvas-sub004/internal/schema"
	"github.com/randlee/synaptic-canvas-sub004/internal/scrub"
	"github.com/randlee/synaptic-canvas-sub004/internal/store"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/wip"
)

// DefaultLockTimeout bounds how long an operation waits for the board lock.
const DefaultLockTimeout = 5 * time.Second

// Provider is the workflow seam selected once at configuration-load time.
// The kanban Engine is the real implementation; the checklist advisor only
// redirects callers.
type Provider interface {
	Create(card types.Card, status types.Status) (types.Card, error)
	Transition(sprintID string, target types.Status, expand *ExpandFields) (types.Card, error)
	Update(sprintID string, patch map[string]interface{}) (types.Card, error)
	Query(filter types.Filter) ([]types.Card, error)
}

// NewProvider selects the provider implementation for a validated config.
func NewProvider(cfg *config.Config) Provider {
	if cfg.Provider == config.ProviderChecklist {
		return ChecklistAdvisor{}
	}
	return New(cfg)
}

// ExpandFields carries the rich fields a caller supplies when expanding a
// backlog card onto the board.
type ExpandFields struct {
	Title              string // optional: overrides the backlog title
	Worktree           string
	DevAgent           string
	QAAgent            string
	DevPrompt          string
	QAPrompt           string
	AcceptanceCriteria []string
	MaxRetries         int
	BaseBranch         string
}

// Engine is the kanban provider.
type Engine struct {
	cfg     *config.Config
	store   *store.Store
	gates   *gate.Registry
	limiter *wip.Limiter

	lockTimeout time.Duration
	now         func() time.Time // injectable for deterministic tests
}

// New creates the engine over a validated kanban configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:         cfg,
		store:       store.New(cfg.Tiers.Backlog, cfg.Tiers.Board, cfg.Tiers.Done),
		gates:       gate.Builtin(),
		limiter:     wip.New(cfg.WIPLimits),
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
	}
}

// Store exposes the underlying store for read-only callers (init, doctor).
func (e *Engine) Store() *store.Store {
	return e.store
}

// Init creates any missing tier files.
func (e *Engine) Init() error {
	lock, err := lockfile.Acquire(e.cfg.LockPath(), e.lockTimeout)
	if err != nil {
		return err
	}
	defer lock.Release()
	return e.store.Init()
}

// Create inserts a new card: lean into the backlog, or rich directly onto
// the board at the given status (defaulting to the first column). The
// sprint_id must be unique across the whole board.
func (e *Engine) Create(card types.Card, status types.Status) (types.Card, error) {
	lock, err := lockfile.Acquire(e.cfg.LockPath(), e.lockTimeout)
	if err != nil {
		return types.Card{}, err
	}
	defer lock.Release()

	if err := card.Validate(); err != nil {
		return types.Card{}, fault.Wrap(fault.SchemaWrongType, err, "creating card")
	}
	if tier, _, err := e.store.Locate(card.SprintID()); err == nil {
		f := fault.New(fault.StoreDuplicateCard, "card %q already exists in %s", card.SprintID(), tier).
			WithHint("pick an unused sprint_id; they are unique across the whole board")
		f.Recoverable = true
		return types.Card{}, f
	} else if !fault.Is(err, fault.CardNotFound) {
		return types.Card{}, err
	}

	if card.Kind == types.KindLean {
		if err := e.revalidateLean(card.Lean, types.TierBacklog); err != nil {
			return types.Card{}, err
		}
		backlog, err := e.store.Load(types.TierBacklog)
		if err != nil {
			return types.Card{}, err
		}
		backlog = append(backlog, card)
		if err := e.store.Save(types.TierBacklog, backlog); err != nil {
			return types.Card{}, err
		}
		debug.Logf("created backlog card %s\n", card.SprintID())
		return card, nil
	}

	if status == "" {
		status = e.firstColumn()
	}
	if e.isTerminal(status) {
		return types.Card{}, fault.New(fault.GateValidation, "card %s cannot be created already archived", card.SprintID()).
			WithSub("not_on_board").
			WithHint("create card %s on a board column and finish it before archiving", card.SprintID())
	}
	card.Rich.Status = status
	return e.enterBoard(card.Rich, status, nil)
}

// Transition moves a card to the named target status. The engine never
// infers "next": callers name the exact target. A backlog card with expand
// fields is expanded onto the board; a board card moves in place; the
// configured terminal status scrubs and archives.
func (e *Engine) Transition(sprintID string, target types.Status, expand *ExpandFields) (types.Card, error) {
	lock, err := lockfile.Acquire(e.cfg.LockPath(), e.lockTimeout)
	if err != nil {
		return types.Card{}, err
	}
	defer lock.Release()

	tier, card, err := e.store.Locate(sprintID)
	if err != nil {
		return types.Card{}, err
	}

	switch tier {
	case types.TierDone:
		return types.Card{}, fault.New(fault.CardNotFound, "card %s is archived; archived cards do not transition", sprintID).
			WithHint("archived cards are terminal; create a new card for follow-up work")
	case types.TierBacklog:
		return e.expand(card.Lean, target, expand)
	default:
		if expand != nil {
			return types.Card{}, fault.New(fault.SchemaUnknownField, "card %s is already on the board; expansion fields are not accepted", sprintID).
				WithSub("expand").
				WithHint("use update to change fields on a board card")
		}
		return e.advance(card.Rich, target)
	}
}

// expand moves a backlog card onto the board with caller-supplied rich
// fields. Entry at the first column skips gates and WIP: planning is not
// yet in-progress work. Entry directly at a later column is forward
// progress and is gated and limited like any other move.
func (e *Engine) expand(lean *types.LeanCard, target types.Status, expand *ExpandFields) (types.Card, error) {
	if e.isTerminal(target) {
		return types.Card{}, fault.New(fault.GateValidation, "card %s is still in the backlog and cannot be archived", lean.SprintID).
			WithSub("not_on_board").
			WithHint("expand card %s onto the board and finish it before archiving", lean.SprintID)
	}
	if !e.isColumn(target) {
		return types.Card{}, e.unknownStatus(target)
	}
	if expand == nil || expand.Worktree == "" {
		return types.Card{}, fault.New(fault.SchemaMissingField, "expanding card %s requires the rich fields, at minimum a worktree", lean.SprintID).
			WithSub("worktree").
			WithHint("supply --worktree (and any other rich fields) when expanding")
	}

	rich := &types.RichCard{
		SprintID:           lean.SprintID,
		Title:              lean.Title,
		Dependencies:       lean.Dependencies,
		Worktree:           expand.Worktree,
		DevAgent:           expand.DevAgent,
		QAAgent:            expand.QAAgent,
		DevPrompt:          expand.DevPrompt,
		QAPrompt:           expand.QAPrompt,
		AcceptanceCriteria: expand.AcceptanceCriteria,
		MaxRetries:         expand.MaxRetries,
		BaseBranch:         expand.BaseBranch,
		Status:             target,
	}
	if expand.Title != "" {
		rich.Title = expand.Title
	}

	return e.enterBoard(rich, target, func() error {
		// Expansion deletes the backlog entry in the same logical operation.
		backlog, err := e.store.Load(types.TierBacklog)
		if err != nil {
			return err
		}
		backlog = removeCard(backlog, rich.SprintID)
		return e.store.Save(types.TierBacklog, backlog)
	})
}

// enterBoard validates a rich record and appends it to the board tier.
// after, when non-nil, runs once the board save succeeded (removing the
// source entry of a cross-tier move). Writes are ordered add-then-remove:
// a crash between them leaves a detectable duplicate, never a lost card.
func (e *Engine) enterBoard(rich *types.RichCard, target types.Status, after func() error) (types.Card, error) {
	if err := e.revalidateRich(rich); err != nil {
		return types.Card{}, err
	}

	board, err := e.store.Load(types.TierBoard)
	if err != nil {
		return types.Card{}, err
	}

	if target != e.firstColumn() {
		if err := e.gates.Evaluate(rich, target); err != nil {
			return types.Card{}, err
		}
		if err := e.limiter.Check(target, wip.Occupancy(board, target, rich.SprintID)); err != nil {
			return types.Card{}, err
		}
		e.stamp(rich, target)
	}

	card := types.NewRich(rich)
	board = append(board, card)
	if err := e.store.Save(types.TierBoard, board); err != nil {
		return types.Card{}, err
	}
	if after != nil {
		if err := after(); err != nil {
			return types.Card{}, err
		}
	}
	debug.Logf("card %s entered board at %s\n", rich.SprintID, target)
	return card, nil
}

// advance moves a board card in place, or archives it when the target is
// terminal. Gates run before the WIP check so a gated card never consumes
// WIP error budget.
func (e *Engine) advance(rich *types.RichCard, target types.Status) (types.Card, error) {
	if e.isTerminal(target) {
		return e.archive(rich)
	}
	if !e.isColumn(target) {
		return types.Card{}, e.unknownStatus(target)
	}

	if err := e.gates.Evaluate(rich, target); err != nil {
		return types.Card{}, err
	}

	board, err := e.store.Load(types.TierBoard)
	if err != nil {
		return types.Card{}, err
	}
	if err := e.limiter.Check(target, wip.Occupancy(board, target, rich.SprintID)); err != nil {
		return types.Card{}, err
	}

	updated := *rich
	updated.Status = target
	e.stamp(&updated, target)

	card := types.NewRich(&updated)
	if err := e.store.Save(types.TierBoard, replaceCard(board, card)); err != nil {
		return types.Card{}, err
	}
	debug.Logf("card %s moved to %s\n", updated.SprintID, target)
	return card, nil
}

// archive scrubs a board card to its lean shape and moves it to the done
// tier. The done append happens before the board delete; a crash between
// the two writes leaves a duplicate the store reports on next load, which
// the design prefers over silently losing the card.
func (e *Engine) archive(rich *types.RichCard) (types.Card, error) {
	if err := e.gates.Evaluate(rich, types.StatusArchived); err != nil {
		return types.Card{}, err
	}

	scrubbed := *rich
	if scrubbed.CompletedAt == nil {
		now := e.now().UTC()
		scrubbed.CompletedAt = &now
	}
	lean, err := scrub.Lean(&scrubbed)
	if err != nil {
		return types.Card{}, err
	}

	done, err := e.store.Load(types.TierDone)
	if err != nil {
		return types.Card{}, err
	}
	board, err := e.store.Load(types.TierBoard)
	if err != nil {
		return types.Card{}, err
	}

	card := types.NewLean(lean)
	done = append(done, card)
	if err := e.store.Save(types.TierDone, done); err != nil {
		return types.Card{}, err
	}
	if err := e.store.Save(types.TierBoard, removeCard(board, rich.SprintID)); err != nil {
		return types.Card{}, err
	}
	debug.Logf("card %s archived\n", rich.SprintID)
	return card, nil
}

// Update merges caller-supplied fields into a card without changing its
// status. No gates or WIP checks run; those belong to Transition.
func (e *Engine) Update(sprintID string, patch map[string]interface{}) (types.Card, error) {
	lock, err := lockfile.Acquire(e.cfg.LockPath(), e.lockTimeout)
	if err != nil {
		return types.Card{}, err
	}
	defer lock.Release()

	tier, card, err := e.store.Locate(sprintID)
	if err != nil {
		return types.Card{}, err
	}

	var updated types.Card
	if card.Kind == types.KindRich {
		rich := *card.Rich
		if err := schema.PatchRich(&rich, patch); err != nil {
			return types.Card{}, err
		}
		if err := e.revalidateRich(&rich); err != nil {
			return types.Card{}, err
		}
		updated = types.NewRich(&rich)
	} else {
		lean := *card.Lean
		if err := schema.PatchLean(&lean, patch); err != nil {
			return types.Card{}, err
		}
		if err := e.revalidateLean(&lean, tier); err != nil {
			return types.Card{}, err
		}
		updated = types.NewLean(&lean)
	}

	records, err := e.store.Load(tier)
	if err != nil {
		return types.Card{}, err
	}
	if err := e.store.Save(tier, replaceCard(records, updated)); err != nil {
		return types.Card{}, err
	}
	debug.Logf("card %s updated in %s\n", sprintID, tier)
	return updated, nil
}

// Query returns the cards matching the filter from whichever tiers it
// implies. Query never mutates and never takes the board lock: tier saves
// are atomic renames, so reads always see a complete array.
func (e *Engine) Query(filter types.Filter) ([]types.Card, error) {
	var results []types.Card
	for _, tier := range filter.ImpliedTiers() {
		cards, err := e.store.Load(tier)
		if err != nil {
			return nil, err
		}
		for _, card := range cards {
			if filter.Matches(card) {
				results = append(results, card)
			}
		}
	}
	return results, nil
}

// stamp applies the lifecycle timestamps: started_at on first entry to
// active, completed_at on entry to review or the terminal state.
func (e *Engine) stamp(rich *types.RichCard, target types.Status) {
	switch {
	case target == types.StatusActive && rich.StartedAt == nil:
		now := e.now().UTC()
		rich.StartedAt = &now
	case (target == types.StatusReview || e.isTerminal(target)) && rich.CompletedAt == nil:
		now := e.now().UTC()
		rich.CompletedAt = &now
	}
}

func (e *Engine) firstColumn() types.Status {
	return types.Status(e.cfg.Columns[0])
}

// isTerminal reports whether the target names the archival transition:
// either the configured terminal column or the canonical "archived".
func (e *Engine) isTerminal(target types.Status) bool {
	return string(target) == e.cfg.Terminal || target == types.StatusArchived
}

// isColumn reports whether the target is a configured non-terminal column.
func (e *Engine) isColumn(target types.Status) bool {
	if e.isTerminal(target) {
		return false
	}
	return target.IsValidWithCustom(e.cfg.Columns)
}

func (e *Engine) unknownStatus(target types.Status) error {
	return fault.New(fault.SchemaWrongType, "unknown target status %q", target).
		WithSub("status").
		WithHint("valid targets are the configured columns plus %q", e.cfg.Terminal)
}

// revalidateRich round-trips a rich record through the closed schema so
// every write path enforces the same rules as a load. A persisted board
// record must sit at a non-terminal column: terminal statuses only exist
// transiently inside the archival path, which never writes them back.
func (e *Engine) revalidateRich(rich *types.RichCard) error {
	data, err := json.Marshal(rich)
	if err != nil {
		return fault.Wrap(fault.SchemaWrongType, err, "encoding rich record")
	}
	if _, err := schema.DecodeRich(data); err != nil {
		return err
	}
	if rich.Status == "" || !e.isColumn(rich.Status) {
		return e.unknownStatus(rich.Status)
	}
	return nil
}

func (e *Engine) revalidateLean(lean *types.LeanCard, tier types.Tier) error {
	data, err := json.Marshal(lean)
	if err != nil {
		return fault.Wrap(fault.SchemaWrongType, err, "encoding lean record")
	}
	_, err = schema.DecodeLean(data, tier)
	return err
}

// removeCard drops the record with the given sprint_id, preserving order.
func removeCard(cards []types.Card, sprintID string) []types.Card {
	out := cards[:0]
	for _, card := range cards {
		if card.SprintID() != sprintID {
			out = append(out, card)
		}
	}
	return out
}

// replaceCard swaps the record with the matching sprint_id in place,
// preserving the order of untouched records.
func replaceCard(cards []types.Card, updated types.Card) []types.Card {
	for i := range cards {
		if cards[i].SprintID() == updated.SprintID() {
			cards[i] = updated
			return cards
		}
	}
	return append(cards, updated)
}
