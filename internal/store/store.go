// Package store provides durable read/write access to the three tier files.
//
// Each tier is a single JSON array on disk: backlog.json and done.json hold
// lean records, board.json holds rich records. The store preserves record
// order, writes atomically (temp file + rename), and surfaces consistency
// violations instead of hiding them. It never invents state: a missing tier
// file is an explicit STORE.NOT_FOUND until Init creates it.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/schema"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Store reads and writes the tier files for one board.
type Store struct {
	paths map[types.Tier]string
}

// New creates a store over the three configured tier file paths.
func New(backlog, board, done string) *Store {
	return &Store{paths: map[types.Tier]string{
		types.TierBacklog: backlog,
		types.TierBoard:   board,
		types.TierDone:    done,
	}}
}

// Path returns the configured file path for a tier.
func (s *Store) Path(tier types.Tier) string {
	return s.paths[tier]
}

// Init creates any missing tier files as empty JSON arrays. Existing files
// are left untouched.
func (s *Store) Init() error {
	for _, tier := range types.Tiers() {
		path := s.paths[tier]
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fault.Wrap(fault.StoreIO, err, fmt.Sprintf("checking %s tier", tier))
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fault.Wrap(fault.StoreIO, err, fmt.Sprintf("creating %s tier directory", tier))
			}
		}
		if err := s.Save(tier, nil); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the ordered records for a tier. A missing file is
// STORE.NOT_FOUND; a file that exists but is not a JSON array is STORE.IO.
func (s *Store) Load(tier types.Tier) ([]types.Card, error) {
	path := s.paths[tier]
	data, err := os.ReadFile(path) // #nosec G304 - path comes from validated config
	if os.IsNotExist(err) {
		return nil, fault.New(fault.StoreNotFound, "%s tier file %s does not exist", tier, path).
			WithSub(string(tier)).
			WithHint("run init to create the tier files")
	}
	if err != nil {
		return nil, fault.Wrap(fault.StoreIO, err, fmt.Sprintf("reading %s tier", tier))
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(data, &rawRecords); err != nil {
		return nil, fault.New(fault.StoreIO, "%s tier file %s is not a JSON array: %v", tier, path, err).
			WithSub(string(tier)).
			WithHint("restore %s from backup or re-run init after moving it aside", path)
	}

	cards := make([]types.Card, 0, len(rawRecords))
	for i, raw := range rawRecords {
		card, err := decodeForTier(raw, tier)
		if err != nil {
			return nil, fmt.Errorf("%s tier record %d: %w", tier, i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func decodeForTier(raw json.RawMessage, tier types.Tier) (types.Card, error) {
	if types.KindForTier(tier) == types.KindRich {
		rich, err := schema.DecodeRich(raw)
		if err != nil {
			return types.Card{}, err
		}
		return types.NewRich(rich), nil
	}
	lean, err := schema.DecodeLean(raw, tier)
	if err != nil {
		return types.Card{}, err
	}
	return types.NewLean(lean), nil
}

// Find returns the single record in a tier with the given sprint_id, or
// CARD.NOT_FOUND. The tier-exclusivity invariant guarantees at most one match
// inside a tier; a second match inside one file is a consistency violation.
func (s *Store) Find(tier types.Tier, sprintID string) (types.Card, error) {
	cards, err := s.Load(tier)
	if err != nil {
		return types.Card{}, err
	}
	var found *types.Card
	for i := range cards {
		if cards[i].SprintID() != sprintID {
			continue
		}
		if found != nil {
			return types.Card{}, duplicateFault(sprintID, tier, tier)
		}
		found = &cards[i]
	}
	if found == nil {
		return types.Card{}, notFound(sprintID)
	}
	return *found, nil
}

// Locate scans all tiers for a sprint_id and returns the tier holding it.
// If the id appears in more than one tier the store reports
// STORE.DUPLICATE_CARD rather than silently picking one.
func (s *Store) Locate(sprintID string) (types.Tier, types.Card, error) {
	var (
		foundTier types.Tier
		foundCard types.Card
		located   bool
	)
	for _, tier := range types.Tiers() {
		cards, err := s.Load(tier)
		if err != nil {
			return "", types.Card{}, err
		}
		for i := range cards {
			if cards[i].SprintID() != sprintID {
				continue
			}
			if located {
				return "", types.Card{}, duplicateFault(sprintID, foundTier, tier)
			}
			foundTier, foundCard, located = tier, cards[i], true
		}
	}
	if !located {
		return "", types.Card{}, notFound(sprintID)
	}
	return foundTier, foundCard, nil
}

// CheckExclusivity verifies the tier-exclusivity invariant across all three
// files, reporting the first sprint_id found in more than one tier.
func (s *Store) CheckExclusivity() error {
	seen := map[string]types.Tier{}
	for _, tier := range types.Tiers() {
		cards, err := s.Load(tier)
		if err != nil {
			return err
		}
		for _, card := range cards {
			id := card.SprintID()
			if prev, dup := seen[id]; dup {
				return duplicateFault(id, prev, tier)
			}
			seen[id] = tier
		}
	}
	return nil
}

// Save overwrites a tier file with the given records. The write goes to a
// temp file in the same directory and is renamed into place so a crash
// mid-write never leaves a truncated tier.
func (s *Store) Save(tier types.Tier, cards []types.Card) error {
	wantKind := types.KindForTier(tier)
	records := make([]interface{}, 0, len(cards))
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fault.Wrap(fault.SchemaWrongType, err, fmt.Sprintf("saving %s tier", tier))
		}
		if card.Kind != wantKind {
			return fault.New(fault.SchemaWrongType, "%s tier holds %s records, got %s card %s",
				tier, wantKind, card.Kind, card.SprintID())
		}
		if card.Kind == types.KindRich {
			records = append(records, card.Rich)
		} else {
			records = append(records, card.Lean)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fault.Wrap(fault.StoreIO, err, fmt.Sprintf("encoding %s tier", tier))
	}

	if err := writeAtomic(s.paths[tier], buf.Bytes()); err != nil {
		return fault.Wrap(fault.StoreIO, err, fmt.Sprintf("writing %s tier", tier))
	}
	return nil
}

func notFound(sprintID string) error {
	return fault.New(fault.CardNotFound, "no card with sprint_id %q", sprintID).
		WithHint("check the sprint_id with list; selectors are exact matches")
}

func duplicateFault(sprintID string, a, b types.Tier) error {
	if a == b {
		return fault.New(fault.StoreDuplicateCard, "sprint_id %q appears more than once in %s", sprintID, a).
			WithHint("remove the extra copy by hand; sprint_ids are unique within the board")
	}
	return fault.New(fault.StoreDuplicateCard, "sprint_id %q appears in both %s and %s", sprintID, a, b).
		WithHint("remove the stale copy by hand; a card may live in only one tier")
}
