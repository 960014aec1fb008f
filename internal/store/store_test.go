package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := New(
		filepath.Join(dir, "backlog.json"),
		filepath.Join(dir, "board.json"),
		filepath.Join(dir, "done.json"),
	)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	s := New(
		filepath.Join(dir, "backlog.json"),
		filepath.Join(dir, "board.json"),
		filepath.Join(dir, "done.json"),
	)
	_, err := s.Load(types.TierBacklog)
	if !fault.Is(err, fault.StoreNotFound) {
		t.Errorf("Load on missing file: err = %v, want STORE.NOT_FOUND", err)
	}
}

func TestInitCreatesEmptyArrays(t *testing.T) {
	s := newTestStore(t)
	for _, tier := range types.Tiers() {
		cards, err := s.Load(tier)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", tier, err)
		}
		if len(cards) != 0 {
			t.Errorf("Load(%s) = %d cards, want 0", tier, len(cards))
		}
	}
}

func TestInitLeavesExistingFiles(t *testing.T) {
	s := newTestStore(t)
	card := types.NewLean(&types.LeanCard{SprintID: "1.1", Title: "Setup"})
	if err := s.Save(types.TierBacklog, []types.Card{card}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	cards, err := s.Load(types.TierBacklog)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("Init clobbered existing backlog: %d cards", len(cards))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(types.TierBoard), []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.Load(types.TierBoard)
	if !fault.Is(err, fault.StoreIO) {
		t.Errorf("Load on corrupt file: err = %v, want STORE.IO", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	completed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	backlog := []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "2.1", Title: "Auth", Dependencies: []string{"1.1"}}),
		types.NewLean(&types.LeanCard{SprintID: "2.2"}),
	}
	board := []types.Card{
		types.NewRich(&types.RichCard{
			SprintID:           "1.2",
			Title:              "API",
			Worktree:           "main/1-2-api",
			DevAgent:           "dev-a",
			AcceptanceCriteria: []string{"handlers respond", "tests pass"},
			MaxRetries:         2,
			Status:             types.StatusActive,
		}),
	}
	done := []types.Card{
		types.NewLean(&types.LeanCard{
			SprintID:     "1.1",
			Title:        "Setup",
			PRURL:        "https://example.com/pr/1",
			CompletedAt:  &completed,
			ActualCycles: 2,
		}),
	}

	saves := map[types.Tier][]types.Card{
		types.TierBacklog: backlog,
		types.TierBoard:   board,
		types.TierDone:    done,
	}
	for tier, cards := range saves {
		if err := s.Save(tier, cards); err != nil {
			t.Fatalf("Save(%s) error = %v", tier, err)
		}
	}
	for tier, want := range saves {
		got, err := s.Load(tier)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", tier, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip mismatch for %s:\ngot  %+v\nwant %+v", tier, got, want)
		}
	}
}

func TestSaveRejectsWrongShape(t *testing.T) {
	s := newTestStore(t)
	rich := types.NewRich(&types.RichCard{SprintID: "1.1", Worktree: "main/1-1", Status: types.StatusPlanned})
	if err := s.Save(types.TierBacklog, []types.Card{rich}); !fault.Is(err, fault.SchemaWrongType) {
		t.Errorf("rich card into backlog: err = %v, want SCHEMA.WRONG_TYPE", err)
	}
	lean := types.NewLean(&types.LeanCard{SprintID: "1.1"})
	if err := s.Save(types.TierBoard, []types.Card{lean}); !fault.Is(err, fault.SchemaWrongType) {
		t.Errorf("lean card into board: err = %v, want SCHEMA.WRONG_TYPE", err)
	}
}

func TestSavePreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ids := []string{"3.1", "1.4", "2.2", "0.9"}
	cards := make([]types.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, types.NewLean(&types.LeanCard{SprintID: id}))
	}
	if err := s.Save(types.TierBacklog, cards); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(types.TierBacklog)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, id := range ids {
		if got[i].SprintID() != id {
			t.Errorf("position %d = %s, want %s", i, got[i].SprintID(), id)
		}
	}
}

func TestFind(t *testing.T) {
	s := newTestStore(t)
	cards := []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "1.1", Title: "Setup"}),
		types.NewLean(&types.LeanCard{SprintID: "1.2"}),
	}
	if err := s.Save(types.TierBacklog, cards); err != nil {
		t.Fatalf("Save: %v", err)
	}

	card, err := s.Find(types.TierBacklog, "1.1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if card.Title() != "Setup" {
		t.Errorf("Find returned wrong card: %+v", card)
	}

	if _, err := s.Find(types.TierBacklog, "9.9"); !fault.Is(err, fault.CardNotFound) {
		t.Errorf("Find missing: err = %v, want CARD.NOT_FOUND", err)
	}
}

func TestLocate(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(types.TierBacklog, []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "2.1"}),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(types.TierBoard, []types.Card{
		types.NewRich(&types.RichCard{SprintID: "1.1", Worktree: "main/1-1", Status: types.StatusActive}),
	}); err != nil {
		t.Fatal(err)
	}

	tier, card, err := s.Locate("1.1")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if tier != types.TierBoard || card.Kind != types.KindRich {
		t.Errorf("Locate = (%s, %s), want (board, rich)", tier, card.Kind)
	}

	if _, _, err := s.Locate("9.9"); !fault.Is(err, fault.CardNotFound) {
		t.Errorf("Locate missing: err = %v, want CARD.NOT_FOUND", err)
	}
}

func TestLocateReportsCrossTierDuplicate(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(types.TierBacklog, []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "1.1"}),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(types.TierBoard, []types.Card{
		types.NewRich(&types.RichCard{SprintID: "1.1", Worktree: "main/1-1", Status: types.StatusPlanned}),
	}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.Locate("1.1"); !fault.Is(err, fault.StoreDuplicateCard) {
		t.Errorf("Locate duplicate: err = %v, want STORE.DUPLICATE_CARD", err)
	}
	if err := s.CheckExclusivity(); !fault.Is(err, fault.StoreDuplicateCard) {
		t.Errorf("CheckExclusivity: err = %v, want STORE.DUPLICATE_CARD", err)
	}
}

func TestCheckExclusivityClean(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(types.TierBacklog, []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "2.1"}),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(types.TierDone, []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "1.1", Title: "Setup"}),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.CheckExclusivity(); err != nil {
		t.Errorf("CheckExclusivity on clean board: %v", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(types.TierBacklog, []types.Card{
		types.NewLean(&types.LeanCard{SprintID: "1.1"}),
	}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path(types.TierBacklog)))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if name := e.Name(); name != "backlog.json" && name != "board.json" && name != "done.json" {
			t.Errorf("unexpected file left behind: %s", name)
		}
	}
}
