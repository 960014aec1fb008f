package scrub

import (
	"reflect"
	"testing"
	"time"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

func TestLeanDropsRichFields(t *testing.T) {
	completed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	started := completed.Add(-48 * time.Hour)

	rich := &types.RichCard{
		SprintID:           "1.1",
		Title:              "Setup",
		Dependencies:       []string{"0.9"},
		Worktree:           "main/1-1-setup",
		DevAgent:           "dev-a",
		QAAgent:            "qa-b",
		DevPrompt:          "build the scaffolding",
		QAPrompt:           "verify the scaffolding",
		AcceptanceCriteria: []string{"compiles"},
		MaxRetries:         2,
		BaseBranch:         "main",
		Status:             types.StatusDone,
		PRURL:              "https://example.com/pr/42",
		StatusReport:       "all green",
		ActualCycles:       3,
		StartedAt:          &started,
		CompletedAt:        &completed,
	}

	lean, err := Lean(rich)
	if err != nil {
		t.Fatalf("Lean() error = %v", err)
	}

	want := &types.LeanCard{
		SprintID:     "1.1",
		Title:        "Setup",
		PRURL:        "https://example.com/pr/42",
		CompletedAt:  &completed,
		ActualCycles: 3,
	}
	if !reflect.DeepEqual(lean, want) {
		t.Errorf("Lean() = %+v, want %+v", lean, want)
	}
	// Dependencies are a backlog-only field and must not survive archival.
	if lean.Dependencies != nil {
		t.Errorf("dependencies leaked through scrub: %v", lean.Dependencies)
	}
}

func TestLeanRequiresTitle(t *testing.T) {
	rich := &types.RichCard{
		SprintID: "1.1",
		Worktree: "main/1-1-setup",
		Status:   types.StatusReview,
		PRURL:    "https://example.com/pr/42",
	}
	_, err := Lean(rich)
	f, ok := fault.As(err)
	if !ok || f.Code != fault.ScrubMissingField {
		t.Fatalf("Lean() error = %v, want SCRUB.MISSING_FIELD", err)
	}
	if f.Sub != "title" {
		t.Errorf("sub = %q, want title", f.Sub)
	}
	if !f.Recoverable {
		t.Error("scrub faults are recoverable by fixing the card")
	}
}

func TestLeanIdempotentOnLeanShape(t *testing.T) {
	// A rich card that only carries lean fields scrubs to exactly those
	// fields: scrubbing an already lean-shaped record changes nothing.
	completed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	rich := &types.RichCard{
		SprintID:     "1.1",
		Title:        "Setup",
		Worktree:     "main/1-1-setup",
		PRURL:        "https://example.com/pr/42",
		CompletedAt:  &completed,
		ActualCycles: 2,
	}

	first, err := Lean(rich)
	if err != nil {
		t.Fatalf("first Lean() error = %v", err)
	}

	again := &types.RichCard{
		SprintID:     first.SprintID,
		Title:        first.Title,
		Worktree:     rich.Worktree,
		PRURL:        first.PRURL,
		CompletedAt:  first.CompletedAt,
		ActualCycles: first.ActualCycles,
	}
	second, err := Lean(again)
	if err != nil {
		t.Fatalf("second Lean() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scrub not idempotent: %+v != %+v", first, second)
	}
}
