package main

import (
	"strings"
	"testing"
	"time"

	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

func TestCardMarkdownRich(t *testing.T) {
	started := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	card := types.NewRich(&types.RichCard{
		SprintID:           "2.1",
		Title:              "Auth",
		Worktree:           "main/2-1-auth",
		Status:             types.StatusActive,
		StartedAt:          &started,
		AcceptanceCriteria: []string{"login works", "tokens rotate"},
		DevPrompt:          "Implement the login handler.",
	})

	md := cardMarkdown(card)
	for _, want := range []string{
		"# 2.1: Auth",
		"**Status:** active",
		"**Worktree:** main/2-1-auth",
		"## Acceptance criteria",
		"- login works",
		"## Dev prompt",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "QA prompt") {
		t.Error("empty sections should be omitted")
	}
}

func TestCardMarkdownLean(t *testing.T) {
	card := types.NewLean(&types.LeanCard{SprintID: "1.1"})
	md := cardMarkdown(card)
	if !strings.Contains(md, "(untitled)") {
		t.Errorf("untitled card: %s", md)
	}
}
