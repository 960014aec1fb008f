package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/fault"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var showNoPager bool

var showCmd = &cobra.Command{
	Use:   "show <sprint-id>",
	Short: "Show a card in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sprintID := args[0]

		cards, err := provider.Query(types.Filter{SprintID: sprintID})
		if err != nil {
			fail(err)
		}
		if len(cards) == 0 {
			fail(fault.New(fault.CardNotFound, "no card with sprint_id %q", sprintID))
		}
		card := cards[0]

		if jsonOutput {
			outputJSON(card)
			return
		}
		rendered := ui.RenderMarkdown(cardMarkdown(card))
		if err := ui.ToPager(rendered, ui.PagerOptions{NoPager: showNoPager}); err != nil {
			fail(err)
		}
	},
}

// cardMarkdown lays a card out as a markdown document for terminal
// rendering.
func cardMarkdown(card types.Card) string {
	var b strings.Builder
	title := card.Title()
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s: %s\n\n", card.SprintID(), title)

	if card.Kind == types.KindLean {
		lean := card.Lean
		writeField(&b, "Dependencies", strings.Join(lean.Dependencies, ", "))
		writeField(&b, "PR", lean.PRURL)
		writeTimeField(&b, "Completed", lean.CompletedAt)
		if lean.ActualCycles > 0 {
			writeField(&b, "Cycles", fmt.Sprintf("%d", lean.ActualCycles))
		}
		return b.String()
	}

	rich := card.Rich
	writeField(&b, "Status", string(rich.Status))
	writeField(&b, "Worktree", rich.Worktree)
	writeField(&b, "Base branch", rich.BaseBranch)
	writeField(&b, "Dependencies", strings.Join(rich.Dependencies, ", "))
	writeField(&b, "Dev agent", rich.DevAgent)
	writeField(&b, "QA agent", rich.QAAgent)
	writeField(&b, "PR", rich.PRURL)
	writeTimeField(&b, "Started", rich.StartedAt)
	writeTimeField(&b, "Completed", rich.CompletedAt)
	if rich.MaxRetries > 0 {
		writeField(&b, "Max retries", fmt.Sprintf("%d", rich.MaxRetries))
	}

	if len(rich.AcceptanceCriteria) > 0 {
		b.WriteString("\n## Acceptance criteria\n\n")
		for _, criterion := range rich.AcceptanceCriteria {
			fmt.Fprintf(&b, "- %s\n", criterion)
		}
	}
	if rich.DevPrompt != "" {
		fmt.Fprintf(&b, "\n## Dev prompt\n\n%s\n", rich.DevPrompt)
	}
	if rich.QAPrompt != "" {
		fmt.Fprintf(&b, "\n## QA prompt\n\n%s\n", rich.QAPrompt)
	}
	if rich.StatusReport != "" {
		fmt.Fprintf(&b, "\n## Status report\n\n%s\n", rich.StatusReport)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- **%s:** %s\n", label, value)
	}
}

func writeTimeField(b *strings.Builder, label string, t *time.Time) {
	if t != nil {
		fmt.Fprintf(b, "- **%s:** %s\n", label, t.Format(time.RFC3339))
	}
}

func init() {
	showCmd.Flags().BoolVar(&showNoPager, "no-pager", false, "print directly without the pager")
	rootCmd.AddCommand(showCmd)
}
