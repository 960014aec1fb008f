package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var listFlags struct {
	status   string
	worktree string
	tier     string
	watch    bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards across the tiers",
	Long: `Lists cards, optionally filtered. --status and --worktree only ever
match board cards, so either implies --tier board. --watch re-renders
whenever the tier files change.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter := types.Filter{
			Status:   types.Status(listFlags.status),
			Worktree: listFlags.worktree,
			Tier:     types.Tier(listFlags.tier),
		}
		if filter.Tier != "" && !filter.Tier.IsValid() {
			fail(fmt.Errorf("unknown tier %q (backlog, board, done)", listFlags.tier))
		}

		if listFlags.watch {
			watchCards(filter)
			return
		}

		if jsonOutput {
			cards, err := provider.Query(filter)
			if err != nil {
				fail(err)
			}
			outputJSON(cards)
			return
		}
		out, err := renderCardList(filter)
		if err != nil {
			fail(err)
		}
		fmt.Print(out)
	},
}

// renderCardList lays the cards out one per line, grouped by tier. Each
// tier is queried separately so the grouping reflects where a card
// actually lives.
func renderCardList(filter types.Filter) (string, error) {
	var b strings.Builder
	total := 0
	for _, tier := range filter.ImpliedTiers() {
		tierFilter := filter
		tierFilter.Tier = tier
		cards, err := provider.Query(tierFilter)
		if err != nil {
			return "", err
		}
		if len(cards) == 0 {
			continue
		}
		total += len(cards)
		b.WriteString(ui.RenderHeader(string(tier)))
		b.WriteString("\n")
		for _, card := range cards {
			b.WriteString(renderCardLine(card))
			b.WriteString("\n")
		}
	}
	if total == 0 {
		return ui.RenderMuted("no cards match") + "\n", nil
	}
	return b.String(), nil
}

func renderCardLine(card types.Card) string {
	id := ui.IDStyle.Render(fmt.Sprintf("%-8s", card.SprintID()))
	title := ui.TruncateSimple(card.Title(), 50)
	if card.Kind == types.KindRich {
		return fmt.Sprintf("  %s %-10s %s %s",
			id, ui.RenderStatus(card.Rich.Status), title, ui.RenderMuted(card.Rich.Worktree))
	}
	line := fmt.Sprintf("  %s %s", id, title)
	if deps := card.Lean.Dependencies; len(deps) > 0 {
		line += " " + ui.RenderMuted("deps: "+strings.Join(deps, ", "))
	}
	return line
}

// watchCards re-renders the list whenever a tier file is rewritten.
// Saves are atomic renames, so Create events fire alongside Writes.
func watchCards(filter types.Filter) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fail(err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, tier := range types.Tiers() {
		path := cfg.TierPath(tier)
		watched[filepath.Base(path)] = true
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			fail(err)
		}
	}

	render := func() {
		out, err := renderCardList(filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing cards: %v\n", err)
			return
		}
		fmt.Print("\033[2J\033[H")
		fmt.Print(out)
		fmt.Fprintf(os.Stderr, "\nWatching for changes... (Press Ctrl+C to exit)\n")
	}
	render()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Debounce: a transition touches two tier files back to back.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\nStopped watching.\n")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !watched[filepath.Base(event.Name)] {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, render)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.status, "status", "s", "", "filter by board column")
	listCmd.Flags().StringVarP(&listFlags.worktree, "worktree", "w", "", "filter by worktree")
	listCmd.Flags().StringVar(&listFlags.tier, "tier", "", "restrict to one tier (backlog, board, done)")
	listCmd.Flags().BoolVar(&listFlags.watch, "watch", false, "re-render on changes")
	rootCmd.AddCommand(listCmd)
}
