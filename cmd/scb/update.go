package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/timeparsing"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var updateFlags struct {
	sets        []string
	completedAt string
	startedAt   string
}

var updateCmd = &cobra.Command{
	Use:   "update <sprint-id>",
	Short: "Update fields on a card in place",
	Long: `Merges field changes into a card without moving it. Fields are named
by their JSON keys (--set pr_url=https://...). Timestamps accept
relative expressions: --completed-at "yesterday", --started-at "-2h".
sprint_id and status cannot be updated; status changes go through
move.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sprintID := args[0]

		patch := make(map[string]interface{}, len(updateFlags.sets)+2)
		for _, set := range updateFlags.sets {
			key, raw, ok := strings.Cut(set, "=")
			if !ok {
				fail(fmt.Errorf("--set expects key=value, got %q", set))
			}
			patch[key] = coerceValue(raw)
		}
		if updateFlags.completedAt != "" {
			ts, err := timeparsing.ParseRelativeTime(updateFlags.completedAt, time.Now())
			if err != nil {
				fail(err)
			}
			patch["completed_at"] = ts
		}
		if updateFlags.startedAt != "" {
			ts, err := timeparsing.ParseRelativeTime(updateFlags.startedAt, time.Now())
			if err != nil {
				fail(err)
			}
			patch["started_at"] = ts
		}
		if len(patch) == 0 {
			fail(fmt.Errorf("nothing to update; pass --set key=value"))
		}

		card, err := provider.Update(sprintID, patch)
		if err != nil {
			fail(err)
		}
		debug.LogEvent("update", sprintID, strings.Join(patchKeys(patch), ","))

		if jsonOutput {
			outputJSON(card)
			return
		}
		debug.PrintNormal("%s updated %s (%s)\n",
			ui.RenderPass(ui.IconPass), ui.IDStyle.Render(sprintID), strings.Join(patchKeys(patch), ", "))
	},
}

// coerceValue maps flag text onto the patch value shapes the card schema
// accepts: integers stay integers, comma lists become string lists,
// everything else passes through as a string.
func coerceValue(raw string) interface{} {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if strings.Contains(raw, ",") {
		var list []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		return list
	}
	return raw
}

func patchKeys(patch map[string]interface{}) []string {
	keys := make([]string, 0, len(patch))
	for key := range patch {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	updateCmd.Flags().StringArrayVar(&updateFlags.sets, "set", nil, "field change as key=value (repeatable)")
	updateCmd.Flags().StringVar(&updateFlags.completedAt, "completed-at", "", "completion time (RFC3339, +6h, or natural language)")
	updateCmd.Flags().StringVar(&updateFlags.startedAt, "started-at", "", "start time (RFC3339, +6h, or natural language)")
	rootCmd.AddCommand(updateCmd)
}
