package main

import (
	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move <sprint-id> <status>",
	Short: "Move a board card to a column",
	Long: `Moves a board card to the named column. Gates run first, then the
target column's WIP limit. Moving to the terminal column archives the
card (see also: scb archive).`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sprintID, target := args[0], types.Status(args[1])

		card, err := provider.Transition(sprintID, target, nil)
		if err != nil {
			fail(err)
		}
		debug.LogEvent("transition", sprintID, string(target))

		if jsonOutput {
			outputJSON(card)
			return
		}
		if card.Kind == types.KindLean {
			debug.PrintNormal("%s archived %s\n", ui.RenderPass(ui.IconPass), ui.IDStyle.Render(sprintID))
			return
		}
		debug.PrintNormal("%s moved %s to %s\n",
			ui.RenderPass(ui.IconPass), ui.IDStyle.Render(sprintID), ui.RenderStatus(target))
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
