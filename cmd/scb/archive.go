package main

import (
	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <sprint-id>",
	Short: "Archive a finished board card",
	Long: `Scrubs a board card back to its lean shape and moves it to the done
tier. Gates still apply: a card without a PR link will not archive.
Equivalent to moving the card to the terminal column.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sprintID := args[0]

		card, err := provider.Transition(sprintID, types.StatusArchived, nil)
		if err != nil {
			fail(err)
		}
		debug.LogEvent("archive", sprintID, "")

		if jsonOutput {
			outputJSON(card)
			return
		}
		debug.PrintNormal("%s archived %s\n", ui.RenderPass(ui.IconPass), ui.IDStyle.Render(sprintID))
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
