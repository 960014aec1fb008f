package main

import (
	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var createFlags struct {
	title    string
	deps     []string
	worktree string
	devAgent string
	qaAgent  string
	status   string
}

var createCmd = &cobra.Command{
	Use:   "create <sprint-id>",
	Short: "Create a new card",
	Long: `Creates a lean card in the backlog. With --worktree the card is
created rich, directly on the board, at --status (default: the first
column). Sprint ids are unique across all three tiers.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sprintID := args[0]

		var card types.Card
		if createFlags.worktree != "" {
			card = types.NewRich(&types.RichCard{
				SprintID:     sprintID,
				Title:        createFlags.title,
				Dependencies: createFlags.deps,
				Worktree:     createFlags.worktree,
				DevAgent:     createFlags.devAgent,
				QAAgent:      createFlags.qaAgent,
			})
		} else {
			card = types.NewLean(&types.LeanCard{
				SprintID:     sprintID,
				Title:        createFlags.title,
				Dependencies: createFlags.deps,
			})
		}

		created, err := provider.Create(card, types.Status(createFlags.status))
		if err != nil {
			fail(err)
		}
		debug.LogEvent("create", sprintID, string(created.Kind))

		if jsonOutput {
			outputJSON(created)
			return
		}
		where := "backlog"
		if created.Kind == types.KindRich {
			where = "board (" + string(created.Rich.Status) + ")"
		}
		debug.PrintNormal("%s created %s in %s\n", ui.RenderPass(ui.IconPass), ui.IDStyle.Render(sprintID), where)
	},
}

func init() {
	createCmd.Flags().StringVarP(&createFlags.title, "title", "t", "", "card title")
	createCmd.Flags().StringSliceVarP(&createFlags.deps, "dep", "d", nil, "sprint id this card depends on (repeatable)")
	createCmd.Flags().StringVarP(&createFlags.worktree, "worktree", "w", "", "create rich, directly on the board, in this worktree")
	createCmd.Flags().StringVar(&createFlags.devAgent, "dev-agent", "", "dev agent identifier (rich cards)")
	createCmd.Flags().StringVar(&createFlags.qaAgent, "qa-agent", "", "qa agent identifier (rich cards)")
	createCmd.Flags().StringVarP(&createFlags.status, "status", "s", "", "board column for rich creation (default: first column)")
	rootCmd.AddCommand(createCmd)
}
