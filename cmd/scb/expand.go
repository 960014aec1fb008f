package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/engine"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var expandFlags struct {
	to          string
	title       string
	worktree    string
	devAgent    string
	qaAgent     string
	devPrompt   string
	qaPrompt    string
	acceptance  []string
	maxRetries  int
	baseBranch  string
	interactive bool
}

var expandCmd = &cobra.Command{
	Use:   "expand <sprint-id>",
	Short: "Expand a backlog card onto the board",
	Long: `Moves a backlog card onto the board, attaching the execution detail
a board card carries: worktree, agents, prompts, acceptance criteria.
The worktree is required. With --interactive the fields are collected
through a form instead of flags.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sprintID := args[0]

		fields := &engine.ExpandFields{
			Title:              expandFlags.title,
			Worktree:           expandFlags.worktree,
			DevAgent:           expandFlags.devAgent,
			QAAgent:            expandFlags.qaAgent,
			DevPrompt:          expandFlags.devPrompt,
			QAPrompt:           expandFlags.qaPrompt,
			AcceptanceCriteria: expandFlags.acceptance,
			MaxRetries:         expandFlags.maxRetries,
			BaseBranch:         expandFlags.baseBranch,
		}
		if expandFlags.interactive {
			if err := runExpandForm(sprintID, fields); err != nil {
				if err == huh.ErrUserAborted {
					fmt.Fprintln(os.Stderr, "Expansion cancelled.")
					os.Exit(0)
				}
				fail(err)
			}
		}

		target := types.Status(expandFlags.to)
		if expandFlags.to == "" {
			target = types.Status(cfg.Columns[0])
		}

		card, err := provider.Transition(sprintID, target, fields)
		if err != nil {
			fail(err)
		}
		debug.LogEvent("expand", sprintID, string(target))

		if jsonOutput {
			outputJSON(card)
			return
		}
		debug.PrintNormal("%s expanded %s onto the board at %s\n",
			ui.RenderPass(ui.IconPass), ui.IDStyle.Render(sprintID), ui.RenderStatus(target))
	},
}

// runExpandForm collects the rich fields interactively. Flag values
// pre-fill the form so the two styles compose.
func runExpandForm(sprintID string, fields *engine.ExpandFields) error {
	var acceptance string
	if len(fields.AcceptanceCriteria) > 0 {
		acceptance = strings.Join(fields.AcceptanceCriteria, "\n")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Worktree").
				Description("Branch worktree the card executes in (required)").
				Placeholder("e.g., main/2-1-auth").
				Value(&fields.Worktree).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("worktree is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Dev agent").
				Description("Agent that implements the card (optional)").
				Value(&fields.DevAgent),

			huh.NewInput().
				Title("QA agent").
				Description("Agent that verifies the card (optional)").
				Value(&fields.QAAgent),
		),

		huh.NewGroup(
			huh.NewText().
				Title("Dev prompt").
				Description("Instructions handed to the dev agent (optional)").
				CharLimit(5000).
				Value(&fields.DevPrompt),

			huh.NewText().
				Title("QA prompt").
				Description("Instructions handed to the QA agent (optional)").
				CharLimit(5000).
				Value(&fields.QAPrompt),

			huh.NewText().
				Title("Acceptance criteria").
				Description("One criterion per line (optional)").
				CharLimit(5000).
				Value(&acceptance),
		),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Expand " + sprintID + " onto the board?").
				Affirmative("Expand").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	fields.AcceptanceCriteria = nil
	for _, line := range strings.Split(acceptance, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fields.AcceptanceCriteria = append(fields.AcceptanceCriteria, line)
		}
	}
	return nil
}

func init() {
	expandCmd.Flags().StringVar(&expandFlags.to, "to", "", "board column to enter (default: first column)")
	expandCmd.Flags().StringVarP(&expandFlags.title, "title", "t", "", "override the backlog title")
	expandCmd.Flags().StringVarP(&expandFlags.worktree, "worktree", "w", "", "branch worktree (required unless --interactive)")
	expandCmd.Flags().StringVar(&expandFlags.devAgent, "dev-agent", "", "dev agent identifier")
	expandCmd.Flags().StringVar(&expandFlags.qaAgent, "qa-agent", "", "qa agent identifier")
	expandCmd.Flags().StringVar(&expandFlags.devPrompt, "dev-prompt", "", "dev agent instructions")
	expandCmd.Flags().StringVar(&expandFlags.qaPrompt, "qa-prompt", "", "qa agent instructions")
	expandCmd.Flags().StringSliceVar(&expandFlags.acceptance, "accept", nil, "acceptance criterion (repeatable)")
	expandCmd.Flags().IntVar(&expandFlags.maxRetries, "max-retries", 0, "retry budget for the dev/qa loop")
	expandCmd.Flags().StringVar(&expandFlags.baseBranch, "base-branch", "", "branch the worktree is cut from")
	expandCmd.Flags().BoolVarP(&expandFlags.interactive, "interactive", "i", false, "collect fields through a form")
	rootCmd.AddCommand(expandCmd)
}
