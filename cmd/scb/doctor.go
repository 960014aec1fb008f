package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/types"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
	"github.com/randlee/synaptic-canvas-sub004/internal/wip"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check board health",
	Long: `Verifies the tier files load, no sprint_id appears in more than one
tier, and reports any columns over their WIP limit (limits lowered
after cards entered are allowed; existing cards are never evicted).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		e, err := kanbanEngine()
		if err != nil {
			fail(err)
		}

		type check struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
			Info string `json:"info,omitempty"`
		}
		var checks []check

		for _, tier := range types.Tiers() {
			c := check{Name: fmt.Sprintf("%s loads", tier), OK: true}
			if _, err := e.Store().Load(tier); err != nil {
				c.OK = false
				c.Info = err.Error()
			}
			checks = append(checks, c)
		}

		exclusivity := check{Name: "tier exclusivity", OK: true}
		if err := e.Store().CheckExclusivity(); err != nil {
			exclusivity.OK = false
			exclusivity.Info = err.Error()
		}
		checks = append(checks, exclusivity)

		if board, err := e.Store().Load(types.TierBoard); err == nil {
			limiter := wip.New(cfg.WIPLimits)
			for _, column := range cfg.Columns {
				status := types.Status(column)
				limit, bounded := limiter.Limit(status)
				if !bounded {
					continue
				}
				occupancy := wip.Occupancy(board, status, "")
				c := check{Name: fmt.Sprintf("wip %s", column), OK: occupancy <= limit,
					Info: fmt.Sprintf("%d/%d", occupancy, limit)}
				checks = append(checks, c)
			}
		}

		if jsonOutput {
			outputJSON(checks)
			return
		}
		healthy := true
		for _, c := range checks {
			icon := ui.RenderPass(ui.IconPass)
			if !c.OK {
				icon = ui.RenderWarn(ui.IconWarn)
				healthy = false
			}
			line := fmt.Sprintf("%s %s", icon, c.Name)
			if c.Info != "" {
				line += " " + ui.RenderMuted(c.Info)
			}
			fmt.Println(line)
		}
		if !healthy {
			fail(fmt.Errorf("board has problems"))
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
