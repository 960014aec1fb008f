package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/config"
	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/engine"
	"github.com/randlee/synaptic-canvas-sub004/internal/ui"
)

var initChecklist bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a canvas board in the current directory",
	Long: `Creates .canvas/ with a default config.yaml and empty tier files
(backlog.json, board.json, done.json). Safe to re-run: existing files
are left alone.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fail(err)
		}
		canvasDir := filepath.Join(cwd, config.CanvasDir)
		cfgPath := filepath.Join(canvasDir, config.ConfigFileName)

		cfg := config.Default(canvasDir)
		if initChecklist {
			cfg.Provider = config.ProviderChecklist
		}

		if _, err := os.Stat(cfgPath); err == nil {
			fail(fmt.Errorf("%s already exists", cfgPath))
		}
		if err := cfg.Write(cfgPath); err != nil {
			fail(err)
		}

		if cfg.Provider == config.ProviderKanban {
			if err := engine.New(cfg).Init(); err != nil {
				fail(err)
			}
		}

		if jsonOutput {
			outputJSON(map[string]string{"config": cfgPath, "provider": string(cfg.Provider)})
			return
		}
		debug.PrintNormal("%s initialized %s board in %s\n", ui.RenderPass(ui.IconPass), cfg.Provider, canvasDir)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initChecklist, "checklist", false, "configure the checklist provider instead of kanban")
	rootCmd.AddCommand(initCmd)
}
