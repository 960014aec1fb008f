package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randlee/synaptic-canvas-sub004/internal/config"
	"github.com/randlee/synaptic-canvas-sub004/internal/debug"
	"github.com/randlee/synaptic-canvas-sub004/internal/engine"
	"github.com/randlee/synaptic-canvas-sub004/internal/types"
)

// Version metadata, stamped by the release build.
var (
	Version = "dev"
	Build   = "unknown"
)

var (
	configPath  string
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool

	// Populated by PersistentPreRunE for commands that need the board.
	cfg      *config.Config
	provider engine.Provider
)

// noConfigCommands run without a project configuration. The bare root
// command (help or --version) is included.
var noConfigCommands = map[string]bool{
	"scb":        true,
	"init":       true,
	"version":    true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "scb",
	Short: "scb - Sprint card board",
	Long: `A card lifecycle engine for sprint work. Cards start lean in the
backlog, expand onto the board with execution detail, move through the
configured columns under WIP limits and gates, and archive back to a
lean record when done.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("scb version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)

		if noConfigCommands[cmd.Name()] {
			return nil
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		provider = engine.NewProvider(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: discover .canvas/config.yaml upward)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-essential output")
	rootCmd.Flags().Bool("version", false, "print version and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}

// kanbanEngine returns the engine, or an error when the project is
// configured for a different provider. Commands that need direct store
// access (init, doctor) use this instead of the Provider interface.
func kanbanEngine() (*engine.Engine, error) {
	e, ok := provider.(*engine.Engine)
	if !ok {
		return nil, checklistErr()
	}
	return e, nil
}

func checklistErr() error {
	// Route through the advisor so the fault shape matches other commands.
	_, err := engine.ChecklistAdvisor{}.Query(types.Filter{})
	return err
}
