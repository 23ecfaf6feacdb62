package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var flagWatchAgent string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an agent play",
	Long: `Show an agent playing through the environment, one episode after another.
Finished episodes are stored alongside rollout results.

Controls:
  P/Space  - Pause
  N        - Skip to the next episode
  Q        - Quit

Examples:
  invaders watch
  invaders watch --agent random --fps 60
  invaders watch --agent tracker --seed 7`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchAgent, "agent", "tracker", "Agent to watch (random, tracker)")
}

func runWatch(_ *cobra.Command, _ []string) {
	cfg := gameConfig()

	store := openStore()
	err := tui.RunWatch(flagWatchAgent, cfg, store, runtimeConfig())

	if store != nil {
		store.Close()
	}

	exitOnError(err)
}
