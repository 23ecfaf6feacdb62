package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the title menu",
	Long: `Start in interactive menu mode.

The menu leads to the game, the agent viewer, and the high score board.
Leaving any of them returns to the menu.

Controls:
  Up/Down/j/k   - Navigate menu
  Left/Right    - Pick the agent to watch
  Enter/Space   - Select
  Tab           - High scores
  Q             - Quit

Examples:
  invaders menu
  invaders menu --fps 60
  invaders menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	gameConfig()

	store := openStore()
	err := tui.RunSession(store, runtimeConfig(), os.Getenv("USER"))

	if store != nil {
		store.Close()
	}

	exitOnError(err)
}
