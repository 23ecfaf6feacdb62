package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Space Invaders",
	Long: `Start playing in the terminal.

Controls:
  Left/Right, A/D  - Move the cannon
  Space            - Fire
  P                - Pause
  R                - Restart (after game over)
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - More lives, slower formation, fewer shots
  normal - Start at 30% difficulty, progresses to max
  hard   - Fewer lives, faster formation and lasers
  fixed  - No progression

Examples:
  invaders play
  invaders play --difficulty easy
  invaders play --config ./my-invaders.yaml --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	game, err := registry.Create(tui.GameID)
	exitOnError(err)

	// Fail on a broken config file here; the game itself would fall back to defaults
	gameConfig()

	store := openStore()
	runErr := tui.Run(game, store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	exitOnError(runErr)
}
