package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration the game would use, after the search order
(--config, ~/.invaders/configs/invaders.yaml, ./configs/invaders.yaml,
built-in defaults) and the --difficulty preset are applied.

The output is a valid config file:
  invaders config > ~/.invaders/configs/invaders.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	data, err := config.Marshal(gameConfig())
	exitOnError(err)
	fmt.Print(string(data))
}
