package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and recent agent episodes",
	Long: `Display the top player scores, the most recent agent episodes,
and per-agent averages.

Examples:
  invaders scores
  invaders scores --limit 20
  invaders scores --tui
  invaders scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Rows per table")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all player scores")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}

	err = showScores(store)
	store.Close()
	exitOnError(err)
}

// showScores runs the action selected by the flags.
func showScores(store *storage.Store) error {
	switch {
	case flagScoresClear:
		if err := store.ClearScores(tui.GameID); err != nil {
			return err
		}
		fmt.Println("Player scores cleared.")
		return nil

	case flagScoresTUI:
		rt := runtimeConfig()
		_, err := tui.RunScoreboard(store, rt.ScreenW, rt.ScreenH)
		return err
	}

	if err := printScores(store); err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	if err := printEpisodes(store); err != nil {
		return fmt.Errorf("retrieving episodes: %w", err)
	}
	return nil
}

// printScores prints the player high score table.
func printScores(store *storage.Store) error {
	scores, err := store.TopScores(tui.GameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'invaders play' to set the first high score!")
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "Rank", "Score", "Level", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "----", "-----", "-----", "------", "----")

	for i, entry := range scores {
		player := entry.Player
		if player == "" {
			player = "-"
		}
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-12s  %s\n", i+1, entry.Score, entry.Level, player, dateStr)
	}

	fmt.Println()
	if highScore, err := store.HighScore(tui.GameID); err == nil {
		fmt.Printf("Best: %d\n", highScore)
		fmt.Println()
	}
	return nil
}

// printEpisodes prints recent agent episodes and per-agent averages.
func printEpisodes(store *storage.Store) error {
	ctx := context.Background()

	episodes, err := store.RecentEpisodes(ctx, flagScoresLimit)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Println("No agent episodes recorded yet. Try 'invaders rollout'.")
		return nil
	}

	fmt.Println("Recent Agent Episodes")
	fmt.Println()
	fmt.Printf("  %-8s  %-8s  %-4s  %-6s  %-7s  %-7s  %s\n", "Run", "Agent", "Ep", "Score", "Reward", "Steps", "Date")
	fmt.Printf("  %-8s  %-8s  %-4s  %-6s  %-7s  %-7s  %s\n", "---", "-----", "--", "-----", "------", "-----", "----")
	for _, e := range episodes {
		fmt.Printf("  %-8s  %-8s  %-4d  %-6d  %-+7.0f  %-7d  %s\n",
			e.RunID.String()[:8], e.Agent, e.Episode, e.Score, e.Reward, e.Steps, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.AgentStats(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %-8s  %-8s  %-11s  %s\n", "Agent", "Episodes", "Mean reward", "Best score")
	fmt.Printf("  %-8s  %-8s  %-11s  %s\n", "-----", "--------", "-----------", "----------")
	for _, s := range stats {
		fmt.Printf("  %-8s  %-8d  %-11.2f  %d\n", s.Agent, s.Episodes, s.MeanReward, s.BestScore)
	}
	return nil
}
