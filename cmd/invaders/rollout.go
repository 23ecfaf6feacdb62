package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/agent"
	"github.com/vovakirdan/tui-invaders/internal/env"
)

var (
	flagRolloutAgent string
	flagEpisodes     int
	flagWorkers      int
	flagMaxSteps     int
	flagRenderMode   string
	flagEnvID        string
	flagNoStore      bool
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Run headless agent episodes",
	Long: `Play episodes without a screen, in parallel, and store every result.

Episode i uses seed --seed + i, so a rollout is reproducible regardless of
the number of workers.

Examples:
  invaders rollout --agent random --episodes 100
  invaders rollout --agent tracker --episodes 20 --workers 8 --max-steps 5000
  invaders rollout --render-mode gray_scale_array --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runRollout,
}

func init() {
	rolloutCmd.Flags().StringVar(&flagRolloutAgent, "agent", "random", "Agent to run (random, tracker)")
	rolloutCmd.Flags().IntVar(&flagEpisodes, "episodes", 10, "Number of episodes")
	rolloutCmd.Flags().IntVar(&flagWorkers, "workers", 4, "Parallel environments")
	rolloutCmd.Flags().IntVar(&flagMaxSteps, "max-steps", -1, "Truncate episodes after this many steps (-1 = from config)")
	rolloutCmd.Flags().StringVar(&flagRenderMode, "render-mode", "", "Observation format: human, rgb_array, gray_scale_array (default from config)")
	rolloutCmd.Flags().StringVar(&flagEnvID, "env", env.DefaultID, "Registered environment ID")
	rolloutCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not store episode results")
}

func runRollout(_ *cobra.Command, _ []string) {
	exitOnError(rollout())
}

// rollout runs the episodes and prints the results.
func rollout() error {
	cfg := gameConfig()

	policies, err := agent.Factory(flagRolloutAgent)
	if err != nil {
		return err
	}

	opts := []env.Option{env.WithConfig(cfg)}
	if flagRenderMode != "" {
		mode, err := env.ParseRenderMode(flagRenderMode)
		if err != nil {
			return err
		}
		opts = append(opts, env.WithRenderMode(mode))
	}
	if flagMaxSteps >= 0 {
		opts = append(opts, env.WithMaxEpisodeSteps(flagMaxSteps))
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rc := env.RolloutConfig{
		Episodes: flagEpisodes,
		Workers:  flagWorkers,
		Seed:     seed,
		Agent:    flagRolloutAgent,
		Options:  opts,
		Logger:   logger,
	}
	if !flagNoStore {
		if store := openStore(); store != nil {
			defer store.Close()
			rc.Recorder = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(opts ...env.Option) (*env.Env, error) {
		return env.Make(flagEnvID, opts...)
	}

	results, err := env.Run(ctx, factory, policies, rc)
	if err != nil {
		return err
	}

	printRollout(results)
	return nil
}

// printRollout prints one line per episode and a summary.
func printRollout(results []env.EpisodeResult) {
	if len(results) == 0 {
		fmt.Println("No episodes played.")
		return
	}

	fmt.Printf("  %-4s  %-20s  %-7s  %-7s  %-6s  %-5s  %s\n", "Ep", "Seed", "Steps", "Reward", "Score", "Level", "End")
	fmt.Printf("  %-4s  %-20s  %-7s  %-7s  %-6s  %-5s  %s\n", "--", "----", "-----", "------", "-----", "-----", "---")

	best := results[0]
	for _, r := range results {
		end := "died"
		if r.Truncated {
			end = "truncated"
		}
		fmt.Printf("  %-4d  %-20d  %-7d  %-+7.0f  %-6d  %-5d  %s\n", r.Episode, r.Seed, r.Steps, r.Reward, r.Score, r.Level, end)
		if r.Score > best.Score {
			best = r
		}
	}

	fmt.Println()
	fmt.Printf("Run:         %s\n", results[0].RunID)
	fmt.Printf("Mean reward: %.2f\n", env.MeanReward(results))
	fmt.Printf("Best score:  %d (episode %d, seed %d)\n", best.Score, best.Episode, best.Seed)
}
