package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Policy chooses actions from observations.
type Policy interface {
	Act(obs Observation, info Info) Action
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(obs Observation, info Info) Action

// Act calls f.
func (f PolicyFunc) Act(obs Observation, info Info) Action {
	return f(obs, info)
}

// PolicyFactory creates a policy for one episode.
// The seed is the episode seed, so a seeded policy replays identically.
type PolicyFactory func(seed int64) Policy

// EpisodeResult summarises one finished episode.
type EpisodeResult struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	Agent      string
	Episode    int
	Seed       int64
	Steps      int
	Reward     float64
	Score      int
	Level      int
	Terminated bool
	Truncated  bool
	Duration   time.Duration
	FinishedAt time.Time
}

// Recorder receives every finished episode.
type Recorder interface {
	Record(ctx context.Context, res EpisodeResult) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, res EpisodeResult) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, res EpisodeResult) error {
	return f(ctx, res)
}

// RolloutConfig controls Run.
type RolloutConfig struct {
	Episodes int
	Workers  int
	Seed     int64 // Episode i uses Seed+i
	Agent    string
	Options  []Option // Passed to the factory for every worker
	Recorder Recorder // Optional; called serially
	Logger   *log.Logger
}

// Run plays cfg.Episodes episodes on cfg.Workers goroutines, each with its own environment.
// Results are returned in episode order. The first error cancels the remaining work.
func Run(ctx context.Context, factory Factory, policy PolicyFactory, cfg RolloutConfig) ([]EpisodeResult, error) {
	if cfg.Episodes <= 0 {
		return nil, nil
	}
	if factory == nil || policy == nil {
		return nil, errors.New("env: rollout needs a factory and a policy")
	}
	workers := min(max(cfg.Workers, 1), cfg.Episodes)
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	runID := uuid.New()
	logger = logger.With("run", runID.String())
	logger.Info("rollout started", "episodes", cfg.Episodes, "workers", workers, "agent", cfg.Agent)

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make([]EpisodeResult, cfg.Episodes)
	var recordMu sync.Mutex

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Episodes; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			e, err := factory(cfg.Options...)
			if err != nil {
				return fmt.Errorf("env: worker %d: %w", w, err)
			}
			defer e.Close()

			for i := range jobs {
				res, err := playEpisode(ctx, e, policy, cfg.Seed+int64(i))
				if err != nil {
					return fmt.Errorf("env: episode %d: %w", i, err)
				}
				res.RunID = runID
				res.Agent = cfg.Agent
				res.Episode = i
				results[i] = res

				logger.Debug("episode finished",
					"episode", i,
					"worker", w,
					"steps", res.Steps,
					"reward", res.Reward,
					"score", res.Score,
				)

				if cfg.Recorder != nil {
					recordMu.Lock()
					err := cfg.Recorder.Record(ctx, res)
					recordMu.Unlock()
					if err != nil {
						return fmt.Errorf("env: record episode %d: %w", i, err)
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("rollout failed", "err", err)
		return nil, err
	}

	logger.Info("rollout finished", "episodes", len(results), "mean_reward", MeanReward(results))
	return results, nil
}

// playEpisode runs one episode to completion.
func playEpisode(ctx context.Context, e *Env, policy PolicyFactory, seed int64) (EpisodeResult, error) {
	start := time.Now()
	obs, info, err := e.Reset(ResetOptions{Seed: &seed})
	if err != nil {
		return EpisodeResult{}, err
	}
	p := policy(seed)

	res := EpisodeResult{ID: uuid.New(), Seed: seed}
	for {
		if res.Steps%256 == 0 {
			if err := ctx.Err(); err != nil {
				return EpisodeResult{}, err
			}
		}

		step, err := e.Step(p.Act(obs, info))
		if err != nil {
			return EpisodeResult{}, err
		}
		res.Steps++
		res.Reward += step.Reward
		obs, info = step.Observation, step.Info

		if step.Done() {
			res.Terminated = step.Terminated
			res.Truncated = step.Truncated
			break
		}
	}

	res.Score = info.Score
	res.Level = info.Level
	res.Duration = time.Since(start)
	res.FinishedAt = time.Now()
	return res, nil
}

// MeanReward returns the average episode reward, or 0 for no episodes.
func MeanReward(results []EpisodeResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Reward
	}
	return sum / float64(len(results))
}
