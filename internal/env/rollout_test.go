package env

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cyclePolicy fires, then walks left and right, starting at an offset derived from the seed.
func cyclePolicy(seed int64) Policy {
	step := int(seed % 7)
	return PolicyFunc(func(Observation, Info) Action {
		step++
		if step%5 == 0 {
			return ActionFire
		}
		if step%40 < 20 {
			return ActionLeft
		}
		return ActionRight
	})
}

func TestRun(t *testing.T) {
	var mu sync.Mutex
	recorded := map[int]EpisodeResult{}
	rec := RecorderFunc(func(_ context.Context, res EpisodeResult) error {
		mu.Lock()
		defer mu.Unlock()
		recorded[res.Episode] = res
		return nil
	})

	cfg := RolloutConfig{
		Episodes: 6,
		Workers:  3,
		Seed:     100,
		Agent:    "cycle",
		Options:  []Option{WithMaxEpisodeSteps(60)},
		Recorder: rec,
	}
	results, err := Run(context.Background(), New, cyclePolicy, cfg)
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Len(t, recorded, 6)

	ids := map[uuid.UUID]bool{}
	for i, res := range results {
		assert.Equal(t, i, res.Episode)
		assert.Equal(t, int64(100+i), res.Seed)
		assert.Equal(t, "cycle", res.Agent)
		assert.Equal(t, results[0].RunID, res.RunID)
		assert.LessOrEqual(t, res.Steps, 60)
		assert.True(t, res.Terminated || res.Truncated)
		assert.False(t, ids[res.ID], "duplicate episode ID")
		ids[res.ID] = true
		assert.Equal(t, res.ID, recorded[i].ID)
	}

	// The same seeds replay identically regardless of scheduling
	again, err := Run(context.Background(), New, cyclePolicy, RolloutConfig{
		Episodes: 6,
		Workers:  1,
		Seed:     100,
		Options:  []Option{WithMaxEpisodeSteps(60)},
	})
	require.NoError(t, err)
	for i := range results {
		assert.Equal(t, results[i].Reward, again[i].Reward, "episode %d", i)
		assert.Equal(t, results[i].Steps, again[i].Steps, "episode %d", i)
	}
	assert.NotEqual(t, results[0].RunID, again[0].RunID)
}

func TestRunNoEpisodes(t *testing.T) {
	results, err := Run(context.Background(), New, cyclePolicy, RolloutConfig{})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, New, cyclePolicy, RolloutConfig{Episodes: 4, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRecorderError(t *testing.T) {
	boom := errors.New("disk full")
	rec := RecorderFunc(func(context.Context, EpisodeResult) error { return boom })

	_, err := Run(context.Background(), New, cyclePolicy, RolloutConfig{
		Episodes: 3,
		Workers:  2,
		Options:  []Option{WithMaxEpisodeSteps(10)},
		Recorder: rec,
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunFactoryError(t *testing.T) {
	_, err := Run(context.Background(), New, cyclePolicy, RolloutConfig{
		Episodes: 2,
		Options:  []Option{WithRenderMode("vector")},
	})
	assert.Error(t, err)
}

func TestMeanReward(t *testing.T) {
	assert.Equal(t, 0.0, MeanReward(nil))
	assert.Equal(t, 1.5, MeanReward([]EpisodeResult{{Reward: 1}, {Reward: 2}}))
}
