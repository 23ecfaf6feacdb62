package agent

import (
	"github.com/vovakirdan/tui-invaders/internal/env"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
)

// Random samples actions uniformly from the action space.
type Random struct {
	rng *invaders.RNG
}

// NewRandom creates a seeded random policy.
func NewRandom(seed int64) *Random {
	return &Random{rng: invaders.NewRNG(seed)}
}

// Act ignores the observation and returns a random action.
func (r *Random) Act(env.Observation, env.Info) env.Action {
	return env.Action(r.rng.Intn(env.NumActions))
}
