package agent

import (
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/env"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
)

// Tracker reads the observation, moves under the nearest enemy of the
// lowest enemy row, and fires once aligned with it.
type Tracker struct {
	player  pixelKey
	enemies []pixelKey
}

// pixelKey identifies a sprite color in both RGB and gray scale observations.
type pixelKey struct {
	r, g, b uint8
	gray    uint8
}

func keyOf(c core.Color) pixelKey {
	rgb := c.RGBA()
	return pixelKey{r: rgb.R, g: rgb.G, b: rgb.B, gray: env.GrayLevel(rgb)}
}

func (k pixelKey) matches(obs env.Observation, x, y int) bool {
	if obs.Channels() == 1 {
		return obs.At(x, y, 0) == k.gray
	}
	return obs.At(x, y, 0) == k.r && obs.At(x, y, 1) == k.g && obs.At(x, y, 2) == k.b
}

// span is a horizontal run of matching pixels.
type span struct {
	from, to int
}

func (s span) center() int {
	return (s.from + s.to) / 2
}

// NewTracker creates a tracker for the game's sprite colors.
func NewTracker() *Tracker {
	t := &Tracker{player: keyOf(invaders.PlayerColor)}
	for _, c := range invaders.EnemyColors {
		t.enemies = append(t.enemies, keyOf(c))
	}
	return t
}

// Act chooses an action for the observation.
func (t *Tracker) Act(obs env.Observation, _ env.Info) env.Action {
	player, ok := t.findPlayer(obs)
	if !ok {
		return env.ActionNoop
	}
	target, ok := t.findTarget(obs, player.center())
	if !ok {
		return env.ActionNoop
	}

	px := player.center()
	switch {
	case px >= target.from && px <= target.to:
		return env.ActionFire
	case px < target.from:
		return env.ActionRight
	default:
		return env.ActionLeft
	}
}

// findPlayer scans from the bottom for the row holding the player.
func (t *Tracker) findPlayer(obs env.Observation) (span, bool) {
	for y := obs.Height() - 1; y >= 0; y-- {
		spans := t.spans(obs, y, func(x int) bool { return t.player.matches(obs, x, y) })
		if len(spans) > 0 {
			return spans[0], true
		}
	}
	return span{}, false
}

// findTarget returns the enemy in the lowest enemy row closest to x.
func (t *Tracker) findTarget(obs env.Observation, x int) (span, bool) {
	isEnemy := func(px, y int) bool {
		for _, k := range t.enemies {
			if k.matches(obs, px, y) {
				return true
			}
		}
		return false
	}

	for y := obs.Height() - 1; y >= 0; y-- {
		spans := t.spans(obs, y, func(px int) bool { return isEnemy(px, y) })
		if len(spans) == 0 {
			continue
		}
		best := spans[0]
		for _, s := range spans[1:] {
			if core.Abs(s.center()-x) < core.Abs(best.center()-x) {
				best = s
			}
		}
		return best, true
	}
	return span{}, false
}

// spans collects runs of pixels in row y for which match is true.
func (t *Tracker) spans(obs env.Observation, y int, match func(x int) bool) []span {
	var out []span
	start := -1
	for x := 0; x < obs.Width(); x++ {
		if match(x) {
			if start < 0 {
				start = x
			}
			continue
		}
		if start >= 0 {
			out = append(out, span{from: start, to: x - 1})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, span{from: start, to: obs.Width() - 1})
	}
	return out
}
