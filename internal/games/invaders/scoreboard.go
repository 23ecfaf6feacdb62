package invaders

import "errors"

// ErrNoLives is returned when removing a life from an empty scoreboard.
var ErrNoLives = errors.New("invaders: no lives left")

// Scoreboard tracks score and remaining lives.
type Scoreboard struct {
	score int
	lives int
}

// NewScoreboard creates a scoreboard with the given lives.
func NewScoreboard(lives int) *Scoreboard {
	return &Scoreboard{lives: lives}
}

// Score returns the current score.
func (s *Scoreboard) Score() int {
	return s.score
}

// Lives returns the remaining lives.
func (s *Scoreboard) Lives() int {
	return s.lives
}

// AddPoints adds n points.
func (s *Scoreboard) AddPoints(n int) {
	s.score += n
}

// AddLife grants one extra life.
func (s *Scoreboard) AddLife() {
	s.lives++
}

// RemoveLife takes one life away.
func (s *Scoreboard) RemoveLife() error {
	if s.lives <= 0 {
		return ErrNoLives
	}
	s.lives--
	return nil
}
