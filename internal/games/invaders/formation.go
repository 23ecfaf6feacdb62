package invaders

import "math"

// Formation moves the enemies as one block.
// It alternates between standing still for blockTicks and moving for unblockTicks.
type Formation struct {
	Enemies []*Enemy
	Blocked bool

	speed     float64
	dir       float64
	phase     int // Ticks spent in the current blocked/unblocked phase, -1 before the first tick
	blockLen  int
	moveLen   int
	moveCount int // Completed movement phases, drives the two-frame animation
}

// NewFormation creates an empty, blocked formation.
func NewFormation(blockTicks, unblockTicks int) *Formation {
	return &Formation{
		Blocked:  true,
		dir:      1,
		phase:    -1,
		blockLen: blockTicks,
		moveLen:  unblockTicks,
	}
}

// Reset replaces the enemies and restarts the movement cycle.
func (f *Formation) Reset(enemies []*Enemy, speed float64) {
	f.Enemies = enemies
	f.Blocked = true
	f.dir = 1
	f.phase = -1
	f.SetSpeed(speed)
}

// Tick advances the blocked/unblocked cycle by one tick.
func (f *Formation) Tick() {
	f.phase++
	if f.Blocked && f.phase >= f.blockLen {
		f.Blocked = false
		f.phase = 0
	} else if !f.Blocked && f.phase >= f.moveLen {
		f.Blocked = true
		f.phase = 0
		f.moveCount++
	}
}

// Speed returns the current horizontal speed.
func (f *Formation) Speed() float64 {
	return f.speed
}

// Direction returns +1 when moving right and -1 when moving left.
func (f *Formation) Direction() float64 {
	return f.dir
}

// SetSpeed updates the speed of every enemy.
func (f *Formation) SetSpeed(v float64) {
	f.speed = v
	for _, e := range f.Enemies {
		e.Speed = v
	}
}

// Move advances every enemy horizontally.
func (f *Formation) Move() {
	for _, e := range f.Enemies {
		e.X += f.dir * e.Speed
	}
}

// OutOfBounds reports whether any enemy sticks out of [0, width).
func (f *Formation) OutOfBounds(width int) bool {
	for _, e := range f.Enemies {
		if e.X < 0 || e.X+float64(e.Width) > float64(width) {
			return true
		}
	}
	return false
}

// DropRow moves every enemy down by dy rows.
func (f *Formation) DropRow(dy int) {
	for _, e := range f.Enemies {
		e.Y += float64(dy)
	}
}

// Reverse flips the horizontal direction.
func (f *Formation) Reverse() {
	f.dir = -f.dir
}

// ShiftInside moves the whole formation back within [0, width).
func (f *Formation) ShiftInside(width int) {
	if len(f.Enemies) == 0 {
		return
	}
	left, right := math.Inf(1), math.Inf(-1)
	for _, e := range f.Enemies {
		left = math.Min(left, e.X)
		right = math.Max(right, e.X+float64(e.Width))
	}

	var dx float64
	switch {
	case left < 0:
		dx = -left
	case right > float64(width):
		dx = float64(width) - right
	}
	for _, e := range f.Enemies {
		e.X += dx
	}
}

// Choose returns a uniformly random enemy, or nil if none are left.
func (f *Formation) Choose(rng *RNG) *Enemy {
	if len(f.Enemies) == 0 {
		return nil
	}
	return f.Enemies[rng.Intn(len(f.Enemies))]
}

// Bottom returns the lowest enemy edge, or 0 if none are left.
func (f *Formation) Bottom() int {
	bottom := 0
	for _, e := range f.Enemies {
		bottom = max(bottom, e.Rect().Bottom())
	}
	return bottom
}

// Len returns the number of living enemies.
func (f *Formation) Len() int {
	return len(f.Enemies)
}

// Frame returns the animation frame (0 or 1).
func (f *Formation) Frame() int {
	return f.moveCount % 2
}
