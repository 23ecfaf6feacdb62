package invaders

import (
	"math"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// sprite is anything with a collision rectangle.
type sprite interface {
	Rect() core.Rect
}

// Player is the laser cannon at the bottom of the playfield.
type Player struct {
	X     float64
	Y     int
	Width int
}

// Rect returns the player's collision rectangle.
func (p *Player) Rect() core.Rect {
	return core.NewRect(cell(p.X), p.Y, p.Width, 1)
}

// Muzzle returns the column a new laser leaves from.
func (p *Player) Muzzle() int {
	return cell(p.X) + p.Width/2
}

// Enemy is one invader of the formation.
type Enemy struct {
	X, Y  float64
	Width int
	Kind  int // Row of the grid the enemy was generated in
	Speed float64
}

// Rect returns the enemy's collision rectangle.
func (e *Enemy) Rect() core.Rect {
	return core.NewRect(cell(e.X), cell(e.Y), e.Width, 1)
}

// Laser is a one-cell projectile.
// PrevY is its position before the last move; collisions use the swept area.
type Laser struct {
	X     float64
	Y     float64
	PrevY float64
	Speed float64
}

// Rect returns the area the laser covered during its last move.
func (l *Laser) Rect() core.Rect {
	top := cell(math.Min(l.Y, l.PrevY))
	bottom := cell(math.Max(l.Y, l.PrevY))
	return core.NewRect(cell(l.X), top, 1, bottom-top+1)
}

// Blockade is a single destructible piece of a shield.
type Blockade struct {
	X, Y int
}

// Rect returns the piece's collision rectangle.
func (b *Blockade) Rect() core.Rect {
	return core.NewRect(b.X, b.Y, 1, 1)
}

// cell converts a continuous coordinate to the cell containing it.
func cell(v float64) int {
	return int(math.Floor(v))
}

// collide tests every member of as against every member of bs.
// Members touching the other group are removed when the matching kill flag is set.
// It returns both survivor lists and how many members of each group were touched.
func collide[A, B sprite](as []A, bs []B, killA, killB bool) ([]A, []B, int, int) {
	hitA := make([]bool, len(as))
	hitB := make([]bool, len(bs))
	for i, a := range as {
		ra := a.Rect()
		for j, b := range bs {
			if ra.Intersects(b.Rect()) {
				hitA[i] = true
				hitB[j] = true
			}
		}
	}

	countA, countB := 0, 0
	keptA := as[:0:0]
	for i, a := range as {
		if hitA[i] {
			countA++
			if killA {
				continue
			}
		}
		keptA = append(keptA, a)
	}
	keptB := bs[:0:0]
	for j, b := range bs {
		if hitB[j] {
			countB++
			if killB {
				continue
			}
		}
		keptB = append(keptB, b)
	}
	return keptA, keptB, countA, countB
}
