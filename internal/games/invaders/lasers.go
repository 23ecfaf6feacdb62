package invaders

// Direction is the vertical travel direction of a laser.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// LaserSlot holds at most one live laser travelling in a fixed direction.
type LaserSlot struct {
	dir    Direction
	height int
	laser  *Laser
}

// NewLaserSlot creates an empty slot for a playfield of the given height.
func NewLaserSlot(dir Direction, height int) *LaserSlot {
	return &LaserSlot{dir: dir, height: height}
}

// Empty reports whether no laser is in flight.
func (s *LaserSlot) Empty() bool {
	return s.laser == nil
}

// Laser returns the live laser, or nil.
func (s *LaserSlot) Laser() *Laser {
	return s.laser
}

// Fire launches a laser from (x, y). It does nothing if a laser is already in flight.
func (s *LaserSlot) Fire(x, y, speed float64) bool {
	if s.laser != nil {
		return false
	}
	s.laser = &Laser{X: x, Y: y, PrevY: y, Speed: speed}
	return true
}

// Move advances the laser and removes it once its swept area has left the playfield.
func (s *LaserSlot) Move() {
	if s.laser == nil {
		return
	}
	l := s.laser
	l.PrevY = l.Y
	l.Y += float64(s.dir) * l.Speed

	r := l.Rect()
	if r.Bottom() <= 0 || r.Y >= s.height {
		s.laser = nil
	}
}

// Clear removes the live laser.
func (s *LaserSlot) Clear() {
	s.laser = nil
}

// restore places a laser directly, bypassing Fire. Used by snapshots.
func (s *LaserSlot) restore(l *Laser) {
	s.laser = l
}
