package invaders

import "math"

// Snapshot contains the complete world state for replay and determinism checks.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick         int
	Seed         int64
	Score        int
	Lives        int
	Level        int
	Kills        int
	LastShot     int
	EnemyArmed   bool
	EnemyReadyAt int
	Invaded      bool
	Over         bool

	PlayerX float64

	// Formation state
	Blocked   bool
	Direction float64
	Speed     float64
	Phase     int
	MoveCount int

	// Each enemy is 3 values: X, Y, Kind
	EnemyData []float64

	// Each piece is 2 ints: X, Y
	BlockadeData []int

	// Each laser is 4 values: X, Y, PrevY, Speed (empty when no laser is in flight)
	PlayerLaser []float64
	EnemyLaser  []float64

	RNGState uint64
}

// Snapshot returns the current world state.
func (w *World) Snapshot() Snapshot {
	enemyData := make([]float64, 0, len(w.formation.Enemies)*3)
	for _, e := range w.formation.Enemies {
		enemyData = append(enemyData, e.X, e.Y, float64(e.Kind))
	}

	blockadeData := make([]int, 0, len(w.blockades.Pieces)*2)
	for _, b := range w.blockades.Pieces {
		blockadeData = append(blockadeData, b.X, b.Y)
	}

	return Snapshot{
		Tick:         w.tick,
		Seed:         w.seed,
		Score:        w.board.Score(),
		Lives:        w.board.Lives(),
		Level:        w.levels.Level(),
		Kills:        w.kills,
		LastShot:     w.lastShot,
		EnemyArmed:   w.enemyArmed,
		EnemyReadyAt: w.enemyReadyAt,
		Invaded:      w.invaded,
		Over:         w.over,

		PlayerX: w.player.X,

		Blocked:   w.formation.Blocked,
		Direction: w.formation.dir,
		Speed:     w.formation.speed,
		Phase:     w.formation.phase,
		MoveCount: w.formation.moveCount,

		EnemyData:    enemyData,
		BlockadeData: blockadeData,
		PlayerLaser:  laserData(w.playerLasers.Laser()),
		EnemyLaser:   laserData(w.enemyLasers.Laser()),

		RNGState: w.rng.State(),
	}
}

// ApplySnapshot restores world state from a snapshot.
// The world must have been created with the same config and playfield size.
func (w *World) ApplySnapshot(snap Snapshot) {
	w.tick = snap.Tick
	w.seed = snap.Seed
	w.board = NewScoreboard(snap.Lives)
	w.board.AddPoints(snap.Score)
	w.levels.restore(snap.Level)
	w.kills = snap.Kills
	w.lastShot = snap.LastShot
	w.enemyArmed = snap.EnemyArmed
	w.enemyReadyAt = snap.EnemyReadyAt
	w.invaded = snap.Invaded
	w.over = snap.Over

	w.player.X = snap.PlayerX

	enemies := make([]*Enemy, 0, len(snap.EnemyData)/3)
	for i := 0; i+2 < len(snap.EnemyData); i += 3 {
		enemies = append(enemies, &Enemy{
			X:     snap.EnemyData[i],
			Y:     snap.EnemyData[i+1],
			Kind:  int(snap.EnemyData[i+2]),
			Width: w.cfg.Enemies.Width,
		})
	}
	w.formation.Enemies = enemies
	w.formation.SetSpeed(snap.Speed)
	w.formation.Blocked = snap.Blocked
	w.formation.dir = snap.Direction
	w.formation.phase = snap.Phase
	w.formation.moveCount = snap.MoveCount

	pieces := make([]*Blockade, 0, len(snap.BlockadeData)/2)
	for i := 0; i+1 < len(snap.BlockadeData); i += 2 {
		pieces = append(pieces, &Blockade{X: snap.BlockadeData[i], Y: snap.BlockadeData[i+1]})
	}
	w.blockades.Pieces = pieces

	w.playerLasers.restore(laserFromData(snap.PlayerLaser))
	w.enemyLasers.restore(laserFromData(snap.EnemyLaser))

	w.rng.state = snap.RNGState
}

func laserData(l *Laser) []float64 {
	if l == nil {
		return nil
	}
	return []float64{l.X, l.Y, l.PrevY, l.Speed}
}

func laserFromData(data []float64) *Laser {
	if len(data) < 4 {
		return nil
	}
	return &Laser{X: data[0], Y: data[1], PrevY: data[2], Speed: data[3]}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Tick)               //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Seed)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Lives)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Level)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Kills)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.LastShot)     //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EnemyReadyAt) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Phase)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.MoveCount)    //#nosec G115 -- hash computation
	h = h*31 + boolBit(snap.EnemyArmed)
	h = h*31 + boolBit(snap.Invaded)
	h = h*31 + boolBit(snap.Over)
	h = h*31 + boolBit(snap.Blocked)

	h = h*31 + math.Float64bits(snap.PlayerX)
	h = h*31 + math.Float64bits(snap.Direction)
	h = h*31 + math.Float64bits(snap.Speed)

	for _, v := range snap.EnemyData {
		h = h*31 + math.Float64bits(v)
	}
	for _, v := range snap.BlockadeData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	for _, v := range snap.PlayerLaser {
		h = h*31 + math.Float64bits(v)
	}
	for _, v := range snap.EnemyLaser {
		h = h*31 + math.Float64bits(v)
	}

	h = h*31 + snap.RNGState

	return h
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
