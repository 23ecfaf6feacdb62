package invaders

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Command is the player's intent for one tick.
type Command int

const (
	CmdNone Command = iota
	CmdLeft
	CmdRight
	CmdFire
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdNone:
		return "none"
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdFire:
		return "fire"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Events reports what happened during one tick.
type Events struct {
	Killed       int  // Enemies destroyed by the player's laser
	PlayerHit    bool // The player lost a life
	LevelCleared bool // The last enemy died and a new level started
	Invaded      bool // The formation reached the player's row
	GameOver     bool
}

// World is the complete simulation state of one game.
// It has no notion of input devices or screens; the game and the environment drive it.
type World struct {
	cfg    config.InvadersConfig
	width  int
	height int
	seed   int64

	rng        *RNG
	difficulty *config.DifficultyManager

	player       *Player
	formation    *Formation
	blockades    *BlockadeField
	levels       *LevelGenerator
	board        *Scoreboard
	playerLasers *LaserSlot
	enemyLasers  *LaserSlot

	tick         int
	lastShot     int  // Tick of the player's last shot
	kills        int  // Enemies destroyed this game
	enemyArmed   bool // An enemy laser was in flight at the end of the last check
	enemyReadyAt int  // First tick at which enemies may fire again
	invaded      bool
	over         bool
}

// Minimum playfield size that fits the formation, the shields, and the player.
// The formation may raise the width further, see MinPlayfieldWidth.
const (
	MinWidth  = 40
	MinHeight = 20
)

// MinPlayfieldWidth returns the narrowest playfield on which neighbouring
// enemies of the grid do not overlap.
func MinPlayfieldWidth(cfg config.EnemyConfig) int {
	if cfg.Columns < 2 || cfg.GridSpan <= 0 {
		return MinWidth
	}
	gaps := float64(cfg.Columns - 1)
	w := int(math.Ceil(float64(cfg.Width) * gaps / cfg.GridSpan))
	for w > 1 && cfg.GridSpan*float64(w-1)/gaps >= float64(cfg.Width) {
		w--
	}
	for cfg.GridSpan*float64(w)/gaps < float64(cfg.Width) {
		w++
	}
	return max(MinWidth, w)
}

// NewWorld creates a world for a playfield of the given size and resets it.
func NewWorld(cfg config.InvadersConfig, width, height int, seed int64) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invaders: invalid config: %w", err)
	}
	if minW := MinPlayfieldWidth(cfg.Enemies); width < minW || height < MinHeight {
		return nil, fmt.Errorf("invaders: playfield %dx%d is smaller than %dx%d", width, height, minW, MinHeight)
	}
	blockades, err := NewBlockadeField(cfg.Blockades)
	if err != nil {
		return nil, err
	}

	w := &World{
		cfg:       cfg,
		width:     width,
		height:    height,
		blockades: blockades,
		levels:    NewLevelGenerator(cfg.Enemies, width, height),
		formation: NewFormation(cfg.Enemies.BlockTicks, cfg.Enemies.UnblockTicks),
	}
	w.Reset(seed)
	return w, nil
}

// Reset restores the initial state: full lives, fresh shields, and level 1.
func (w *World) Reset(seed int64) {
	w.seed = seed
	w.rng = NewRNG(seed)
	w.difficulty = config.NewDifficultyManager(w.cfg.Difficulty)

	w.player = &Player{
		X:     float64((w.width - w.cfg.Player.Width) / 2),
		Y:     w.PlayerRow(),
		Width: w.cfg.Player.Width,
	}
	w.playerLasers = NewLaserSlot(Up, w.height)
	w.enemyLasers = NewLaserSlot(Down, w.height)

	w.board = NewScoreboard(0)
	for i := 0; i < w.cfg.Player.Lives; i++ {
		w.board.AddLife()
	}

	w.blockades.Build(w.width, w.PlayerRow()-1-w.cfg.Blockades.Gap)
	w.levels.Reset()
	w.formation.Reset(w.levels.Next(), w.cfg.Enemies.BaseSpeed)

	w.tick = 0
	w.lastShot = -w.cfg.Player.ShotCooldown - 1
	w.kills = 0
	w.enemyArmed = false
	w.enemyReadyAt = 0
	w.invaded = false
	w.over = false
}

// Step advances the simulation by one tick.
func (w *World) Step(cmd Command) Events {
	var ev Events
	if w.over {
		ev.GameOver = true
		return ev
	}

	w.formation.Tick()

	w.handleCommand(cmd)

	w.playerLasers.Move()
	w.enemyLasers.Move()

	w.laserHitsShield(w.enemyLasers)
	w.laserHitsShield(w.playerLasers)

	if l := w.enemyLasers.Laser(); l != nil && l.Rect().Intersects(w.player.Rect()) {
		w.enemyLasers.Clear()
		if err := w.board.RemoveLife(); err == nil {
			ev.PlayerHit = true
		}
	}

	ev.Killed = w.laserHitsEnemies()

	if w.formation.Len() == 0 {
		w.nextLevel()
		ev.LevelCleared = true
	}

	if !w.formation.Blocked {
		w.moveFormation()
	}
	ev.Invaded = w.invaded

	w.enemyFire()

	if w.board.Lives() == 0 || w.invaded {
		w.over = true
		ev.GameOver = true
	}

	w.tick++
	return ev
}

func (w *World) handleCommand(cmd Command) {
	switch cmd {
	case CmdLeft:
		w.player.X -= w.cfg.Player.Speed
	case CmdRight:
		w.player.X += w.cfg.Player.Speed
	case CmdFire:
		if w.playerLasers.Empty() && w.tick-w.lastShot > w.cfg.Player.ShotCooldown {
			w.playerLasers.Fire(float64(w.player.Muzzle()), float64(w.player.Y-1), w.cfg.Lasers.PlayerSpeed)
			w.lastShot = w.tick
		}
	}
	w.player.X = core.ClampF(w.player.X, 0, float64(w.width-w.player.Width))
}

// laserHitsShield removes the slot's laser and every shield piece it touches.
func (w *World) laserHitsShield(slot *LaserSlot) {
	l := slot.Laser()
	if l == nil {
		return
	}
	_, pieces, hit, _ := collide([]*Laser{l}, w.blockades.Pieces, true, true)
	if hit > 0 {
		w.blockades.Pieces = pieces
		slot.Clear()
	}
}

// laserHitsEnemies removes the player's laser and every enemy it touches.
// It returns the number of enemies destroyed.
func (w *World) laserHitsEnemies() int {
	l := w.playerLasers.Laser()
	if l == nil {
		return 0
	}
	_, survivors, _, killed := collide([]*Laser{l}, w.formation.Enemies, true, true)
	if killed == 0 {
		return 0
	}
	w.playerLasers.Clear()
	w.formation.Enemies = survivors
	w.board.AddPoints(killed * w.cfg.Scoring.EnemyPoints)

	for i := 0; i < killed; i++ {
		w.kills++
		if w.kills%w.cfg.Enemies.SpeedUpEvery == 0 {
			w.formation.SetSpeed(w.formation.Speed() * w.cfg.Enemies.SpeedUpFactor)
		}
	}
	return killed
}

func (w *World) nextLevel() {
	enemies := w.levels.Next()
	speed := w.cfg.Enemies.BaseSpeed * w.cfg.Enemies.LevelSpeedFactor * float64(w.levels.Level())
	w.formation.Reset(enemies, speed)
	w.checkInvasion()
}

// moveFormation moves the enemies, turns them at the walls, and lets them erode the shields.
func (w *World) moveFormation() {
	w.formation.Move()
	if w.formation.OutOfBounds(w.width) {
		w.formation.DropRow(w.cfg.Enemies.RowDrop)
		w.formation.Reverse()
		w.formation.ShiftInside(w.width)
	}

	_, pieces, _, eroded := collide(w.formation.Enemies, w.blockades.Pieces, false, true)
	if eroded > 0 {
		w.blockades.Pieces = pieces
	}

	w.checkInvasion()
}

// checkInvasion marks the game invaded once an enemy reaches below the player row.
func (w *World) checkInvasion() {
	if w.formation.Len() > 0 && w.formation.Bottom() > w.PlayerRow() {
		w.invaded = true
	}
}

// enemyFire lets a random enemy shoot once the previous enemy laser is gone
// and the fire delay has passed.
func (w *World) enemyFire() {
	if w.enemyArmed && w.enemyLasers.Empty() {
		w.enemyArmed = false
		w.enemyReadyAt = w.tick + w.difficulty.FireDelay(w.cfg.Enemies.FireDelay, w.board.Score(), w.tick)
	}
	if !w.enemyLasers.Empty() || w.formation.Blocked || w.tick < w.enemyReadyAt {
		return
	}
	e := w.formation.Choose(w.rng)
	if e == nil {
		return
	}
	r := e.Rect()
	speed := w.difficulty.Speed(w.cfg.Lasers.EnemySpeed, w.board.Score(), w.tick)
	w.enemyLasers.Fire(float64(r.X+r.W/2), float64(r.Bottom()), speed)
	w.enemyArmed = true
}

// PlayerRow returns the row the player moves along.
func (w *World) PlayerRow() int {
	return w.height - 2
}

// Width returns the playfield width.
func (w *World) Width() int { return w.width }

// Height returns the playfield height.
func (w *World) Height() int { return w.height }

// Tick returns the number of completed ticks.
func (w *World) Tick() int { return w.tick }

// Score returns the current score.
func (w *World) Score() int { return w.board.Score() }

// Lives returns the remaining lives.
func (w *World) Lives() int { return w.board.Lives() }

// Level returns the current level number, starting at 1.
func (w *World) Level() int { return w.levels.Level() }

// Kills returns the number of enemies destroyed this game.
func (w *World) Kills() int { return w.kills }

// Over reports whether the game has ended.
func (w *World) Over() bool { return w.over }

// Invaded reports whether the game ended because the formation reached the player.
func (w *World) Invaded() bool { return w.invaded }

// Remaining returns the number of living enemies.
func (w *World) Remaining() int { return w.formation.Len() }

// EnemyAdvance returns the lowest enemy edge as a fraction of the playfield height.
func (w *World) EnemyAdvance() float64 {
	return float64(w.formation.Bottom()) / float64(w.height)
}

// Player returns the player.
func (w *World) Player() *Player { return w.player }

// Formation returns the enemy formation.
func (w *World) Formation() *Formation { return w.formation }

// Blockades returns the shield field.
func (w *World) Blockades() *BlockadeField { return w.blockades }

// PlayerLaser returns the player's laser in flight, or nil.
func (w *World) PlayerLaser() *Laser { return w.playerLasers.Laser() }

// EnemyLaser returns the enemy laser in flight, or nil.
func (w *World) EnemyLaser() *Laser { return w.enemyLasers.Laser() }
