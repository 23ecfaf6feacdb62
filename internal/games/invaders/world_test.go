package invaders

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/tui-invaders/internal/config"
)

// newTestWorld creates an 80x30 world without shields and with a formation that stays put.
func newTestWorld(t *testing.T, mutate func(*config.InvadersConfig)) *World {
	t.Helper()
	cfg := config.Default()
	cfg.Blockades.Count = 0
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := NewWorld(cfg, 80, 30, 1)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	w.formation.blockLen = 1 << 30
	return w
}

func commandSequence(n int) []Command {
	cmds := make([]Command, n)
	for i := range cmds {
		switch {
		case i%7 == 0:
			cmds[i] = CmdFire
		case i%40 < 20:
			cmds[i] = CmdLeft
		default:
			cmds[i] = CmdRight
		}
	}
	return cmds
}

func TestWorldDeterminism(t *testing.T) {
	cfg := config.Default()
	cmds := commandSequence(1500)

	run := func() Snapshot {
		w, err := NewWorld(cfg, 80, 30, 12345)
		if err != nil {
			t.Fatalf("NewWorld() error = %v", err)
		}
		for _, c := range cmds {
			if ev := w.Step(c); ev.GameOver {
				break
			}
		}
		return w.Snapshot()
	}

	snap1 := run()
	snap2 := run()

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Score != snap2.Score {
		t.Errorf("Determinism failed: scores differ. Run1=%d, Run2=%d", snap1.Score, snap2.Score)
	}
	if snap1.Tick != snap2.Tick {
		t.Errorf("Determinism failed: tick counts differ. Run1=%d, Run2=%d", snap1.Tick, snap2.Tick)
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := config.Default()
	cmds := commandSequence(400)

	w1, _ := NewWorld(cfg, 80, 30, 99)
	for _, c := range cmds[:200] {
		w1.Step(c)
	}
	snap := w1.Snapshot()

	w2, _ := NewWorld(cfg, 80, 30, 7)
	w2.ApplySnapshot(snap)
	restored := w2.Snapshot()
	if diff := cmp.Diff(snap, restored); diff != "" {
		t.Fatalf("ApplySnapshot() mismatch (-want +got):\n%s", diff)
	}
	if restored.Hash() != snap.Hash() {
		t.Fatalf("ApplySnapshot() hash = %d, expected %d", restored.Hash(), snap.Hash())
	}

	for _, c := range cmds[200:] {
		w1.Step(c)
		w2.Step(c)
	}
	a, b := w1.Snapshot(), w2.Snapshot()
	if a.Hash() != b.Hash() {
		t.Errorf("worlds diverged after restore: %d vs %d", a.Hash(), b.Hash())
	}
}

func TestWorldReset(t *testing.T) {
	w, err := NewWorld(config.Default(), 80, 30, 3)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}

	if w.Lives() != 3 {
		t.Errorf("Lives() = %d, expected 3", w.Lives())
	}
	if w.Level() != 1 {
		t.Errorf("Level() = %d, expected 1", w.Level())
	}
	if w.Remaining() != 55 {
		t.Errorf("Remaining() = %d, expected 55", w.Remaining())
	}
	if w.Blockades().Len() != 4*16 {
		t.Errorf("Blockades().Len() = %d, expected 64", w.Blockades().Len())
	}
	if w.Player().Y != 28 {
		t.Errorf("Player().Y = %d, expected 28", w.Player().Y)
	}

	for _, c := range commandSequence(300) {
		w.Step(c)
	}
	w.Reset(3)
	if w.Tick() != 0 || w.Score() != 0 || w.Level() != 1 || w.Remaining() != 55 {
		t.Errorf("Reset() left tick=%d score=%d level=%d remaining=%d", w.Tick(), w.Score(), w.Level(), w.Remaining())
	}
}

func TestNewWorldRejectsSmallPlayfield(t *testing.T) {
	if _, err := NewWorld(config.Default(), 20, 10, 1); err == nil {
		t.Error("NewWorld(20x10) expected error")
	}
	cfg := config.Default()
	cfg.Player.Speed = 0
	if _, err := NewWorld(cfg, 80, 30, 1); err == nil {
		t.Error("NewWorld() with zero player speed expected error")
	}
}

func TestMinPlayfieldWidthSeparatesColumns(t *testing.T) {
	cfg := config.Default()
	minW := MinPlayfieldWidth(cfg.Enemies)
	if minW != 50 {
		t.Errorf("MinPlayfieldWidth() = %d, expected 50", minW)
	}

	if _, err := NewWorld(cfg, MinWidth, MinHeight, 1); err == nil {
		t.Errorf("NewWorld(%dx%d) expected error for an overlapping grid", MinWidth, MinHeight)
	}

	w, err := NewWorld(cfg, minW, MinHeight, 1)
	if err != nil {
		t.Fatalf("NewWorld(%dx%d) error = %v", minW, MinHeight, err)
	}
	enemies := w.formation.Enemies
	for i := 1; i < len(enemies); i++ {
		a, b := enemies[i-1], enemies[i]
		if a.Kind == b.Kind && a.Rect().Intersects(b.Rect()) {
			t.Errorf("enemies %d and %d overlap: %+v %+v", i-1, i, a.Rect(), b.Rect())
		}
	}
}

func TestMinPlayfieldWidthSingleColumn(t *testing.T) {
	cfg := config.Default().Enemies
	cfg.Columns = 1
	if got := MinPlayfieldWidth(cfg); got != MinWidth {
		t.Errorf("MinPlayfieldWidth() = %d, expected %d", got, MinWidth)
	}
}

func TestPlayerMovementClamped(t *testing.T) {
	w := newTestWorld(t, nil)

	for i := 0; i < 200; i++ {
		w.Step(CmdLeft)
	}
	if w.Player().X != 0 {
		t.Errorf("Player().X = %v, expected 0", w.Player().X)
	}

	for i := 0; i < 200; i++ {
		w.Step(CmdRight)
	}
	if got, want := w.Player().X, float64(80-3); got != want {
		t.Errorf("Player().X = %v, expected %v", got, want)
	}
}

func TestPlayerFireCooldown(t *testing.T) {
	w := newTestWorld(t, nil)
	w.formation.Reset([]*Enemy{{X: 0, Y: 2, Width: 3}}, 0)
	w.formation.blockLen = 1 << 30

	w.Step(CmdFire)
	if w.PlayerLaser() == nil {
		t.Fatal("expected a laser after firing")
	}

	// Wait until the laser leaves the playfield
	for i := 0; i < 40 && w.PlayerLaser() != nil; i++ {
		w.Step(CmdNone)
	}
	if w.PlayerLaser() != nil {
		t.Fatal("laser never left the playfield")
	}

	w.lastShot = w.tick - 1
	w.Step(CmdFire)
	if w.PlayerLaser() != nil {
		t.Error("fired during cooldown")
	}
}

func TestPlayerKillsEnemy(t *testing.T) {
	w := newTestWorld(t, nil)
	target := &Enemy{X: 39, Y: 10, Width: 3}
	other := &Enemy{X: 0, Y: 2, Width: 3}
	w.formation.Reset([]*Enemy{target, other}, 0)
	w.formation.blockLen = 1 << 30
	w.player.X = 38 // muzzle at column 39

	var killed int
	for i := 0; i < 40 && killed == 0; i++ {
		cmd := CmdNone
		if i == 0 {
			cmd = CmdFire
		}
		killed = w.Step(cmd).Killed
	}

	if killed != 1 {
		t.Fatalf("Killed = %d, expected 1", killed)
	}
	if w.Score() != 5 {
		t.Errorf("Score() = %d, expected 5", w.Score())
	}
	if w.Remaining() != 1 {
		t.Errorf("Remaining() = %d, expected 1", w.Remaining())
	}
	if w.PlayerLaser() != nil {
		t.Error("laser survived the hit")
	}
}

func TestSpeedUpEveryNinthKill(t *testing.T) {
	w := newTestWorld(t, nil)
	w.formation.Reset([]*Enemy{{X: 39, Y: 10, Width: 3}, {X: 0, Y: 2, Width: 3}}, 0.5)
	w.formation.blockLen = 1 << 30
	w.player.X = 38
	w.kills = 8

	for i := 0; i < 40 && w.Kills() == 8; i++ {
		cmd := CmdNone
		if i == 0 {
			cmd = CmdFire
		}
		w.Step(cmd)
	}

	if w.Kills() != 9 {
		t.Fatalf("Kills() = %d, expected 9", w.Kills())
	}
	if got := w.formation.Speed(); math.Abs(got-0.55) > 1e-9 {
		t.Errorf("Speed() = %v, expected 0.55", got)
	}
}

func TestOneShotKillsOverlappingEnemies(t *testing.T) {
	w := newTestWorld(t, nil)
	w.formation.Reset([]*Enemy{
		{X: 38, Y: 10, Width: 3},
		{X: 39, Y: 10, Width: 3},
		{X: 0, Y: 2, Width: 3},
	}, 0.5)
	w.formation.blockLen = 1 << 30
	w.player.X = 38
	w.kills = 8

	var killed int
	for i := 0; i < 40 && killed == 0; i++ {
		cmd := CmdNone
		if i == 0 {
			cmd = CmdFire
		}
		killed = w.Step(cmd).Killed
	}

	if killed != 2 {
		t.Fatalf("Killed = %d, expected 2", killed)
	}
	if w.Score() != 10 {
		t.Errorf("Score() = %d, expected 10", w.Score())
	}
	if w.Kills() != 10 {
		t.Errorf("Kills() = %d, expected 10", w.Kills())
	}
	// Kill 9 falls inside the shot and speeds the formation up once
	if got := w.formation.Speed(); math.Abs(got-0.55) > 1e-9 {
		t.Errorf("Speed() = %v, expected 0.55", got)
	}
	if w.Remaining() != 1 {
		t.Errorf("Remaining() = %d, expected 1", w.Remaining())
	}
}

func TestLevelCleared(t *testing.T) {
	w := newTestWorld(t, nil)
	w.formation.Reset([]*Enemy{{X: 39, Y: 10, Width: 3}}, 0)
	w.formation.blockLen = 1 << 30
	w.player.X = 38

	cleared := false
	for i := 0; i < 40 && !cleared; i++ {
		cmd := CmdNone
		if i == 0 {
			cmd = CmdFire
		}
		cleared = w.Step(cmd).LevelCleared
	}

	if !cleared {
		t.Fatal("expected LevelCleared")
	}
	if w.Level() != 2 {
		t.Errorf("Level() = %d, expected 2", w.Level())
	}
	if w.Remaining() != 55 {
		t.Errorf("Remaining() = %d, expected 55", w.Remaining())
	}
	want := 0.5 * 1.05 * 2
	if got := w.formation.Speed(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Speed() = %v, expected %v", got, want)
	}
	if !w.formation.Blocked {
		t.Error("new level should start blocked")
	}
}

func TestEnemyLaserHitsPlayer(t *testing.T) {
	w := newTestWorld(t, nil)
	w.enemyLasers.Fire(float64(w.Player().Muzzle()), float64(w.PlayerRow()-1), 0.5)

	hit := false
	for i := 0; i < 5 && !hit; i++ {
		hit = w.Step(CmdNone).PlayerHit
	}

	if !hit {
		t.Fatal("expected PlayerHit")
	}
	if w.Lives() != 2 {
		t.Errorf("Lives() = %d, expected 2", w.Lives())
	}
	if w.EnemyLaser() != nil {
		t.Error("enemy laser survived the hit")
	}
	if w.Over() {
		t.Error("game over with lives left")
	}
}

func TestGameOverWhenNoLives(t *testing.T) {
	w := newTestWorld(t, func(cfg *config.InvadersConfig) { cfg.Player.Lives = 1 })
	w.enemyLasers.Fire(float64(w.Player().Muzzle()), float64(w.PlayerRow()-1), 0.5)

	var ev Events
	for i := 0; i < 5 && !ev.GameOver; i++ {
		ev = w.Step(CmdNone)
	}

	if !ev.GameOver || !ev.PlayerHit {
		t.Fatalf("Events = %+v, expected PlayerHit and GameOver", ev)
	}
	tick := w.Tick()
	if ev := w.Step(CmdFire); !ev.GameOver {
		t.Error("Step() after game over should keep reporting GameOver")
	}
	if w.Tick() != tick {
		t.Errorf("Tick() = %d after game over, expected %d", w.Tick(), tick)
	}
}

func TestInvasionEndsGame(t *testing.T) {
	w := newTestWorld(t, nil)
	w.formation.Reset([]*Enemy{{X: 10, Y: float64(w.PlayerRow()), Width: 3}}, 0.5)
	w.formation.Blocked = false
	w.formation.moveLen = 1 << 30

	ev := w.Step(CmdNone)
	if !ev.Invaded || !ev.GameOver {
		t.Errorf("Events = %+v, expected Invaded and GameOver", ev)
	}
	if !w.Invaded() {
		t.Error("Invaded() = false")
	}
}

func TestLevelSpawnedBelowPlayerInvades(t *testing.T) {
	// Level 2 starts 27 rows lower, past the player row
	w := newTestWorld(t, func(cfg *config.InvadersConfig) { cfg.Enemies.LevelDrop = 0.9 })
	w.formation.Reset([]*Enemy{{X: 39, Y: 10, Width: 3}}, 0)
	w.formation.blockLen = 1 << 30
	w.player.X = 38

	var ev Events
	for i := 0; i < 40 && !ev.LevelCleared; i++ {
		cmd := CmdNone
		if i == 0 {
			cmd = CmdFire
		}
		ev = w.Step(cmd)
	}

	if !ev.LevelCleared || !ev.Invaded || !ev.GameOver {
		t.Errorf("Events = %+v, expected LevelCleared, Invaded and GameOver in one step", ev)
	}
	if !w.formation.Blocked {
		t.Error("invasion should not wait for the formation to move")
	}
}

func TestFormationTurnsAtWall(t *testing.T) {
	w := newTestWorld(t, nil)
	w.formation.Reset([]*Enemy{{X: 76.8, Y: 4, Width: 3}}, 0.5)
	w.formation.Blocked = false
	w.formation.moveLen = 1 << 30

	w.Step(CmdNone)

	e := w.formation.Enemies[0]
	if e.Y != 5 {
		t.Errorf("enemy Y = %v, expected 5 after dropping a row", e.Y)
	}
	if w.formation.Direction() != -1 {
		t.Errorf("Direction() = %v, expected -1", w.formation.Direction())
	}
	if e.X+float64(e.Width) > 80 {
		t.Errorf("enemy right edge %v outside playfield", e.X+float64(e.Width))
	}
}

func TestShieldAbsorbsLasers(t *testing.T) {
	w, err := NewWorld(config.Default(), 80, 30, 1)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	w.formation.blockLen = 1 << 30

	// First shield spans columns 9..15; column 12 has pieces on its top two rows
	w.player.X = 11
	before := w.Blockades().Len()

	var ev Events
	for i := 0; i < 10; i++ {
		cmd := CmdNone
		if i == 0 {
			cmd = CmdFire
		}
		ev = w.Step(cmd)
	}

	if w.PlayerLaser() != nil {
		t.Error("laser passed through the shield")
	}
	if w.Blockades().Len() >= before {
		t.Errorf("Blockades().Len() = %d, expected fewer than %d", w.Blockades().Len(), before)
	}
	if w.Score() != 0 || ev.Killed != 0 {
		t.Errorf("shield hit scored %d points", w.Score())
	}
}

func TestEnemiesErodeShields(t *testing.T) {
	w, err := NewWorld(config.Default(), 80, 30, 1)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	piece := w.Blockades().Pieces[0]
	w.formation.Reset([]*Enemy{{X: float64(piece.X - 1), Y: float64(piece.Y), Width: 3}}, 0.1)
	w.formation.Blocked = false
	w.formation.moveLen = 1 << 30
	before := w.Blockades().Len()

	w.Step(CmdNone)

	if w.Blockades().Len() >= before {
		t.Errorf("Blockades().Len() = %d, expected fewer than %d", w.Blockades().Len(), before)
	}
	if w.Remaining() != 1 {
		t.Errorf("Remaining() = %d, expected the enemy to survive", w.Remaining())
	}
}

func TestEnemiesFireOnlyWhenUnblocked(t *testing.T) {
	w := newTestWorld(t, nil)
	for i := 0; i < 10; i++ {
		w.Step(CmdNone)
	}
	if w.EnemyLaser() != nil {
		t.Fatal("blocked formation fired")
	}

	w.formation.Blocked = false
	w.formation.moveLen = 1 << 30
	w.Step(CmdNone)
	l := w.EnemyLaser()
	if l == nil {
		t.Fatal("unblocked formation did not fire")
	}
	if l.Speed != w.difficulty.Speed(0.5, 0, 0) {
		t.Errorf("laser speed = %v, expected %v", l.Speed, w.difficulty.Speed(0.5, 0, 0))
	}
}

func TestEnemyFireDelay(t *testing.T) {
	w := newTestWorld(t, func(cfg *config.InvadersConfig) {
		cfg.Enemies.FireDelay = 5
		cfg.Difficulty.Enabled = false
	})
	w.formation.Blocked = false
	w.formation.moveLen = 1 << 30

	w.Step(CmdNone)
	if w.EnemyLaser() == nil {
		t.Fatal("expected an enemy laser")
	}
	w.enemyLasers.Clear()

	w.Step(CmdNone)
	if w.EnemyLaser() != nil {
		t.Fatal("enemy fired before the delay passed")
	}
	for i := 0; i < 5; i++ {
		w.Step(CmdNone)
	}
	if w.EnemyLaser() == nil {
		t.Error("enemy did not fire after the delay")
	}
}

func TestEnemyAdvance(t *testing.T) {
	w := newTestWorld(t, nil)
	// Bottom row of level 1 is at 2 + 4*2 = 10, so its lower edge is 11
	want := 11.0 / 30.0
	if got := w.EnemyAdvance(); math.Abs(got-want) > 1e-9 {
		t.Errorf("EnemyAdvance() = %v, expected %v", got, want)
	}
}

func TestScoreboard(t *testing.T) {
	s := NewScoreboard(0)
	if err := s.RemoveLife(); !errors.Is(err, ErrNoLives) {
		t.Errorf("RemoveLife() error = %v, expected ErrNoLives", err)
	}
	s.AddLife()
	s.AddLife()
	s.AddPoints(10)
	if err := s.RemoveLife(); err != nil {
		t.Errorf("RemoveLife() error = %v", err)
	}
	if s.Lives() != 1 || s.Score() != 10 {
		t.Errorf("Lives()=%d Score()=%d, expected 1 and 10", s.Lives(), s.Score())
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CmdNone, "none"},
		{CmdLeft, "left"},
		{CmdRight, "right"},
		{CmdFire, "fire"},
		{Command(9), "command(9)"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("Command(%d).String() = %q, expected %q", int(tt.cmd), got, tt.want)
		}
	}
}
