package invaders

import "github.com/vovakirdan/tui-invaders/internal/config"

// LevelGenerator produces the enemy grid of each level.
// Every level starts a little lower than the previous one.
type LevelGenerator struct {
	cfg    config.EnemyConfig
	width  int
	height int
	level  int
}

// NewLevelGenerator creates a generator for a playfield of the given size.
func NewLevelGenerator(cfg config.EnemyConfig, width, height int) *LevelGenerator {
	return &LevelGenerator{cfg: cfg, width: width, height: height}
}

// Level returns the number of the last generated level (0 before the first).
func (g *LevelGenerator) Level() int {
	return g.level
}

// Reset returns to level 0.
func (g *LevelGenerator) Reset() {
	g.level = 0
}

// Next advances to the next level and returns its enemies.
func (g *LevelGenerator) Next() []*Enemy {
	g.level++

	w := float64(g.width)
	step := 0.0
	if g.cfg.Columns > 1 {
		step = g.cfg.GridSpan * w / float64(g.cfg.Columns-1)
	}
	offset := g.cfg.LevelDrop * float64(g.height) * float64(g.level-1)

	enemies := make([]*Enemy, 0, g.cfg.Columns*g.cfg.Rows)
	for y := 0; y < g.cfg.Rows; y++ {
		for x := 0; x < g.cfg.Columns; x++ {
			enemies = append(enemies, &Enemy{
				X:     float64(x)*step + g.cfg.GridLeft*w,
				Y:     float64(g.cfg.Top+y*g.cfg.RowSpacing) + offset,
				Width: g.cfg.Width,
				Kind:  y,
			})
		}
	}
	return enemies
}

// restore sets the level number. Used by snapshots.
func (g *LevelGenerator) restore(level int) {
	g.level = level
}
