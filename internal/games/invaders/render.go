package invaders

import "github.com/vovakirdan/tui-invaders/internal/core"

// Visual characters for rendering
const (
	PlayerChar      = '█'
	PlayerTipChar   = '▲'
	PlayerLaserChar = '│'
	EnemyLaserChar  = '¦'
	BlockadeChar    = '█'
	GroundChar      = '─'
)

// Colors of each sprite type. Observation readers rely on them being distinct.
const (
	PlayerColor      = core.ColorBrightGreen
	PlayerLaserColor = core.ColorBrightYellow
	EnemyLaserColor  = core.ColorBrightRed
	BlockadeColor    = core.ColorGreen
	GroundColor      = core.ColorGray
)

// Enemy glyphs by class, two animation frames each.
var enemyGlyphs = [3][2]string{
	{`/@\`, `\@/`},
	{`{#}`, `}#{`},
	{`<o>`, `>o<`},
}

// EnemyColors holds the color of each enemy class.
var EnemyColors = [3]core.Color{
	core.ColorBrightMagenta,
	core.ColorBrightCyan,
	core.ColorOrange,
}

// enemyClass maps a grid row to one of the three enemy classes:
// the top row, the two rows below it, and the rest.
func enemyClass(row int) int {
	switch {
	case row <= 0:
		return 0
	case row < 3:
		return 1
	default:
		return 2
	}
}

// fitGlyph stretches or trims a glyph to the given width by repeating its middle rune.
func fitGlyph(glyph string, width int) []rune {
	runes := []rune(glyph)
	if len(runes) == width {
		return runes
	}
	out := make([]rune, width)
	mid := runes[len(runes)/2]
	for i := range out {
		out[i] = mid
	}
	if width >= 2 {
		out[0] = runes[0]
		out[width-1] = runes[len(runes)-1]
	}
	return out
}

// Draw renders the playfield into dst with its top row at screen row top.
func (w *World) Draw(dst *core.Screen, top int) {
	dst.DrawHLine(0, top+w.height-1, w.width, GroundChar, GroundColor)

	for _, b := range w.blockades.Pieces {
		dst.SetColor(b.X, top+b.Y, BlockadeChar, BlockadeColor)
	}

	frame := w.formation.Frame()
	for _, e := range w.formation.Enemies {
		class := enemyClass(e.Kind)
		r := e.Rect()
		for i, ch := range fitGlyph(enemyGlyphs[class][frame], e.Width) {
			dst.SetColor(r.X+i, top+r.Y, ch, EnemyColors[class])
		}
	}

	if l := w.playerLasers.Laser(); l != nil {
		dst.SetColor(cell(l.X), top+cell(l.Y), PlayerLaserChar, PlayerLaserColor)
	}
	if l := w.enemyLasers.Laser(); l != nil {
		dst.SetColor(cell(l.X), top+cell(l.Y), EnemyLaserChar, EnemyLaserColor)
	}

	pr := w.player.Rect()
	for x := pr.X; x < pr.Right(); x++ {
		dst.SetColor(x, top+pr.Y, PlayerChar, PlayerColor)
	}
	dst.SetColor(w.player.Muzzle(), top+pr.Y, PlayerTipChar, PlayerColor)
}
