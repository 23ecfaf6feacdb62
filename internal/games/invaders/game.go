// Package invaders implements a Space Invaders style shooter.
// The World holds the simulation; Game adapts it to the game registry
// and the environment package drives it for reinforcement learning.
package invaders

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

// GameState constants
const (
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

// LifeChar is drawn once per remaining life in the HUD.
const LifeChar = '♥'

// hudRows is the number of screen rows above the playfield.
const hudRows = 1

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// LoadConfig loads the configuration from the CLI path and applies the CLI preset.
func LoadConfig() (config.InvadersConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Default(), err
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	return cfg, nil
}

func init() {
	registry.Register("invaders", func() registry.Game { return New() })
}

// Game implements the invaders game for the terminal platform.
type Game struct {
	world   *World
	state   string
	runtime core.RuntimeConfig
	cfg     config.InvadersConfig

	screenTooSmall bool
}

// New creates a new game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "invaders"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Space Invaders"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	// A broken custom config falls back to the defaults so the game stays playable
	cfg, err := LoadConfig()
	if err != nil {
		cfg = config.Default()
	}
	g.cfg = cfg

	g.screenTooSmall = runtime.ScreenW < MinPlayfieldWidth(cfg.Enemies) || runtime.ScreenH-hudRows < MinHeight
	g.state = StatePlaying
	if g.screenTooSmall {
		g.world = nil
		return
	}

	world, err := NewWorld(cfg, runtime.ScreenW, runtime.ScreenH-hudRows, runtime.Seed)
	if err != nil {
		world, _ = NewWorld(config.Default(), runtime.ScreenW, runtime.ScreenH-hudRows, runtime.Seed)
	}
	g.world = world
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall || g.world == nil {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && g.state == StateGameOver {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		if g.state == StatePaused {
			g.state = StatePlaying
		} else if g.state == StatePlaying {
			g.state = StatePaused
		}
	}

	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	ev := g.world.Step(CommandFromInput(in))
	if ev.GameOver {
		g.state = StateGameOver
	}

	return core.StepResult{State: g.State()}
}

// CommandFromInput maps platform actions to a simulation command.
// Fire takes precedence when several actions arrive in the same tick.
func CommandFromInput(in core.InputFrame) Command {
	switch {
	case in.Has(core.ActionFire):
		return CmdFire
	case in.Has(core.ActionLeft):
		return CmdLeft
	case in.Has(core.ActionRight):
		return CmdRight
	default:
		return CmdNone
	}
}

// Render draws the current game state.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Check for screen too small
	if g.screenTooSmall || g.world == nil {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", MinPlayfieldWidth(g.cfg.Enemies), MinHeight+hudRows)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	g.renderHUD(dst)
	g.world.Draw(dst, hudRows)
	g.renderOverlay(dst)
}

// renderHUD draws the score, lives, and level indicator.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.world.Score()))

	lives := "Lives: " + strings.Repeat(string(LifeChar), g.world.Lives())
	x := (dst.Width() - len([]rune(lives))) / 2
	dst.DrawText(x, 0, "Lives: ")
	dst.DrawTextColor(x+len("Lives: "), 0, strings.Repeat(string(LifeChar), g.world.Lives()), core.ColorBrightRed)

	levelText := fmt.Sprintf("Level: %d", g.world.Level())
	dst.DrawText(dst.Width()-len(levelText)-1, 0, levelText)
}

// renderOverlay draws pause and game over messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StatePaused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case StateGameOver:
		title := "GAME OVER"
		if g.world.Invaded() {
			title = "INVADED"
		}
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.world.Score())
		drawCenteredBox(dst, title, subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.world == nil {
		return core.GameState{Paused: g.state == StatePaused}
	}
	return core.GameState{
		Score:    g.world.Score(),
		Lives:    g.world.Lives(),
		Level:    g.world.Level(),
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// World returns the underlying simulation, or nil when the screen is too small.
func (g *Game) World() *World {
	return g.world
}

// Snapshot returns the current world state.
func (g *Game) Snapshot() Snapshot {
	if g.world == nil {
		return Snapshot{}
	}
	return g.world.Snapshot()
}
