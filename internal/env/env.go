// Package env wraps the invaders simulation in a reset/step environment
// for reinforcement-learning agents.
package env

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
)

var (
	// ErrInvalidAction is returned by Step for actions outside the action space.
	ErrInvalidAction = errors.New("env: invalid action")
	// ErrEpisodeDone is returned by Step after the episode terminated or was truncated.
	ErrEpisodeDone = errors.New("env: episode is done, call Reset")
	// ErrUnsupportedOptions is returned by Reset when reset options are given.
	ErrUnsupportedOptions = errors.New("env: reset options are not supported")
	// ErrUnknownEnv is returned by Make for unregistered IDs.
	ErrUnknownEnv = errors.New("env: unknown environment")
)

// Action is an index into the action space.
type Action int

const (
	ActionNoop Action = iota
	ActionLeft
	ActionRight
	ActionFire
)

// NumActions is the size of the action space.
const NumActions = 4

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNoop:
		return "noop"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionFire:
		return "fire"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// command maps an action to a simulation command.
func (a Action) command() invaders.Command {
	switch a {
	case ActionLeft:
		return invaders.CmdLeft
	case ActionRight:
		return invaders.CmdRight
	case ActionFire:
		return invaders.CmdFire
	default:
		return invaders.CmdNone
	}
}

// Info carries diagnostics alongside each observation.
type Info struct {
	EnemyAdvance     float64 // Lowest enemy edge as a fraction of the playfield height
	RemainingEnemies int
	PlayerLives      int
	GameTime         int // Ticks since reset
	Score            int
	Level            int
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool // The game ended: no lives left or the formation reached the player
	Truncated   bool // The step limit was reached
	Info        Info
}

// Done reports whether the episode is over.
func (r StepResult) Done() bool {
	return r.Terminated || r.Truncated
}

// ResetOptions mirrors the keyword arguments of a reset call.
// Options must be nil; the environment has no reset-time options.
type ResetOptions struct {
	Seed    *int64
	Options map[string]any
}

// Options configures a new environment.
type Options struct {
	Config          config.InvadersConfig
	RenderMode      RenderMode
	Seed            int64
	MaxEpisodeSteps int // 0 = unlimited

	renderModeSet bool
	maxStepsSet   bool
}

// Option modifies Options.
type Option func(*Options)

// WithConfig replaces the game configuration. The render mode and step limit
// come from its env section unless WithRenderMode or WithMaxEpisodeSteps is
// also given, in any order.
func WithConfig(cfg config.InvadersConfig) Option {
	return func(o *Options) {
		o.Config = cfg
		if !o.renderModeSet {
			o.RenderMode = RenderMode(cfg.Env.RenderMode)
		}
		if !o.maxStepsSet {
			o.MaxEpisodeSteps = cfg.Env.MaxEpisodeSteps
		}
	}
}

// WithRenderMode selects the observation format.
func WithRenderMode(mode RenderMode) Option {
	return func(o *Options) {
		o.RenderMode = mode
		o.renderModeSet = true
	}
}

// WithSeed sets the seed of the first episode.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithMaxEpisodeSteps truncates episodes after n steps.
func WithMaxEpisodeSteps(n int) Option {
	return func(o *Options) {
		o.MaxEpisodeSteps = n
		o.maxStepsSet = true
	}
}

// DefaultOptions returns options built from the embedded configuration.
func DefaultOptions() Options {
	cfg := config.Default()
	return Options{
		Config:          cfg,
		RenderMode:      RenderMode(cfg.Env.RenderMode),
		MaxEpisodeSteps: cfg.Env.MaxEpisodeSteps,
	}
}

// Env is a single-agent invaders environment. It is not safe for concurrent use.
type Env struct {
	opts   Options
	world  *invaders.World
	raster *rasterizer
	seeder *invaders.RNG

	seed  int64
	steps int
	done  bool
}

// New creates an environment. The first episode is ready to step without Reset.
func New(opts ...Option) (*Env, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mode, err := ParseRenderMode(string(o.RenderMode))
	if err != nil {
		return nil, err
	}
	o.RenderMode = mode
	if o.MaxEpisodeSteps < 0 {
		return nil, fmt.Errorf("env: max episode steps must not be negative, got %d", o.MaxEpisodeSteps)
	}

	ec := o.Config.Env
	world, err := invaders.NewWorld(o.Config, ec.Width, ec.Height, o.Seed)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}

	return &Env{
		opts:   o,
		world:  world,
		raster: newRasterizer(ec.Width, ec.Height, ec.ObsWidth, ec.ObsHeight, mode),
		seeder: invaders.NewRNG(o.Seed),
		seed:   o.Seed,
	}, nil
}

// ActionSpace returns Discrete(4): noop, left, right, fire.
func (e *Env) ActionSpace() Discrete {
	return Discrete{N: NumActions}
}

// ObservationSpace returns the shape and bounds of observations.
func (e *Env) ObservationSpace() Box {
	return e.raster.space()
}

// RenderMode returns the observation format.
func (e *Env) RenderMode() RenderMode {
	return e.opts.RenderMode
}

// Seed returns the seed of the current episode.
func (e *Env) Seed() int64 {
	return e.seed
}

// Reset starts a new episode: fresh shields, the first level, and full lives.
// Without a seed the next episode seed is drawn from the environment's own sequence.
func (e *Env) Reset(opts ResetOptions) (Observation, Info, error) {
	if opts.Options != nil {
		return Observation{}, Info{}, ErrUnsupportedOptions
	}

	if opts.Seed != nil {
		e.seed = *opts.Seed
		e.seeder = invaders.NewRNG(e.seed)
	} else {
		e.seed = int64(e.seeder.Next() >> 1) //#nosec G115 -- shifted into the positive range
	}

	e.world.Reset(e.seed)
	e.steps = 0
	e.done = false

	return e.raster.observe(e.world), e.info(), nil
}

// Step applies one action and advances the game by one tick.
func (e *Env) Step(action Action) (StepResult, error) {
	if !e.ActionSpace().Contains(int(action)) {
		return StepResult{}, fmt.Errorf("%w: %d not in %s", ErrInvalidAction, int(action), e.ActionSpace())
	}
	if e.done {
		return StepResult{}, ErrEpisodeDone
	}

	ev := e.world.Step(action.command())
	e.steps++

	rewards := e.opts.Config.Env.Rewards
	reward := float64(ev.Killed) * rewards.EnemyKill
	if ev.PlayerHit {
		reward += rewards.PlayerDamage
	}

	res := StepResult{
		Observation: e.raster.observe(e.world),
		Reward:      reward,
		Terminated:  e.world.Over(),
		Truncated:   !e.world.Over() && e.opts.MaxEpisodeSteps > 0 && e.steps >= e.opts.MaxEpisodeSteps,
		Info:        e.info(),
	}
	e.done = res.Done()
	return res, nil
}

func (e *Env) info() Info {
	return Info{
		EnemyAdvance:     e.world.EnemyAdvance(),
		RemainingEnemies: e.world.Remaining(),
		PlayerLives:      e.world.Lives(),
		GameTime:         e.world.Tick(),
		Score:            e.world.Score(),
		Level:            e.world.Level(),
	}
}

// Frame draws the playfield below a one-row status line into dst, resizing it to fit.
func (e *Env) Frame(dst *core.Screen) {
	dst.Resize(e.world.Width(), e.world.Height()+1)
	dst.Clear()
	dst.DrawText(0, 0, fmt.Sprintf("Score: %d  Lives: %d  Level: %d  Tick: %d",
		e.world.Score(), e.world.Lives(), e.world.Level(), e.world.Tick()))
	e.world.Draw(dst, 1)
}

// Render returns the current frame as text.
func (e *Env) Render() string {
	screen := core.NewScreen(0, 0)
	e.Frame(screen)
	return strings.TrimRight(screen.String(), " \n")
}

// Steps returns the number of steps taken in the current episode.
func (e *Env) Steps() int {
	return e.steps
}

// Done reports whether the current episode has ended.
func (e *Env) Done() bool {
	return e.done
}

// World exposes the simulation for viewers and tests.
func (e *Env) World() *invaders.World {
	return e.world
}

// Close releases resources. The environment holds none; it exists for symmetry with Make.
func (e *Env) Close() error {
	return nil
}
