// Package config provides YAML-based game configuration loading and
// difficulty management for the invaders game and its environment.
package config

// InvadersConfig contains all tunable parameters of the game.
// Distances are in terminal cells, speeds in cells per tick, durations in ticks.
type InvadersConfig struct {
	Player     PlayerConfig     `yaml:"player"`
	Enemies    EnemyConfig      `yaml:"enemies"`
	Lasers     LaserConfig      `yaml:"lasers"`
	Blockades  BlockadeConfig   `yaml:"blockades"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Env        EnvConfig        `yaml:"env"`
}

// PlayerConfig defines the laser cannon.
type PlayerConfig struct {
	Speed        float64 `yaml:"speed"`
	Width        int     `yaml:"width"`
	Lives        int     `yaml:"lives"`
	ShotCooldown int     `yaml:"shot_cooldown"` // Minimum ticks between player shots
}

// EnemyConfig defines the invader formation and its movement.
type EnemyConfig struct {
	Columns      int     `yaml:"columns"`
	Rows         int     `yaml:"rows"`
	Width        int     `yaml:"width"`
	RowSpacing   int     `yaml:"row_spacing"`
	Top          int     `yaml:"top"`           // Row of the first enemy line on level 1
	GridLeft     float64 `yaml:"grid_left"`     // Left edge of the grid as a fraction of the width
	GridSpan     float64 `yaml:"grid_span"`     // Horizontal extent of the grid as a fraction of the width
	LevelDrop    float64 `yaml:"level_drop"`    // Extra start depth per level as a fraction of the height
	RowDrop      int     `yaml:"row_drop"`      // Rows descended when the formation hits a wall
	BaseSpeed    float64 `yaml:"base_speed"`    // Horizontal speed on level 1
	BlockTicks   int     `yaml:"block_ticks"`   // Ticks the formation stands still
	UnblockTicks int     `yaml:"unblock_ticks"` // Ticks the formation moves between pauses
	FireDelay    int     `yaml:"fire_delay"`    // Ticks between an enemy laser leaving and the next shot

	SpeedUpEvery     int     `yaml:"speedup_every"`      // Kills between speed-ups
	SpeedUpFactor    float64 `yaml:"speedup_factor"`     // Speed multiplier applied per speed-up
	LevelSpeedFactor float64 `yaml:"level_speed_factor"` // New level speed = base * factor * level
}

// LaserConfig defines laser speeds.
type LaserConfig struct {
	PlayerSpeed float64 `yaml:"player_speed"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
}

// BlockadeConfig defines the destructible shields.
type BlockadeConfig struct {
	Count  int      `yaml:"count"`
	Margin float64  `yaml:"margin"` // Centre of the first shield as a fraction of the width
	Spread float64  `yaml:"spread"` // Distance from first to last shield centre as a fraction of the width
	Gap    int      `yaml:"gap"`    // Rows between the shield bottom and the player
	Shape  []string `yaml:"shape"`  // '#' = piece, anything else = hole
}

// ScoringConfig defines points awarded.
type ScoringConfig struct {
	EnemyPoints int `yaml:"enemy_points"`
}

// EnvConfig defines the reinforcement-learning environment.
type EnvConfig struct {
	Width           int           `yaml:"width"`      // Playfield width in cells
	Height          int           `yaml:"height"`     // Playfield height in cells
	ObsWidth        int           `yaml:"obs_width"`  // Observation width in pixels
	ObsHeight       int           `yaml:"obs_height"` // Observation height in pixels
	RenderMode      string        `yaml:"render_mode"`
	MaxEpisodeSteps int           `yaml:"max_episode_steps"` // 0 = unlimited
	Rewards         RewardsConfig `yaml:"rewards"`
}

// RewardsConfig defines the environment reward for each event.
type RewardsConfig struct {
	EnemyKill    float64 `yaml:"enemy_kill"`
	PlayerDamage float64 `yaml:"player_damage"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier    float64 `yaml:"speed_multiplier"`     // Added to enemy laser speed at max difficulty
	FireDelayReduction int     `yaml:"fire_delay_reduction"` // Enemy fire delay reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
