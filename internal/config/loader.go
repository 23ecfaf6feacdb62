package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads the invaders configuration.
// Search order: customPath -> ~/.invaders/configs/invaders.yaml -> ./configs/invaders.yaml -> embedded default
// Files are decoded over the defaults, so a partial file only overrides the keys it sets.
func Load(customPath string) (InvadersConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return InvadersConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return InvadersConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("invaders.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "invaders.yaml")); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	return Default(), nil
}

// Default returns the embedded default configuration.
func Default() InvadersConfig {
	var cfg InvadersConfig
	if err := yaml.Unmarshal(defaultInvadersYAML, &cfg); err != nil {
		return DefaultInvadersConfig() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// parse decodes YAML over the defaults and validates the result.
func parse(data []byte) (InvadersConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return InvadersConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return InvadersConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func Marshal(cfg InvadersConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".invaders", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *InvadersConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.Lives = 5
		cfg.Enemies.BaseSpeed *= 0.8
		cfg.Enemies.FireDelay += 10
	case DifficultyHard:
		cfg.Player.Lives = 2
		cfg.Enemies.BaseSpeed *= 1.3
		cfg.Lasers.EnemySpeed *= 1.5
	}
}

// Validate reports every invalid setting.
func (c InvadersConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Player.Speed > 0, "player.speed must be positive, got %v", c.Player.Speed)
	check(c.Player.Width > 0, "player.width must be positive, got %d", c.Player.Width)
	check(c.Player.Lives > 0, "player.lives must be positive, got %d", c.Player.Lives)
	check(c.Player.ShotCooldown >= 0, "player.shot_cooldown must not be negative, got %d", c.Player.ShotCooldown)

	check(c.Enemies.Columns > 0, "enemies.columns must be positive, got %d", c.Enemies.Columns)
	check(c.Enemies.Rows > 0, "enemies.rows must be positive, got %d", c.Enemies.Rows)
	check(c.Enemies.Width > 0, "enemies.width must be positive, got %d", c.Enemies.Width)
	check(c.Enemies.RowSpacing > 0, "enemies.row_spacing must be positive, got %d", c.Enemies.RowSpacing)
	check(c.Enemies.RowDrop > 0, "enemies.row_drop must be positive, got %d", c.Enemies.RowDrop)
	check(c.Enemies.BaseSpeed > 0, "enemies.base_speed must be positive, got %v", c.Enemies.BaseSpeed)
	check(c.Enemies.BlockTicks >= 0, "enemies.block_ticks must not be negative, got %d", c.Enemies.BlockTicks)
	check(c.Enemies.UnblockTicks > 0, "enemies.unblock_ticks must be positive, got %d", c.Enemies.UnblockTicks)
	check(c.Enemies.SpeedUpEvery > 0, "enemies.speedup_every must be positive, got %d", c.Enemies.SpeedUpEvery)
	check(c.Enemies.SpeedUpFactor > 0, "enemies.speedup_factor must be positive, got %v", c.Enemies.SpeedUpFactor)
	check(c.Enemies.LevelSpeedFactor > 0, "enemies.level_speed_factor must be positive, got %v", c.Enemies.LevelSpeedFactor)
	check(c.Enemies.Top >= 0, "enemies.top must not be negative, got %d", c.Enemies.Top)
	check(c.Enemies.LevelDrop >= 0, "enemies.level_drop must not be negative, got %v", c.Enemies.LevelDrop)
	check(c.Enemies.Columns < 2 || c.Enemies.GridSpan > 0,
		"enemies.grid_span must be positive with more than one column, got %v", c.Enemies.GridSpan)
	check(c.Enemies.GridLeft >= 0 && c.Enemies.GridLeft+c.Enemies.GridSpan <= 1,
		"enemies.grid_left + enemies.grid_span must lie within [0, 1]")

	check(c.Lasers.PlayerSpeed > 0, "lasers.player_speed must be positive, got %v", c.Lasers.PlayerSpeed)
	check(c.Lasers.EnemySpeed > 0, "lasers.enemy_speed must be positive, got %v", c.Lasers.EnemySpeed)

	check(c.Blockades.Count >= 0, "blockades.count must not be negative, got %d", c.Blockades.Count)
	check(c.Blockades.Margin >= 0, "blockades.margin must not be negative, got %v", c.Blockades.Margin)
	check(c.Blockades.Spread >= 0, "blockades.spread must not be negative, got %v", c.Blockades.Spread)
	check(c.Blockades.Gap >= 0, "blockades.gap must not be negative, got %d", c.Blockades.Gap)

	check(c.Scoring.EnemyPoints >= 0, "scoring.enemy_points must not be negative, got %d", c.Scoring.EnemyPoints)
	if c.Blockades.Count > 0 {
		if err := validateShape(c.Blockades.Shape); err != nil {
			errs = append(errs, fmt.Errorf("blockades.shape: %w", err))
		}
	}

	check(c.Env.Width > 0 && c.Env.Height > 0, "env.width and env.height must be positive")
	check(c.Env.ObsWidth > 0 && c.Env.ObsHeight > 0, "env.obs_width and env.obs_height must be positive")
	check(c.Env.MaxEpisodeSteps >= 0, "env.max_episode_steps must not be negative, got %d", c.Env.MaxEpisodeSteps)

	switch c.Difficulty.Progression.Type {
	case "score", "time", "none", "":
	default:
		errs = append(errs, fmt.Errorf("difficulty.progression.type %q is not one of score, time, none", c.Difficulty.Progression.Type))
	}

	return errors.Join(errs...)
}

// validateShape checks that a blockade mask is a non-empty rectangle of '#' and '.'.
func validateShape(shape []string) error {
	if len(shape) == 0 {
		return errors.New("mask is empty")
	}
	width := len(shape[0])
	pieces := 0
	for i, row := range shape {
		if len(row) != width {
			return fmt.Errorf("row %d has width %d, expected %d", i, len(row), width)
		}
		if strings.Trim(row, "#.") != "" {
			return fmt.Errorf("row %d contains characters other than '#' and '.'", i)
		}
		pieces += strings.Count(row, "#")
	}
	if pieces == 0 {
		return errors.New("mask has no pieces")
	}
	return nil
}
