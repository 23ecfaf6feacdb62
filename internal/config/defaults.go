package config

import (
	_ "embed"
)

//go:embed defaults/invaders.yaml
var defaultInvadersYAML []byte

// DefaultInvadersConfig returns the built-in configuration.
// It mirrors defaults/invaders.yaml and is used when the embedded file cannot be parsed.
func DefaultInvadersConfig() InvadersConfig {
	return InvadersConfig{
		Player: PlayerConfig{
			Speed:        1.0,
			Width:        3,
			Lives:        3,
			ShotCooldown: 10,
		},
		Enemies: EnemyConfig{
			Columns:          11,
			Rows:             5,
			Width:            3,
			RowSpacing:       2,
			Top:              2,
			GridLeft:         0.2,
			GridSpan:         0.6,
			LevelDrop:        0.05,
			RowDrop:          1,
			BaseSpeed:        0.5,
			BlockTicks:       24,
			UnblockTicks:     8,
			FireDelay:        15,
			SpeedUpEvery:     9,
			SpeedUpFactor:    1.1,
			LevelSpeedFactor: 1.05,
		},
		Lasers: LaserConfig{
			PlayerSpeed: 1.0,
			EnemySpeed:  0.5,
		},
		Blockades: BlockadeConfig{
			Count:  4,
			Margin: 0.15,
			Spread: 0.7,
			Gap:    2,
			Shape: []string{
				".#####.",
				"#######",
				"##...##",
			},
		},
		Scoring: ScoringConfig{
			EnemyPoints: 5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 1000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:    1.0,
				FireDelayReduction: 10,
			},
		},
		Env: EnvConfig{
			Width:      80,
			Height:     30,
			ObsWidth:   200,
			ObsHeight:  150,
			RenderMode: "rgb_array",
			Rewards: RewardsConfig{
				EnemyKill:    1,
				PlayerDamage: -1,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultInvadersYAML
}
