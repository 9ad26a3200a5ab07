package config

import (
	_ "embed"
)

//go:embed defaults/voidrun.yaml
var defaultVoidYAML []byte

// DefaultVoidConfig returns the hardcoded Void Runner configuration.
// It matches defaults/voidrun.yaml and is used when the embed is unreadable.
func DefaultVoidConfig() VoidConfig {
	return VoidConfig{
		Speed: SpeedConfig{
			Base:        60,
			Max:         200,
			Scaling:     0.01,
			BoostFactor: 1.5,
		},
		Player: PlayerConfig{
			Lives:        3,
			MoveSpeed:    30,
			NudgeFactor:  2,
			Bounds:       Extents{X: 18, Y: 12},
			FollowRate:   5,
			BankFactor:   0.1,
			PitchFactor:  0.05,
			PointerRange: Extents{X: 15, Y: 10},
			HalfExtents:  Extents{X: 1, Y: 1, Z: 1.5},
		},
		Shield: ShieldConfig{
			Duration:  5,
			Cooldown:  5,
			Intensity: 0.5,
			SpinRate:  5,
		},
		Stream: StreamConfig{
			InitialZ:          -50,
			InitialCount:      10,
			Spacing:           40,
			Lookahead:         300,
			TrailingMargin:    20,
			CollectibleChance: 0.3,
			LateralRange:      Extents{X: 15, Y: 5},
			LaneSpacing:       12,
			ObstacleHalf:      Extents{X: 2, Y: 2, Z: 2},
			CollectibleHalf:   Extents{X: 1.5, Y: 1.5, Z: 1.5},
			WallHalf:          Extents{X: 5, Y: 10, Z: 1},
		},
		Scoring: ScoringConfig{
			CollectPoints: 100,
			ComboStep:     5,
			PassiveRate:   0.1,
			HighScoreKey:  "void_high",
		},
		Effects: EffectsConfig{
			MaxParticles: 512,
			Jitter:       1,
			SpinRate:     5,
			Collect:      BurstConfig{Count: 10, Color: "yellow", Speed: 10},
			Absorb:       BurstConfig{Count: 20, Color: "green", Speed: 10},
			Crash:        BurstConfig{Count: 50, Color: "red", Speed: 20},
			ShieldUp:     BurstConfig{Count: 12, Color: "green", Speed: 6},
		},
		Loop: LoopConfig{
			MaxDt:     0.1,
			FrameRate: 60,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultVoidYAML
}
