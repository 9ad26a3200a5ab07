package config

import (
	"fmt"
	"math"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset resolves a preset name from the command line.
// An empty name selects normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyVoidPreset modifies the config based on a difficulty preset.
// Presets tune speed and spacing only; every run starts with the
// configured lives. Normal leaves the loaded values untouched.
func ApplyVoidPreset(cfg *VoidConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.Base *= 0.75
		cfg.Speed.Max *= 0.8
		cfg.Stream.Spacing *= 1.25
		cfg.Stream.CollectibleChance = math.Min(1, cfg.Stream.CollectibleChance+0.1)
	case DifficultyHard:
		cfg.Speed.Base *= 1.3
		cfg.Speed.Max *= 1.2
		cfg.Speed.Scaling *= 1.5
		cfg.Stream.Spacing *= 0.8
	case DifficultyFixed:
		cfg.Speed.Scaling = 0
	}

	// Keep lives within the HUD's range
	if cfg.Player.Lives < 1 {
		cfg.Player.Lives = 1
	}
	if cfg.Player.Lives > 3 {
		cfg.Player.Lives = 3
	}
	if cfg.Speed.Max < cfg.Speed.Base {
		cfg.Speed.Max = cfg.Speed.Base
	}
}
