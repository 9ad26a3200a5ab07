package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/void-runner/internal/core"
)

const configFile = "voidrun.yaml"

// LoadVoid loads Void Runner configuration.
// Search order: customPath -> ~/.voidrun/configs/voidrun.yaml -> ./configs/voidrun.yaml -> embedded default.
// Files overlay the hardcoded defaults, so a file only needs the keys it changes.
func LoadVoid(customPath string) (VoidConfig, error) {
	cfg := DefaultVoidConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: invalid %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		if candidate, ok := readCandidate(path); ok {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	embedded := DefaultVoidConfig()
	if err := yaml.Unmarshal(defaultVoidYAML, &embedded); err != nil {
		return DefaultVoidConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// readCandidate parses an optional search-path file. Missing, unparsable or
// invalid files are skipped.
func readCandidate(path string) (VoidConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VoidConfig{}, false
	}
	cfg := DefaultVoidConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return VoidConfig{}, false
	}
	if cfg.Validate() != nil {
		return VoidConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".voidrun", "configs", filename)
}

// Validate checks every constraint and reports all violations at once.
func (c VoidConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Speed.Base > 0, "speed.base must be positive, got %v", c.Speed.Base)
	check(c.Speed.Max >= c.Speed.Base, "speed.max (%v) must be >= speed.base (%v)", c.Speed.Max, c.Speed.Base)
	check(c.Speed.Scaling >= 0, "speed.scaling must not be negative")
	check(c.Speed.BoostFactor >= 1, "speed.boost_factor must be >= 1, got %v", c.Speed.BoostFactor)

	check(c.Player.Lives >= 1 && c.Player.Lives <= 3, "player.lives must be in [1, 3], got %d", c.Player.Lives)
	check(c.Player.MoveSpeed >= 0, "player.move_speed must not be negative")
	check(c.Player.Bounds.X > 0 && c.Player.Bounds.Y > 0, "player.bounds must be positive")
	check(c.Player.FollowRate > 0, "player.follow_rate must be positive")
	check(positive(c.Player.HalfExtents), "player.half_extents must be positive")

	check(c.Shield.Duration > 0, "shield.duration must be positive")
	check(c.Shield.Cooldown >= 0, "shield.cooldown must not be negative")

	check(c.Stream.InitialCount >= 0, "stream.initial_count must not be negative")
	check(c.Stream.Spacing > 0, "stream.spacing must be positive, got %v", c.Stream.Spacing)
	check(c.Stream.Lookahead > 0, "stream.lookahead must be positive")
	check(c.Stream.TrailingMargin >= 0, "stream.trailing_margin must not be negative")
	check(c.Stream.CollectibleChance >= 0 && c.Stream.CollectibleChance <= 1,
		"stream.collectible_chance must be in [0, 1], got %v", c.Stream.CollectibleChance)
	check(c.Stream.LaneSpacing > 0, "stream.lane_spacing must be positive")
	check(positive(c.Stream.ObstacleHalf), "stream.obstacle_half must be positive")
	check(positive(c.Stream.CollectibleHalf), "stream.collectible_half must be positive")
	check(positive(c.Stream.WallHalf), "stream.wall_half must be positive")

	check(c.Scoring.CollectPoints >= 0, "scoring.collect_points must not be negative")
	check(c.Scoring.ComboStep > 0, "scoring.combo_step must be positive, got %d", c.Scoring.ComboStep)
	check(c.Scoring.PassiveRate >= 0, "scoring.passive_rate must not be negative")
	check(c.Scoring.HighScoreKey != "", "scoring.high_score_key must not be empty")

	check(c.Effects.MaxParticles >= 0, "effects.max_particles must not be negative")
	bursts := []struct {
		name string
		cfg  BurstConfig
	}{
		{"collect", c.Effects.Collect},
		{"absorb", c.Effects.Absorb},
		{"crash", c.Effects.Crash},
		{"shield_up", c.Effects.ShieldUp},
	}
	for _, b := range bursts {
		check(b.cfg.Count >= 0, "effects.%s.count must not be negative", b.name)
		if _, err := core.ParseColor(b.cfg.Color); err != nil {
			errs = append(errs, fmt.Errorf("effects.%s.color: %w", b.name, err))
		}
	}

	check(c.Loop.MaxDt > 0, "loop.max_dt must be positive, got %v", c.Loop.MaxDt)
	check(c.Loop.FrameRate > 0, "loop.frame_rate must be positive, got %d", c.Loop.FrameRate)

	return errors.Join(errs...)
}

func positive(e Extents) bool {
	return e.X > 0 && e.Y > 0 && e.Z > 0
}
