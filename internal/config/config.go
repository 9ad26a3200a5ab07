// Package config provides YAML-based tuning configuration loading and
// difficulty presets for Void Runner.
package config

// VoidConfig contains every tunable constant of the simulation.
type VoidConfig struct {
	Speed   SpeedConfig   `yaml:"speed"`
	Player  PlayerConfig  `yaml:"player"`
	Shield  ShieldConfig  `yaml:"shield"`
	Stream  StreamConfig  `yaml:"stream"`
	Scoring ScoringConfig `yaml:"scoring"`
	Effects EffectsConfig `yaml:"effects"`
	Loop    LoopConfig    `yaml:"loop"`
}

// Extents is a half-size or range triple. Z is ignored where only a
// lateral range is meaningful.
type Extents struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// SpeedConfig defines the forward speed curve.
type SpeedConfig struct {
	Base        float64 `yaml:"base"`
	Max         float64 `yaml:"max"`
	Scaling     float64 `yaml:"scaling"`      // Speed gained per unit of distance
	BoostFactor float64 `yaml:"boost_factor"` // Applied after the max clamp
}

// PlayerConfig defines ship movement and hitbox parameters.
type PlayerConfig struct {
	Lives        int     `yaml:"lives"`
	MoveSpeed    float64 `yaml:"move_speed"`
	NudgeFactor  float64 `yaml:"nudge_factor"`
	Bounds       Extents `yaml:"bounds"`
	FollowRate   float64 `yaml:"follow_rate"`
	BankFactor   float64 `yaml:"bank_factor"`
	PitchFactor  float64 `yaml:"pitch_factor"`
	PointerRange Extents `yaml:"pointer_range"` // Normalized pointer coords are scaled by this
	HalfExtents  Extents `yaml:"half_extents"`
}

// ShieldConfig defines shield timing.
type ShieldConfig struct {
	Duration  float64 `yaml:"duration"`
	Cooldown  float64 `yaml:"cooldown"`
	Intensity float64 `yaml:"intensity"`
	SpinRate  float64 `yaml:"spin_rate"`
}

// StreamConfig defines procedural spawning of corridor objects.
type StreamConfig struct {
	InitialZ          float64 `yaml:"initial_z"`
	InitialCount      int     `yaml:"initial_count"`
	Spacing           float64 `yaml:"spacing"`
	Lookahead         float64 `yaml:"lookahead"`
	TrailingMargin    float64 `yaml:"trailing_margin"`
	CollectibleChance float64 `yaml:"collectible_chance"`
	LateralRange      Extents `yaml:"lateral_range"`
	LaneSpacing       float64 `yaml:"lane_spacing"`
	ObstacleHalf      Extents `yaml:"obstacle_half"`
	CollectibleHalf   Extents `yaml:"collectible_half"`
	WallHalf          Extents `yaml:"wall_half"`
}

// ScoringConfig defines points, combo and persistence keys.
type ScoringConfig struct {
	CollectPoints int     `yaml:"collect_points"`
	ComboStep     int     `yaml:"combo_step"`
	PassiveRate   float64 `yaml:"passive_rate"` // Points per unit of distance, before the multiplier
	HighScoreKey  string  `yaml:"high_score_key"`
}

// BurstConfig describes one particle burst.
type BurstConfig struct {
	Count int     `yaml:"count"`
	Color string  `yaml:"color"`
	Speed float64 `yaml:"speed"`
}

// EffectsConfig defines the particle system.
type EffectsConfig struct {
	MaxParticles int         `yaml:"max_particles"`
	Jitter       float64     `yaml:"jitter"`
	SpinRate     float64     `yaml:"spin_rate"`
	Collect      BurstConfig `yaml:"collect"`
	Absorb       BurstConfig `yaml:"absorb"`
	Crash        BurstConfig `yaml:"crash"`
	ShieldUp     BurstConfig `yaml:"shield_up"`
}

// LoopConfig defines frame timing.
type LoopConfig struct {
	MaxDt     float64 `yaml:"max_dt"`
	FrameRate int     `yaml:"frame_rate"`
}
