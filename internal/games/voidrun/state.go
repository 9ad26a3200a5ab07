// Package voidrun implements the Void Runner simulation core: a ship flying
// through a procedurally streamed corridor of obstacles, walls and
// collectibles, with score, lives, shield and combo mechanics.
//
// The Engine owns the authoritative GameState and advances it once per
// scheduler callback. Presentation, audio, persistence and metrics are
// collaborators reached through small interfaces.
package voidrun

import (
	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// GameState is the authoritative per-run record. The Engine is its only
// writer; everyone else receives value copies.
type GameState struct {
	Score           int     `json:"score"`
	HighScore       int     `json:"high_score"`
	Speed           float64 `json:"speed"`
	Distance        float64 `json:"distance"`
	Lives           int     `json:"lives"`
	ShieldActive    bool    `json:"shield_active"`
	ShieldCooldown  float64 `json:"shield_cooldown"`  // Seconds until the shield can be re-armed
	ShieldRemaining float64 `json:"shield_remaining"` // Seconds of active shield left
	Combo           int     `json:"combo"`
	Multiplier      int     `json:"multiplier"`
	MaxMultiplier   int     `json:"max_multiplier"`
	Frame           int     `json:"frame"`
}

// initialState returns the state every run starts from.
func initialState(cfg config.VoidConfig, highScore int) GameState {
	return GameState{
		HighScore:     highScore,
		Speed:         cfg.Speed.Base,
		Lives:         cfg.Player.Lives,
		Multiplier:    1,
		MaxMultiplier: 1,
	}
}

// Phase is the orchestrator's lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseTerminal
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// OutcomeKind classifies one collision resolution.
type OutcomeKind int

const (
	OutcomeCollect OutcomeKind = iota
	OutcomeAbsorb
	OutcomeCrash
)

// String returns the lowercase outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCollect:
		return "collect"
	case OutcomeAbsorb:
		return "absorb"
	case OutcomeCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving one overlapping object.
type Outcome struct {
	Kind     OutcomeKind
	ObjectID uint64
	Position core.Vec3
}

// vec converts a config extents triple into a world vector.
func vec(e config.Extents) core.Vec3 {
	return core.Vec3{X: e.X, Y: e.Y, Z: e.Z}
}
