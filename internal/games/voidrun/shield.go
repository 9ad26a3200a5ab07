package voidrun

import (
	"math"

	"github.com/vovakirdan/void-runner/internal/config"
)

// Shield is the two-state shield machine: Inactive(cooldown >= 0) and
// Active(remaining > 0). It absorbs at most one hit per activation.
type Shield struct {
	cfg       config.ShieldConfig
	active    bool
	remaining float64
	cooldown  float64
	spin      float64
}

// NewShield creates an inactive, ready shield.
func NewShield(cfg config.ShieldConfig) *Shield {
	return &Shield{cfg: cfg}
}

// Reset returns the shield to inactive with no cooldown.
func (s *Shield) Reset() {
	s.active = false
	s.remaining = 0
	s.cooldown = 0
	s.spin = 0
}

// Activate arms the shield if it is inactive and off cooldown.
// Returns whether it armed.
func (s *Shield) Activate() bool {
	if s.active || s.cooldown > 0 {
		return false
	}
	s.active = true
	s.remaining = s.cfg.Duration
	return true
}

// Tick advances timers by dt.
func (s *Shield) Tick(dt float64) {
	s.spin += s.cfg.SpinRate * dt
	if s.active {
		s.remaining -= dt
		if s.remaining <= 0 {
			s.deactivate()
		}
		return
	}
	s.cooldown = math.Max(0, s.cooldown-dt)
}

// Consume spends the shield on an absorbed hit. Returns false if the
// shield was not active.
func (s *Shield) Consume() bool {
	if !s.active {
		return false
	}
	s.deactivate()
	return true
}

func (s *Shield) deactivate() {
	s.active = false
	s.remaining = 0
	s.cooldown = s.cfg.Cooldown
}

// Active reports whether the shield is up.
func (s *Shield) Active() bool { return s.active }

// Remaining returns seconds of active shield left.
func (s *Shield) Remaining() float64 { return s.remaining }

// Cooldown returns seconds until the shield can be re-armed. Zero while active.
func (s *Shield) Cooldown() float64 { return s.cooldown }

// Intensity returns the shield's visual opacity.
func (s *Shield) Intensity() float64 {
	if s.active {
		return s.cfg.Intensity
	}
	return 0
}

// Spin returns the shield's visual rotation.
func (s *Shield) Spin() float64 { return s.spin }

// sync copies the shield fields into a state record.
func (s *Shield) sync(state *GameState) {
	state.ShieldActive = s.active
	state.ShieldRemaining = s.remaining
	state.ShieldCooldown = s.cooldown
}
