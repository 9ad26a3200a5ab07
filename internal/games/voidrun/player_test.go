package voidrun

import (
	"math"
	"testing"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

func newTestPlayer() (*Player, *Shield, config.VoidConfig) {
	cfg := config.DefaultVoidConfig()
	shield := NewShield(cfg.Shield)
	return NewPlayer(cfg.Player, cfg.Speed, shield), shield, cfg
}

func TestPlayerSpeedCurve(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		boost    bool
		want     float64
	}{
		{"start", 0, false, 60},
		{"ramping", 5000, false, 110},
		{"capped", 50000, false, 200},
		{"boost", 0, true, 90},
		{"boost after cap", 50000, true, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPlayer()
			state := GameState{Distance: tt.distance}
			p.Update(0.01, core.InputState{Boost: tt.boost}, &state)
			if !approx(state.Speed, tt.want) {
				t.Errorf("Speed = %v, expected %v", state.Speed, tt.want)
			}
		})
	}
}

func TestPlayerForwardProgress(t *testing.T) {
	p, _, _ := newTestPlayer()
	state := GameState{}

	step := p.Update(0.1, core.InputState{}, &state)
	if !approx(step, 6) {
		t.Errorf("step = %v, expected 6", step)
	}
	if !approx(state.Distance, 6) || !approx(p.Position().Z, -6) {
		t.Errorf("Distance = %v, Z = %v; expected 6 and -6", state.Distance, p.Position().Z)
	}
}

func TestPlayerKeyboardNudge(t *testing.T) {
	p, _, _ := newTestPlayer()
	state := GameState{}

	p.Update(0.1, core.InputState{AxisX: 1, AxisY: -1}, &state)
	s := p.State()
	// 30 * 2 * 0.1
	if !approx(s.Target.X, 6) || !approx(s.Target.Y, -6) {
		t.Errorf("Target = (%v, %v), expected (6, -6)", s.Target.X, s.Target.Y)
	}
	// Follow factor is 5 * 0.1 = 0.5
	if !approx(s.Position.X, 3) || !approx(s.Position.Y, -3) {
		t.Errorf("Position = (%v, %v), expected (3, -3)", s.Position.X, s.Position.Y)
	}
	if !approx(s.Bank, 0.3) {
		t.Errorf("Bank = %v, expected 0.3", s.Bank)
	}
	if !approx(s.Pitch, 0.15) {
		t.Errorf("Pitch = %v, expected 0.15", s.Pitch)
	}
}

func TestPlayerPointerThenNudge(t *testing.T) {
	p, _, _ := newTestPlayer()
	state := GameState{}

	p.Update(0.1, core.InputState{PointerX: 10, PointerY: 4, PointerMoved: true, AxisX: -1}, &state)
	if got := p.State().Target; !approx(got.X, 4) || !approx(got.Y, 4) {
		t.Errorf("Target = (%v, %v), expected pointer plus nudge (4, 4)", got.X, got.Y)
	}

	// A stale pointer value without the moved flag is ignored
	p.Update(0.1, core.InputState{PointerX: -10, PointerY: -4}, &state)
	if got := p.State().Target; !approx(got.X, 4) || !approx(got.Y, 4) {
		t.Errorf("Target = (%v, %v), expected unchanged (4, 4)", got.X, got.Y)
	}
}

func TestPlayerTargetClamped(t *testing.T) {
	p, _, cfg := newTestPlayer()
	state := GameState{}

	p.Update(0.016, core.InputState{PointerX: 100, PointerY: -100, PointerMoved: true}, &state)
	got := p.State().Target
	if got.X != cfg.Player.Bounds.X || got.Y != -cfg.Player.Bounds.Y {
		t.Errorf("Target = (%v, %v), expected (%v, %v)", got.X, got.Y, cfg.Player.Bounds.X, -cfg.Player.Bounds.Y)
	}

	for i := 0; i < 500; i++ {
		p.Update(0.1, core.InputState{AxisX: 1, AxisY: 1}, &state)
	}
	got = p.State().Target
	if got.X != cfg.Player.Bounds.X || got.Y != cfg.Player.Bounds.Y {
		t.Errorf("Target after held keys = (%v, %v), expected the bounds corner", got.X, got.Y)
	}
	if math.Abs(p.Position().X-got.X) > 1e-6 {
		t.Errorf("Position.X = %v, expected to converge on %v", p.Position().X, got.X)
	}
}

func TestPlayerFollowFactorCapped(t *testing.T) {
	p, _, _ := newTestPlayer()
	state := GameState{}

	// 5 * 0.5 would overshoot; the factor is capped at 1
	p.Update(0.5, core.InputState{PointerX: 8, PointerMoved: true}, &state)
	if !approx(p.Position().X, 8) {
		t.Errorf("Position.X = %v, expected 8", p.Position().X)
	}
}

func TestPlayerBox(t *testing.T) {
	p, _, _ := newTestPlayer()
	b := p.Box()
	if b.Min != (core.Vec3{X: -1, Y: -1, Z: -1.5}) || b.Max != (core.Vec3{X: 1, Y: 1, Z: 1.5}) {
		t.Errorf("Box() = %+v, expected extents (1, 1, 1.5)", b)
	}
}

func TestPlayerShieldVisuals(t *testing.T) {
	p, shield, _ := newTestPlayer()
	state := GameState{}

	shield.Activate()
	p.Update(0.1, core.InputState{}, &state)
	s := p.State()
	if s.ShieldIntensity != 0.5 {
		t.Errorf("ShieldIntensity = %v, expected 0.5", s.ShieldIntensity)
	}
	if !approx(s.ShieldSpin, 0.5) {
		t.Errorf("ShieldSpin = %v, expected 0.5", s.ShieldSpin)
	}

	p.Reset()
	if p.State() != (PlayerState{}) {
		t.Errorf("Reset() left %+v", p.State())
	}
}
