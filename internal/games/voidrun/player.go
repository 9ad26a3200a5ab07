package voidrun

import (
	"math"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// PlayerState is the renderable player pose.
type PlayerState struct {
	Position        core.Vec3
	Target          core.Vec3 // Input-derived lateral goal; Z unused
	Bank            float64   // Roll, derived from the lateral lag
	Pitch           float64
	ShieldIntensity float64
	ShieldSpin      float64
}

// Player integrates input into position and forward progress.
type Player struct {
	state  PlayerState
	cfg    config.PlayerConfig
	speed  config.SpeedConfig
	shield *Shield
}

// NewPlayer creates a player at the origin.
func NewPlayer(cfg config.PlayerConfig, speed config.SpeedConfig, shield *Shield) *Player {
	return &Player{cfg: cfg, speed: speed, shield: shield}
}

// Reset puts the player back at the origin.
func (p *Player) Reset() {
	p.state = PlayerState{}
}

// Update advances the player by dt, writing Speed and Distance into state.
// The shield is ticked last. Returns the forward distance covered.
func (p *Player) Update(dt float64, in core.InputState, state *GameState) float64 {
	speed := math.Min(p.speed.Max, p.speed.Base+state.Distance*p.speed.Scaling)
	if in.Boost {
		speed *= p.speed.BoostFactor
	}
	state.Speed = speed

	t := &p.state.Target
	if in.PointerMoved {
		t.X = in.PointerX
		t.Y = in.PointerY
	}
	if in.HasAxis() {
		nudge := p.cfg.MoveSpeed * p.cfg.NudgeFactor * dt
		t.X += float64(in.AxisX) * nudge
		t.Y += float64(in.AxisY) * nudge
	}
	t.X = core.ClampF(t.X, -p.cfg.Bounds.X, p.cfg.Bounds.X)
	t.Y = core.ClampF(t.Y, -p.cfg.Bounds.Y, p.cfg.Bounds.Y)

	pos := &p.state.Position
	follow := math.Min(1, p.cfg.FollowRate*dt)
	pos.X += (t.X - pos.X) * follow
	pos.Y += (t.Y - pos.Y) * follow

	step := speed * dt
	pos.Z -= step
	state.Distance += step

	p.state.Bank = -(pos.X - t.X) * p.cfg.BankFactor
	p.state.Pitch = (pos.Y - t.Y) * p.cfg.PitchFactor

	p.shield.Tick(dt)
	p.state.ShieldIntensity = p.shield.Intensity()
	p.state.ShieldSpin = p.shield.Spin()

	return step
}

// Box returns the player's collision box.
func (p *Player) Box() core.Box3 {
	return core.BoxAround(p.state.Position, vec(p.cfg.HalfExtents))
}

// Position returns the current world position.
func (p *Player) Position() core.Vec3 {
	return p.state.Position
}

// State returns a copy of the pose.
func (p *Player) State() PlayerState {
	return p.state
}
