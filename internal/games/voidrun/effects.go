package voidrun

import (
	"math/rand"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// Particle is one short-lived feedback fragment. Purely cosmetic.
type Particle struct {
	Position core.Vec3
	Velocity core.Vec3
	Life     float64 // 1 at spawn, removed at 0
	Scale    float64
	Spin     float64
	Color    core.Color
}

// Burst describes a particle explosion.
type Burst struct {
	Count int
	Color core.Color
	Speed float64
}

// burstFrom converts a validated burst config.
func burstFrom(b config.BurstConfig) Burst {
	c, _ := core.ParseColor(b.Color)
	return Burst{Count: b.Count, Color: c, Speed: b.Speed}
}

// Emitter spawns and decays particle bursts.
type Emitter struct {
	particles []Particle
	rng       *rand.Rand
	max       int
	jitter    float64
	spinRate  float64
}

// NewEmitter creates an emitter bounded by cfg.MaxParticles.
func NewEmitter(cfg config.EffectsConfig, seed int64) *Emitter {
	return &Emitter{
		particles: make([]Particle, 0, cfg.MaxParticles),
		rng:       rand.New(rand.NewSource(seed)),
		max:       cfg.MaxParticles,
		jitter:    cfg.Jitter,
		spinRate:  cfg.SpinRate,
	}
}

// Spawn emits up to b.Count particles around pos. Particles beyond the
// capacity are dropped. Returns the number spawned.
func (e *Emitter) Spawn(pos core.Vec3, b Burst) int {
	n := b.Count
	if room := e.max - len(e.particles); n > room {
		n = room
	}
	for i := 0; i < n; i++ {
		p := Particle{
			Position: core.Vec3{
				X: pos.X + e.spread(e.jitter),
				Y: pos.Y + e.spread(e.jitter),
				Z: pos.Z,
			},
			Velocity: core.Vec3{
				X: e.spread(b.Speed / 2),
				Y: e.spread(b.Speed / 2),
				Z: e.spread(b.Speed / 2),
			},
			Life:  1,
			Scale: 1,
			Color: b.Color,
		}
		e.particles = append(e.particles, p)
	}
	return n
}

// spread returns a uniform value in [-r, r].
func (e *Emitter) spread(r float64) float64 {
	return (e.rng.Float64()*2 - 1) * r
}

// Update decays and moves particles, swap-removing dead ones.
func (e *Emitter) Update(dt float64) {
	for i := 0; i < len(e.particles); {
		p := &e.particles[i]
		p.Life -= dt
		if p.Life <= 0 {
			last := len(e.particles) - 1
			e.particles[i] = e.particles[last]
			e.particles = e.particles[:last]
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Scale = p.Life
		p.Spin += e.spinRate * dt
		i++
	}
}

// Clear removes every particle.
func (e *Emitter) Clear() {
	e.particles = e.particles[:0]
}

// Particles returns the live particles. Read-only for callers.
func (e *Emitter) Particles() []Particle {
	return e.particles
}

// Len returns the number of live particles.
func (e *Emitter) Len() int {
	return len(e.particles)
}
