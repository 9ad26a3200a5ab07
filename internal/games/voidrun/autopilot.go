package voidrun

import (
	"math"
)

// Autopilot is an input collaborator for headless runs. Each Steer call
// aims at the nearest collectible ahead and sidesteps hazards, raising the
// shield when one is about to hit. Hosts call it once per frame.
type Autopilot struct {
	engine *Engine

	// Sight is how far ahead objects are considered. ShieldRange is the
	// distance at which an unavoidable hazard triggers the shield.
	Sight       float64
	ShieldRange float64
}

// NewAutopilot creates an autopilot driving e.
func NewAutopilot(e *Engine) *Autopilot {
	return &Autopilot{engine: e, Sight: 120, ShieldRange: 15}
}

// Steer writes one decision into the engine's input buffer.
func (a *Autopilot) Steer() {
	p := a.engine.Player()
	cfg := a.engine.Config()
	in := a.engine.Input()

	var goal, threat *StreamObject
	objects := a.engine.Objects()
	for i := range objects {
		o := &objects[i]
		ahead := p.Position.Z - o.Position.Z
		if !o.Active || ahead < 0 || ahead > a.Sight {
			continue
		}
		if o.Kind == KindCollectible {
			if goal == nil || o.Position.Z > goal.Position.Z {
				goal = o
			}
			continue
		}
		if threat == nil || o.Position.Z > threat.Position.Z {
			threat = o
		}
	}

	tx, ty := p.Target.X, p.Target.Y
	if goal != nil {
		tx, ty = goal.Position.X, goal.Position.Y
	}
	if threat != nil && a.overlapsLane(threat, tx, ty, cfg.Player.HalfExtents.X) {
		tx = a.dodge(threat, p.Position.X, cfg.Player.Bounds.X, cfg.Player.HalfExtents.X)
		if p.Position.Z-threat.Position.Z < a.ShieldRange && a.overlapsLane(threat, p.Position.X, p.Position.Y, cfg.Player.HalfExtents.X) {
			in.TriggerShield()
		}
	}
	in.SetPointer(tx, ty)
}

// overlapsLane reports whether a ship at (x, y) would touch o.
func (a *Autopilot) overlapsLane(o *StreamObject, x, y, half float64) bool {
	b := o.Bounds
	return x+half > b.Min.X && x-half < b.Max.X && y+half > b.Min.Y && y-half < b.Max.Y
}

// dodge picks the clear side of o nearest the ship's x, staying in bounds.
func (a *Autopilot) dodge(o *StreamObject, x, bound, half float64) float64 {
	left := o.Bounds.Min.X - half - 1
	right := o.Bounds.Max.X + half + 1
	switch {
	case left < -bound:
		return right
	case right > bound:
		return left
	case math.Abs(left-x) <= math.Abs(right-x):
		return left
	default:
		return right
	}
}
