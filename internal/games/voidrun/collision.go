package voidrun

import (
	"math"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// Resolve tests the player box against every active object in slice order
// and applies the scoring rules. Each overlapping object is deactivated
// before the next is examined, so nothing resolves twice. Iteration stops
// when lives reach zero. Outcomes are appended to dst.
func Resolve(dst []Outcome, player core.Box3, objects []StreamObject, state *GameState, shield *Shield, rules config.ScoringConfig) []Outcome {
	for i := range objects {
		o := &objects[i]
		if !o.Active || !player.Intersects(o.Bounds) {
			continue
		}
		o.Active = false

		out := Outcome{ObjectID: o.ID, Position: o.Position}
		switch {
		case o.Kind == KindCollectible:
			out.Kind = OutcomeCollect
			state.Score += rules.CollectPoints * state.Multiplier
			state.Combo++
			if state.Combo%rules.ComboStep == 0 {
				state.Multiplier++
				if state.Multiplier > state.MaxMultiplier {
					state.MaxMultiplier = state.Multiplier
				}
			}
		case shield.Consume():
			out.Kind = OutcomeAbsorb
		default:
			out.Kind = OutcomeCrash
			state.Lives--
			state.Combo = 0
			state.Multiplier = 1
		}
		dst = append(dst, out)

		if state.Lives <= 0 {
			state.Lives = 0
			break
		}
	}
	return dst
}

// ApplyPassive awards distance points using the current multiplier.
func ApplyPassive(state *GameState, step, rate float64) {
	state.Score += int(math.Floor(step * rate * float64(state.Multiplier)))
}
