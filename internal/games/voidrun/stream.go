package voidrun

import (
	"math/rand"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// Kind identifies the type of a corridor object.
type Kind int

const (
	KindObstacle Kind = iota
	KindWall
	KindCollectible
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindWall:
		return "wall"
	case KindCollectible:
		return "collectible"
	default:
		return "unknown"
	}
}

// IsHazard reports whether touching the object costs a life or a shield.
func (k Kind) IsHazard() bool {
	return k == KindObstacle || k == KindWall
}

// StreamObject is one obstacle, wall or collectible in the corridor.
// Position.Z is the forward coordinate; the player flies toward negative Z.
type StreamObject struct {
	ID       uint64
	Kind     Kind
	Position core.Vec3
	Bounds   core.Box3
	Active   bool
	Spin     float64 // Visual rotation only
}

// StreamManager spawns objects ahead of the player and retires the ones
// left behind. Objects live in a dense slice with swap-remove, so the
// slice order is the iteration order for the frame.
type StreamManager struct {
	objects []StreamObject
	rng     *rand.Rand
	spawnZ  float64 // Frontier: forward-most coordinate already populated
	nextID  uint64
	cfg     config.StreamConfig
}

// NewStreamManager creates a stream manager seeded with its initial window.
func NewStreamManager(cfg config.StreamConfig, seed int64) *StreamManager {
	sm := &StreamManager{
		objects: make([]StreamObject, 0, 16),
		cfg:     cfg,
	}
	sm.Reset(seed)
	return sm
}

// Reset clears all objects, reseeds the RNG and populates the initial window.
func (sm *StreamManager) Reset(seed int64) {
	sm.objects = sm.objects[:0]
	sm.rng = rand.New(rand.NewSource(seed))
	sm.spawnZ = sm.cfg.InitialZ
	sm.nextID = 0
	for i := 0; i < sm.cfg.InitialCount; i++ {
		sm.spawn()
	}
}

// Update advances visuals, recomputes bounds, retires objects behind the
// player and spawns at most one new object when the frontier is within
// lookahead of playerZ.
func (sm *StreamManager) Update(dt, playerZ float64) {
	for i := range sm.objects {
		o := &sm.objects[i]
		switch o.Kind {
		case KindObstacle:
			o.Spin += dt
		case KindCollectible:
			o.Spin += 3 * dt
		}
		o.Bounds = core.BoxAround(o.Position, sm.halfExtents(o.Kind))
	}

	// Swap-remove objects that fell behind the trailing margin
	limit := playerZ + sm.cfg.TrailingMargin
	for i := 0; i < len(sm.objects); {
		if sm.objects[i].Position.Z > limit {
			last := len(sm.objects) - 1
			sm.objects[i] = sm.objects[last]
			sm.objects = sm.objects[:last]
			continue
		}
		i++
	}

	if sm.spawnZ > playerZ-sm.cfg.Lookahead {
		sm.spawn()
	}
}

// spawn creates one object at the next frontier slot.
func (sm *StreamManager) spawn() {
	sm.spawnZ -= sm.cfg.Spacing

	var kind Kind
	switch {
	case sm.rng.Float64() < sm.cfg.CollectibleChance:
		kind = KindCollectible
	case sm.rng.Float64() < 0.5:
		kind = KindObstacle
	default:
		kind = KindWall
	}

	pos := core.Vec3{Z: sm.spawnZ}
	if kind == KindWall {
		lane := sm.rng.Intn(3) - 1
		pos.X = float64(lane) * sm.cfg.LaneSpacing
	} else {
		pos.X = (sm.rng.Float64()*2 - 1) * sm.cfg.LateralRange.X
		pos.Y = (sm.rng.Float64()*2 - 1) * sm.cfg.LateralRange.Y
	}

	sm.nextID++
	sm.objects = append(sm.objects, StreamObject{
		ID:       sm.nextID,
		Kind:     kind,
		Position: pos,
		Bounds:   core.BoxAround(pos, sm.halfExtents(kind)),
		Active:   true,
	})
}

func (sm *StreamManager) halfExtents(k Kind) core.Vec3 {
	switch k {
	case KindWall:
		return vec(sm.cfg.WallHalf)
	case KindCollectible:
		return vec(sm.cfg.CollectibleHalf)
	default:
		return vec(sm.cfg.ObstacleHalf)
	}
}

// Objects returns the live object set. Callers may flip Active during
// collision resolution but must not retain the slice across frames.
func (sm *StreamManager) Objects() []StreamObject {
	return sm.objects
}

// SpawnZ returns the current frontier.
func (sm *StreamManager) SpawnZ() float64 {
	return sm.spawnZ
}

// Len returns the number of objects in the window.
func (sm *StreamManager) Len() int {
	return len(sm.objects)
}
