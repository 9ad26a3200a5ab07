package core

import "sync"

// InputState is the per-frame input snapshot consumed by the simulation.
// Directional axes are in {-1, 0, 1}. Pointer coordinates are absolute
// lateral positions in world units and are only meaningful when
// PointerMoved is set.
type InputState struct {
	AxisX        int
	AxisY        int
	PointerX     float64
	PointerY     float64
	PointerMoved bool // A pointer update arrived since the previous poll
	Boost        bool
	Shield       bool // Edge-triggered shield activation request
}

// HasAxis reports whether any directional key is held.
func (s InputState) HasAxis() bool {
	return s.AxisX != 0 || s.AxisY != 0
}

// InputBuffer collects input written asynchronously by input collaborators
// and hands it to the simulation once per frame.
// Values are last-write-wins; repeated shield taps within one frame coalesce.
type InputBuffer struct {
	mu    sync.Mutex
	state InputState
}

// NewInputBuffer creates an empty input buffer.
func NewInputBuffer() *InputBuffer {
	return &InputBuffer{}
}

// SetAxisX sets the horizontal axis, clamped to {-1, 0, 1}.
func (b *InputBuffer) SetAxisX(x int) {
	b.mu.Lock()
	b.state.AxisX = Clamp(x, -1, 1)
	b.mu.Unlock()
}

// SetAxisY sets the vertical axis, clamped to {-1, 0, 1}.
func (b *InputBuffer) SetAxisY(y int) {
	b.mu.Lock()
	b.state.AxisY = Clamp(y, -1, 1)
	b.mu.Unlock()
}

// SetPointer records the most recent pointer target in world units.
func (b *InputBuffer) SetPointer(x, y float64) {
	b.mu.Lock()
	b.state.PointerX = x
	b.state.PointerY = y
	b.state.PointerMoved = true
	b.mu.Unlock()
}

// SetBoost sets the boost flag.
func (b *InputBuffer) SetBoost(on bool) {
	b.mu.Lock()
	b.state.Boost = on
	b.mu.Unlock()
}

// TriggerShield raises the shield activation edge.
func (b *InputBuffer) TriggerShield() {
	b.mu.Lock()
	b.state.Shield = true
	b.mu.Unlock()
}

// Poll returns the current input and clears the one-shot fields
// (shield edge and pointer-moved flag).
func (b *InputBuffer) Poll() InputState {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.state
	b.state.Shield = false
	b.state.PointerMoved = false
	return s
}

// Peek returns the current input without consuming edges.
func (b *InputBuffer) Peek() InputState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// DropEdges clears pending one-shot input, used when a run restarts.
func (b *InputBuffer) DropEdges() {
	b.mu.Lock()
	b.state.Shield = false
	b.state.PointerMoved = false
	b.mu.Unlock()
}

// Reset clears all input.
func (b *InputBuffer) Reset() {
	b.mu.Lock()
	b.state = InputState{}
	b.mu.Unlock()
}
