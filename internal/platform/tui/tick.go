// Package tui is the terminal front end: it drives the engine from the
// Bubble Tea event loop, maps keys and mouse to engine input and
// rasterizes the 3D scene into a character grid.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/void-runner/internal/games/voidrun"
)

// TickMsg is sent once per host frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a TickMsg after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// HostScheduler queues the engine's frame request until the display
// loop fires it. At most one callback is pending; a newer request
// replaces an older one.
type HostScheduler struct {
	mu      sync.Mutex
	pending voidrun.FrameFunc
}

// NewHostScheduler creates an empty scheduler.
func NewHostScheduler() *HostScheduler {
	return &HostScheduler{}
}

func (h *HostScheduler) RequestFrame(fn voidrun.FrameFunc) {
	h.mu.Lock()
	h.pending = fn
	h.mu.Unlock()
}

// Fire runs the pending callback, if any. Returns false when nothing was
// queued.
func (h *HostScheduler) Fire(now time.Time) bool {
	h.mu.Lock()
	fn := h.pending
	h.pending = nil
	h.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(now)
	return true
}

// Pending reports whether a callback is queued.
func (h *HostScheduler) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}
