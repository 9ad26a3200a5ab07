package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/void-runner/internal/core"
)

// Action is a player intent derived from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionBoost
	ActionShield
	ActionPause
	ActionConfirm // start from the menu, reboot after game over
	ActionRestart
	ActionScreenshot
	ActionQuit
)

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action. boost is set for
// shift+arrow, which both steers and boosts.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action Action, boost bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return ActionQuit, false
	case "ctrl+s":
		return ActionScreenshot, false
	case "a", "left", "h":
		return ActionLeft, false
	case "d", "right", "l":
		return ActionRight, false
	case "w", "up", "k":
		return ActionUp, false
	case "s", "down", "j":
		return ActionDown, false
	case "shift+left", "A":
		return ActionLeft, true
	case "shift+right", "D":
		return ActionRight, true
	case "shift+up", "W":
		return ActionUp, true
	case "shift+down", "S":
		return ActionDown, true
	case "b":
		return ActionBoost, true
	case " ":
		return ActionShield, false
	case "p", "esc":
		return ActionPause, false
	case "enter":
		return ActionConfirm, false
	case "r":
		return ActionRestart, false
	}
	return ActionNone, false
}

// DefaultHoldWindow is how long a key press counts as held. Terminals
// report presses and auto-repeat but never releases.
const DefaultHoldWindow = 180 * time.Millisecond

// heldKeys turns discrete key presses into held axes.
type heldKeys struct {
	window time.Duration

	axisX, axisY           int
	xUntil, yUntil, boostUntil time.Time
}

func newHeldKeys(window time.Duration) *heldKeys {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &heldKeys{window: window}
}

// press records a steering or boost action at now.
func (h *heldKeys) press(a Action, boost bool, now time.Time) {
	until := now.Add(h.window)
	switch a {
	case ActionLeft:
		h.axisX, h.xUntil = -1, until
	case ActionRight:
		h.axisX, h.xUntil = 1, until
	case ActionUp:
		h.axisY, h.yUntil = 1, until
	case ActionDown:
		h.axisY, h.yUntil = -1, until
	}
	if boost {
		h.boostUntil = until
	}
}

// apply writes the held state into buf, releasing expired keys.
func (h *heldKeys) apply(buf *core.InputBuffer, now time.Time) {
	if now.After(h.xUntil) {
		h.axisX = 0
	}
	if now.After(h.yUntil) {
		h.axisY = 0
	}
	buf.SetAxisX(h.axisX)
	buf.SetAxisY(h.axisY)
	buf.SetBoost(!now.After(h.boostUntil))
}

// release drops every held key.
func (h *heldKeys) release() {
	*h = heldKeys{window: h.window}
}

// pointerTarget maps a terminal cell to world-space lateral coordinates.
// The screen center is the origin; the edges reach ±rng.
func pointerTarget(x, y, width, height int, rangeX, rangeY float64) (float64, float64) {
	if width <= 1 || height <= 1 {
		return 0, 0
	}
	nx := float64(x)/float64(width-1)*2 - 1
	ny := -(float64(y)/float64(height-1)*2 - 1)
	return nx * rangeX, ny * rangeY
}
