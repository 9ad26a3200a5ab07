package tui

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/void-runner/internal/core"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
	"github.com/vovakirdan/void-runner/internal/platform/shot"
)

const statusDuration = 2 * time.Second

// Options configures a terminal session.
type Options struct {
	Runtime    core.RuntimeConfig
	HoldWindow time.Duration // 0 means DefaultHoldWindow
	ShotDir    string        // "" means ~/.voidrun/screenshots
	Logger     *log.Logger
	Clock      func() time.Time
}

// Model is the Bubble Tea model for one Void Runner session. The engine
// owns the game; the model feeds it input, fires its frame requests from
// the tick loop and draws whatever it reports.
type Model struct {
	engine   *voidrun.Engine
	host     *HostScheduler
	screen   *core.Screen
	renderer *Renderer
	keys     *KeyMapper
	held     *heldKeys
	opts     Options

	status      string
	statusUntil time.Time
	quitting    bool
}

// NewModel creates a model driving engine through host. host must be the
// scheduler the engine was built with.
func NewModel(engine *voidrun.Engine, host *HostScheduler, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Runtime.ScreenW == 0 || opts.Runtime.ScreenH == 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	return Model{
		engine:   engine,
		host:     host,
		screen:   core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		renderer: NewRenderer(engine.Config()),
		keys:     NewKeyMapper(),
		held:     newHeldKeys(opts.HoldWindow),
		opts:     opts,
	}
}

// Init starts the tick loop. The engine stays Idle until the player
// confirms from the menu.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.FrameInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, boost := m.keys.MapKey(msg)
	phase := m.engine.Phase()

	switch action {
	case ActionQuit:
		m.engine.Stop()
		m.quitting = true
		return m, tea.Quit

	case ActionScreenshot:
		m.saveScreenshot()

	case ActionConfirm:
		if phase != voidrun.PhaseRunning {
			m.held.release()
			m.engine.Start()
		}

	case ActionRestart:
		if phase != voidrun.PhaseIdle {
			m.held.release()
			m.engine.Restart()
		}

	case ActionPause:
		if phase == voidrun.PhaseRunning {
			m.held.release()
			m.engine.TogglePause()
		}

	case ActionShield:
		if phase == voidrun.PhaseRunning {
			m.engine.Input().TriggerShield()
		}

	case ActionLeft, ActionRight, ActionUp, ActionDown, ActionBoost:
		if phase == voidrun.PhaseRunning {
			m.held.press(action, boost, m.opts.Clock())
		}
	}

	return m, nil
}

// handleMouse steers toward the pointer. Every mouse event carries a
// position, so clicks steer too.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.engine.Phase() != voidrun.PhaseRunning {
		return m, nil
	}
	rng := m.engine.Config().Player.PointerRange
	x, y := pointerTarget(msg.X, msg.Y, m.screen.Width(), m.screen.Height(), rng.X, rng.Y)
	m.engine.Input().SetPointer(x, y)
	return m, nil
}

// handleTick pushes held keys into the engine and runs its pending frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.engine.Phase() == voidrun.PhaseRunning {
		m.held.apply(m.engine.Input(), m.opts.Clock())
	}
	m.host.Fire(now)
	return m, tickCmd(m.opts.Runtime.FrameInterval())
}

// saveScreenshot writes the current frame as text and PNG.
func (m *Model) saveScreenshot() {
	m.renderer.Draw(m.screen, CaptureScene(m.engine))

	dir := m.opts.ShotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.flash("screenshot failed")
			m.opts.Logger.Warn("cannot resolve home directory", "err", err)
			return
		}
		dir = filepath.Join(home, ".voidrun", "screenshots")
	}

	txt, png, err := shot.Save(dir, "voidrun", m.screen, m.opts.Clock())
	if err != nil {
		m.flash("screenshot failed")
		m.opts.Logger.Warn("screenshot failed", "err", err)
		return
	}
	m.flash("saved " + filepath.Base(png))
	m.opts.Logger.Info("screenshot saved", "text", txt, "png", png)
}

func (m *Model) flash(text string) {
	m.status = text
	m.statusUntil = m.opts.Clock().Add(statusDuration)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.renderer.Draw(m.screen, CaptureScene(m.engine))
	if m.status != "" && m.opts.Clock().Before(m.statusUntil) {
		m.screen.DrawTextCentered(m.screen.Height()-2, m.status, core.ColorYellow)
	}
	return RenderScreen(m.screen)
}

// Status returns the transient status line, if any.
func (m Model) Status() string {
	return m.status
}

// ProgramOptions are the Bubble Tea options a game session needs.
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
}

// Run starts a local Bubble Tea program and blocks until the player quits.
func Run(engine *voidrun.Engine, host *HostScheduler, opts Options) error {
	p := tea.NewProgram(NewModel(engine, host, opts), ProgramOptions()...)
	_, err := p.Run()
	return err
}
