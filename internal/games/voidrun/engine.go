package voidrun

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// ErrNoScheduler is returned by New when no frame scheduler is supplied.
var ErrNoScheduler = errors.New("voidrun: scheduler is required")

// Option configures an Engine.
type Option func(*Engine)

// WithKV sets the high score store. Without one the high score lives
// only for the process.
func WithKV(kv KV) Option {
	return func(e *Engine) { e.kv = kv }
}

// WithAudio sets the audio collaborator.
func WithAudio(a Audio) Option {
	return func(e *Engine) {
		if a != nil {
			e.audio = a
		}
	}
}

// WithObserver adds a snapshot observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSeed fixes the layout seed so every run streams the same corridor.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.fixedSeed = true
	}
}

// WithClock overrides the clock used to stamp run starts.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine is the game loop orchestrator. It owns the GameState and the
// sub-systems and advances them once per scheduler callback in the order
// input, player, stream, effects, collisions, publish.
//
// Observers are notified outside the engine lock but must not block; the
// next frame is only requested once they return.
type Engine struct {
	cfg       config.VoidConfig
	scheduler Scheduler
	kv        KV
	audio     Audio
	recorder  Recorder
	observers Observers
	log       *log.Logger
	now       func() time.Time
	seed      int64
	fixedSeed bool

	input   *core.InputBuffer
	player  *Player
	shield  *Shield
	stream  *StreamManager
	effects *Emitter

	bursts struct {
		collect, absorb, crash, shieldUp Burst
	}

	mu         sync.Mutex
	state      GameState
	phase      Phase
	paused     bool
	generation uint64
	lastFrame  time.Time
	outcomes   []Outcome
}

// New validates cfg and creates an idle engine.
func New(cfg config.VoidConfig, scheduler Scheduler, opts ...Option) (*Engine, error) {
	if scheduler == nil {
		return nil, ErrNoScheduler
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("voidrun: invalid config: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		scheduler: scheduler,
		audio:     nopAudio{},
		recorder:  nopRecorder{},
		log:       log.New(io.Discard),
		now:       time.Now,
		input:     core.NewInputBuffer(),
		outcomes:  make([]Outcome, 0, 4),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.fixedSeed {
		e.seed = e.now().UnixNano()
	}

	e.shield = NewShield(cfg.Shield)
	e.player = NewPlayer(cfg.Player, cfg.Speed, e.shield)
	e.stream = NewStreamManager(cfg.Stream, e.seed)
	e.effects = NewEmitter(cfg.Effects, e.seed)
	e.bursts.collect = burstFrom(cfg.Effects.Collect)
	e.bursts.absorb = burstFrom(cfg.Effects.Absorb)
	e.bursts.crash = burstFrom(cfg.Effects.Crash)
	e.bursts.shieldUp = burstFrom(cfg.Effects.ShieldUp)

	e.state = initialState(cfg, e.loadHighScore())
	return e, nil
}

// loadHighScore reads the persisted high score. Missing, unreadable or
// malformed values count as zero.
func (e *Engine) loadHighScore() int {
	if e.kv == nil {
		return 0
	}
	key := e.cfg.Scoring.HighScoreKey
	raw, ok, err := e.kv.Get(key)
	if err != nil {
		e.log.Warn("failed to read high score", "key", key, "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		e.log.Warn("ignoring malformed high score", "key", key, "value", raw)
		return 0
	}
	return v
}

// saveHighScore persists score and returns the record now stored.
func (e *Engine) saveHighScore(score int) int {
	if e.kv == nil {
		return score
	}
	key := e.cfg.Scoring.HighScoreKey
	if rk, ok := e.kv.(RecordKV); ok {
		best, err := rk.SetMax(key, score)
		if err != nil {
			e.log.Warn("failed to save high score", "err", err)
			return score
		}
		return max(best, score)
	}
	if err := e.kv.Set(key, strconv.Itoa(score)); err != nil {
		e.log.Warn("failed to save high score", "err", err)
	}
	return score
}

// Start begins a run from Idle or Terminal. Ignored while a run is active.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.phase == PhaseRunning {
		e.mu.Unlock()
		e.log.Debug("start ignored, run in progress")
		return
	}
	gen := e.begin()
	e.scheduler.RequestFrame(e.frameFunc(gen))
	e.mu.Unlock()

	e.log.Info("run started", "seed", e.seed, "generation", gen)
}

// Restart abandons any run in progress and starts a fresh one.
func (e *Engine) Restart() {
	e.mu.Lock()
	gen := e.begin()
	e.scheduler.RequestFrame(e.frameFunc(gen))
	e.mu.Unlock()

	e.log.Info("run restarted", "seed", e.seed, "generation", gen)
}

// begin resets every sub-system and bumps the run generation.
// Callers hold e.mu and request the first frame before releasing it, so
// concurrent restarts cannot reorder their requests.
func (e *Engine) begin() uint64 {
	seed := e.seed
	if !e.fixedSeed {
		seed = e.now().UnixNano()
	}

	e.state = initialState(e.cfg, max(e.state.HighScore, e.loadHighScore()))
	e.player.Reset()
	e.shield.Reset()
	e.stream.Reset(seed)
	e.effects.Clear()
	e.input.DropEdges()
	e.outcomes = e.outcomes[:0]
	e.paused = false
	e.phase = PhaseRunning
	e.lastFrame = e.now()
	e.generation++
	e.recorder.ObserveRun(PhaseRunning.String())
	return e.generation
}

// Stop abandons the current run without a game over and stops requesting
// frames. A pending callback is dropped when it fires.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	if e.phase == PhaseRunning {
		e.phase = PhaseIdle
	}
	e.paused = false
	e.input.Reset()
}

// Pause suspends simulation of a running game.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseRunning {
		e.paused = true
	}
}

// Resume continues a paused game.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseRunning && e.paused {
		e.paused = false
		e.lastFrame = e.now()
	}
}

// TogglePause flips between paused and running.
func (e *Engine) TogglePause() {
	if e.Paused() {
		e.Resume()
	} else {
		e.Pause()
	}
}

func (e *Engine) frameFunc(gen uint64) FrameFunc {
	return func(now time.Time) { e.frame(gen, now) }
}

// frame runs one simulation step for run generation gen.
func (e *Engine) frame(gen uint64, now time.Time) {
	e.mu.Lock()
	if gen != e.generation || e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}
	if e.paused {
		e.lastFrame = now
		e.scheduler.RequestFrame(e.frameFunc(gen))
		e.mu.Unlock()
		return
	}

	dt := core.ClampF(now.Sub(e.lastFrame).Seconds(), 0, e.cfg.Loop.MaxDt)
	e.lastFrame = now

	in := e.input.Poll()
	if in.Shield && e.shield.Activate() {
		e.audio.ShieldUp()
		e.effects.Spawn(e.player.Position(), e.bursts.shieldUp)
		e.log.Debug("shield up", "frame", e.state.Frame)
	}

	step := e.player.Update(dt, in, &e.state)
	e.stream.Update(dt, e.player.Position().Z)
	e.effects.Update(dt)

	e.outcomes = Resolve(e.outcomes[:0], e.player.Box(), e.stream.Objects(), &e.state, e.shield, e.cfg.Scoring)
	for _, out := range e.outcomes {
		e.react(out)
	}

	e.state.Frame++
	terminal := e.state.Lives == 0
	if !terminal {
		ApplyPassive(&e.state, step, e.cfg.Scoring.PassiveRate)
	}
	e.shield.sync(&e.state)
	e.recorder.ObserveFrame(dt, e.stream.Len(), e.effects.Len())

	if terminal {
		e.finish()
		snap := e.state
		e.mu.Unlock()
		e.observers.OnGameOver(snap)
		return
	}

	snap := e.state
	e.mu.Unlock()

	e.observers.OnStatsUpdate(snap)
	e.audio.SetSpeedRatio(snap.Speed / e.cfg.Speed.Max)

	// An observer may have restarted or stopped the run
	e.mu.Lock()
	if gen == e.generation && e.phase == PhaseRunning {
		e.scheduler.RequestFrame(e.frameFunc(gen))
	}
	e.mu.Unlock()
}

// react dispatches the cues for one collision outcome.
func (e *Engine) react(out Outcome) {
	e.recorder.ObserveOutcome(out.Kind.String())
	switch out.Kind {
	case OutcomeCollect:
		e.audio.Collect()
		e.effects.Spawn(out.Position, e.bursts.collect)
	case OutcomeAbsorb:
		e.audio.Crash()
		e.effects.Spawn(out.Position, e.bursts.absorb)
		e.log.Debug("hit absorbed", "object", out.ObjectID, "frame", e.state.Frame)
	case OutcomeCrash:
		e.audio.Crash()
		e.effects.Spawn(e.player.Position(), e.bursts.crash)
		e.log.Debug("crash", "object", out.ObjectID, "lives", e.state.Lives, "frame", e.state.Frame)
	}
}

// finish moves to Terminal and persists a beaten high score.
// Callers hold e.mu.
func (e *Engine) finish() {
	e.phase = PhaseTerminal
	e.recorder.ObserveRun(PhaseTerminal.String())

	// Other engines may share the store; compare against its current record
	record := max(e.state.HighScore, e.loadHighScore())
	beaten := e.state.Score > record
	if beaten {
		record = e.saveHighScore(e.state.Score)
		beaten = record == e.state.Score
	}
	e.state.HighScore = record
	e.log.Info("game over",
		"score", e.state.Score,
		"high_score", e.state.HighScore,
		"new_high", beaten,
		"distance", int(e.state.Distance),
		"frames", e.state.Frame,
	)
}

// State returns a snapshot of the game state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Phase returns the lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Paused reports whether a running game is paused.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Player returns a copy of the player pose.
func (e *Engine) Player() PlayerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player.State()
}

// Objects returns a copy of the active window, including objects
// deactivated this run that have not yet been retired.
func (e *Engine) Objects() []StreamObject {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]StreamObject(nil), e.stream.Objects()...)
}

// Particles returns a copy of the live particles.
func (e *Engine) Particles() []Particle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Particle(nil), e.effects.Particles()...)
}

// Input returns the buffer input collaborators write into.
func (e *Engine) Input() *core.InputBuffer {
	return e.input
}

// Config returns the tuning the engine was built with.
func (e *Engine) Config() config.VoidConfig {
	return e.cfg
}
