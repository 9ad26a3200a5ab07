package voidrun

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

// manualScheduler holds the pending callback until the test fires it.
type manualScheduler struct {
	pending  FrameFunc
	requests int
}

func (s *manualScheduler) RequestFrame(fn FrameFunc) {
	s.pending = fn
	s.requests++
}

func (s *manualScheduler) fire(now time.Time) bool {
	fn := s.pending
	s.pending = nil
	if fn == nil {
		return false
	}
	fn(now)
	return true
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

type mapKV struct {
	data   map[string]string
	getErr error
	sets   int
}

func (m *mapKV) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(key, value string) error {
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	m.sets++
	return nil
}

type countingAudio struct {
	collect, crash, shieldUp int
	ratio                    float64
}

func (a *countingAudio) Collect()                { a.collect++ }
func (a *countingAudio) Crash()                  { a.crash++ }
func (a *countingAudio) ShieldUp()               { a.shieldUp++ }
func (a *countingAudio) SetSpeedRatio(r float64) { a.ratio = r }

type countingRecorder struct {
	frames   int
	outcomes map[string]int
	runs     map[string]int
}

func (r *countingRecorder) ObserveFrame(float64, int, int) { r.frames++ }
func (r *countingRecorder) ObserveOutcome(kind string)     { r.outcomes[kind]++ }
func (r *countingRecorder) ObserveRun(phase string)        { r.runs[phase]++ }

type harness struct {
	engine   *Engine
	sched    *manualScheduler
	clock    *fakeClock
	kv       *mapKV
	audio    *countingAudio
	recorder *countingRecorder
	stats    []GameState
	overs    []GameState
}

const frameStep = 16 * time.Millisecond

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		sched:    &manualScheduler{},
		clock:    &fakeClock{t: time.Unix(1700000000, 0)},
		kv:       &mapKV{},
		audio:    &countingAudio{},
		recorder: &countingRecorder{outcomes: map[string]int{}, runs: map[string]int{}},
	}
	base := []Option{
		WithSeed(42),
		WithClock(h.clock.now),
		WithKV(h.kv),
		WithAudio(h.audio),
		WithRecorder(h.recorder),
		WithObserver(ObserverFuncs{
			StatsUpdate: func(s GameState) { h.stats = append(h.stats, s) },
			GameOver:    func(s GameState) { h.overs = append(h.overs, s) },
		}),
	}
	e, err := New(config.DefaultVoidConfig(), h.sched, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.engine = e
	return h
}

// start begins a run with an empty corridor so tests control every object.
func (h *harness) start() {
	h.engine.Start()
	h.clearStream()
}

func (h *harness) clearStream() {
	h.engine.stream.objects = h.engine.stream.objects[:0]
}

func (h *harness) step() bool {
	return h.sched.fire(h.clock.advance(frameStep))
}

// place puts an object just ahead of the player so the next frame hits it.
func (h *harness) place(kind Kind) {
	p := h.engine.player.Position()
	sm := h.engine.stream
	sm.nextID++
	sm.objects = append(sm.objects, StreamObject{
		ID:       sm.nextID,
		Kind:     kind,
		Position: core.Vec3{X: p.X, Y: p.Y, Z: p.Z - 1},
		Active:   true,
	})
}

func TestNewRequiresScheduler(t *testing.T) {
	_, err := New(config.DefaultVoidConfig(), nil)
	if !errors.Is(err, ErrNoScheduler) {
		t.Errorf("New(nil scheduler) error = %v, expected ErrNoScheduler", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultVoidConfig()
	cfg.Loop.MaxDt = 0
	if _, err := New(cfg, &manualScheduler{}); err == nil {
		t.Error("New() with invalid config should fail")
	}
}

func TestNewReadsHighScore(t *testing.T) {
	tests := []struct {
		name string
		kv   *mapKV
		want int
	}{
		{"stored", &mapKV{data: map[string]string{"void_high": "1234"}}, 1234},
		{"missing", &mapKV{}, 0},
		{"malformed", &mapKV{data: map[string]string{"void_high": "lots"}}, 0},
		{"negative", &mapKV{data: map[string]string{"void_high": "-5"}}, 0},
		{"unreadable", &mapKV{getErr: errors.New("disk on fire")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(config.DefaultVoidConfig(), &manualScheduler{}, WithKV(tt.kv))
			if err != nil {
				t.Fatal(err)
			}
			if got := e.State().HighScore; got != tt.want {
				t.Errorf("HighScore = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestStartResetsAndSchedules(t *testing.T) {
	h := newHarness(t)
	if h.engine.Phase() != PhaseIdle {
		t.Fatalf("Phase() = %v, expected idle", h.engine.Phase())
	}

	h.engine.Start()
	if h.engine.Phase() != PhaseRunning {
		t.Errorf("Phase() = %v, expected running", h.engine.Phase())
	}
	if h.sched.pending == nil {
		t.Fatal("Start() should request a frame")
	}
	s := h.engine.State()
	if s.Score != 0 || s.Lives != 3 || s.Multiplier != 1 || s.Combo != 0 || s.Speed != 60 || s.Distance != 0 {
		t.Errorf("initial state = %+v", s)
	}
	if len(h.engine.Objects()) != 10 {
		t.Errorf("Objects() = %d, expected the initial window of 10", len(h.engine.Objects()))
	}

	// A second Start while running is ignored
	h.engine.Start()
	if h.sched.requests != 1 {
		t.Errorf("requests = %d, expected 1", h.sched.requests)
	}
}

func TestFrameOrderAndPublish(t *testing.T) {
	h := newHarness(t)
	h.start()

	for i := 0; i < 3; i++ {
		if !h.step() {
			t.Fatalf("frame %d was not scheduled", i)
		}
	}
	if len(h.stats) != 3 {
		t.Fatalf("stats updates = %d, expected 3", len(h.stats))
	}
	if h.stats[2].Frame != 3 {
		t.Errorf("Frame = %d, expected 3", h.stats[2].Frame)
	}
	if h.recorder.frames != 3 {
		t.Errorf("recorded frames = %d, expected 3", h.recorder.frames)
	}
	if h.audio.ratio <= 0 || h.audio.ratio > 1 {
		t.Errorf("speed ratio = %v, expected within (0, 1]", h.audio.ratio)
	}
}

func TestDistanceIsSumOfClampedSteps(t *testing.T) {
	h := newHarness(t)
	h.start()
	cfg := h.engine.Config()

	intervals := []time.Duration{
		16 * time.Millisecond, 16 * time.Millisecond, 5 * time.Second,
		33 * time.Millisecond, 0, 100 * time.Millisecond, 250 * time.Millisecond,
	}
	var want float64
	for _, d := range intervals {
		dt := math.Min(d.Seconds(), cfg.Loop.MaxDt)
		speed := math.Min(cfg.Speed.Max, cfg.Speed.Base+want*cfg.Speed.Scaling)
		want += speed * dt

		h.sched.fire(h.clock.advance(d))
		if got := h.engine.State().Distance; math.Abs(got-want) > 1e-9 {
			t.Fatalf("after %v Distance = %v, expected %v", d, got, want)
		}
	}
}

func TestStallIsClamped(t *testing.T) {
	h := newHarness(t)
	h.start()

	h.sched.fire(h.clock.advance(10 * time.Second))
	if got := h.engine.State().Distance; !approx(got, 6) {
		t.Errorf("Distance after a 10s stall = %v, expected 60 * 0.1", got)
	}
}

func TestFiveCollectiblesThroughEngine(t *testing.T) {
	h := newHarness(t)
	h.start()

	for i := 0; i < 5; i++ {
		h.place(KindCollectible)
		h.step()
	}
	s := h.engine.State()
	if s.Combo != 5 || s.Multiplier != 2 || s.Score != 500 {
		t.Errorf("combo=%d multiplier=%d score=%d; expected 5, 2, 500", s.Combo, s.Multiplier, s.Score)
	}
	if h.audio.collect != 5 || h.recorder.outcomes["collect"] != 5 {
		t.Errorf("collect cues = %d, recorded = %d; expected 5", h.audio.collect, h.recorder.outcomes["collect"])
	}
	if len(h.engine.Particles()) == 0 {
		t.Error("collecting should emit particles")
	}
}

func TestShieldAbsorbThroughEngine(t *testing.T) {
	h := newHarness(t)
	h.start()

	h.engine.Input().TriggerShield()
	h.step()
	if s := h.engine.State(); !s.ShieldActive || s.ShieldCooldown != 0 {
		t.Fatalf("after shield tap: active=%v cooldown=%v", s.ShieldActive, s.ShieldCooldown)
	}
	if h.audio.shieldUp != 1 {
		t.Errorf("shield-up cues = %d, expected 1", h.audio.shieldUp)
	}

	h.place(KindCollectible)
	h.step()
	h.place(KindObstacle)
	h.step()

	s := h.engine.State()
	if s.ShieldActive || s.ShieldCooldown != 5 {
		t.Errorf("shieldActive=%v cooldown=%v; expected false and 5", s.ShieldActive, s.ShieldCooldown)
	}
	if s.Lives != 3 || s.Combo != 1 {
		t.Errorf("lives=%d combo=%d; expected 3 and 1", s.Lives, s.Combo)
	}
	if h.recorder.outcomes["absorb"] != 1 {
		t.Errorf("absorbs recorded = %d, expected 1", h.recorder.outcomes["absorb"])
	}

	// Tapping during cooldown does nothing
	h.engine.Input().TriggerShield()
	h.step()
	if h.engine.State().ShieldActive || h.audio.shieldUp != 1 {
		t.Error("shield should not re-arm during cooldown")
	}
}

func TestCrashThroughEngine(t *testing.T) {
	h := newHarness(t)
	h.start()

	h.place(KindCollectible)
	h.step()
	h.place(KindWall)
	h.step()

	s := h.engine.State()
	if s.Lives != 2 || s.Combo != 0 || s.Multiplier != 1 {
		t.Errorf("lives=%d combo=%d multiplier=%d; expected 2, 0, 1", s.Lives, s.Combo, s.Multiplier)
	}
	if h.audio.crash != 1 {
		t.Errorf("crash cues = %d, expected 1", h.audio.crash)
	}
}

func TestGameOverExactlyOnce(t *testing.T) {
	h := newHarness(t)
	h.start()

	h.place(KindCollectible)
	h.step()
	h.place(KindCollectible)
	h.step()
	for i := 0; i < 3; i++ {
		h.place(KindObstacle)
		h.step()
	}

	if h.engine.Phase() != PhaseTerminal {
		t.Fatalf("Phase() = %v, expected terminal", h.engine.Phase())
	}
	if len(h.overs) != 1 {
		t.Fatalf("game over callbacks = %d, expected 1", len(h.overs))
	}
	if len(h.stats) != 4 {
		t.Errorf("stats updates = %d, expected 4 (the terminal frame only reports game over)", len(h.stats))
	}
	final := h.overs[0]
	if final.Lives != 0 || final.Score != 200 || final.HighScore != 200 {
		t.Errorf("final snapshot = %+v", final)
	}
	if h.kv.data["void_high"] != "200" || h.kv.sets != 1 {
		t.Errorf("persisted high score = %q after %d sets, expected 200 once", h.kv.data["void_high"], h.kv.sets)
	}
	if h.sched.pending != nil {
		t.Error("no frame should be requested after game over")
	}
	if h.recorder.runs["terminal"] != 1 {
		t.Errorf("terminal runs recorded = %d, expected 1", h.recorder.runs["terminal"])
	}

	// Replaying the last frame callback does nothing
	h.engine.frame(h.engine.generation, h.clock.advance(frameStep))
	if len(h.overs) != 1 {
		t.Error("a late frame must not produce a second game over")
	}
}

func TestHighScoreNotLoweredOrRewritten(t *testing.T) {
	h := newHarness(t)
	h.kv.Set("void_high", "9000")
	h.kv.sets = 0
	e, err := New(config.DefaultVoidConfig(), h.sched, WithKV(h.kv), WithClock(h.clock.now), WithSeed(1),
		WithObserver(ObserverFuncs{GameOver: func(s GameState) { h.overs = append(h.overs, s) }}))
	if err != nil {
		t.Fatal(err)
	}
	h.engine = e
	h.start()
	for i := 0; i < 3; i++ {
		h.place(KindObstacle)
		h.step()
	}

	if len(h.overs) != 1 || h.overs[0].HighScore != 9000 {
		t.Fatalf("game over = %+v, expected high score 9000 kept", h.overs)
	}
	if h.kv.sets != 0 {
		t.Errorf("kv sets = %d, expected none when the high score is not beaten", h.kv.sets)
	}
}

func TestRestartIdempotence(t *testing.T) {
	h := newHarness(t)
	h.start()
	first := h.engine.State()

	for i := 0; i < 4; i++ {
		h.place(KindCollectible)
		h.step()
	}
	h.engine.Input().TriggerShield()
	h.step()
	for i := 0; i < 4; i++ {
		h.place(KindObstacle)
		h.step()
	}
	if h.engine.Phase() != PhaseTerminal {
		t.Fatalf("Phase() = %v, expected terminal", h.engine.Phase())
	}
	high := h.engine.State().HighScore

	for round := 0; round < 2; round++ {
		h.engine.Restart()
		got := h.engine.State()
		want := first
		want.HighScore = high
		if got != want {
			t.Errorf("round %d: state after Restart = %+v, expected %+v", round, got, want)
		}
		if h.engine.Player() != (PlayerState{}) {
			t.Errorf("round %d: player not reset: %+v", round, h.engine.Player())
		}
		if len(h.engine.Particles()) != 0 {
			t.Errorf("round %d: particles not cleared", round)
		}
		h.step()
	}
}

func TestRestartDropsStaleCallbacks(t *testing.T) {
	h := newHarness(t)
	h.start()

	stale := h.sched.pending
	h.engine.Restart()
	h.clearStream()
	stale(h.clock.advance(frameStep))
	if h.engine.State().Frame != 0 {
		t.Error("a callback from the previous run must be ignored")
	}

	h.step()
	if h.engine.State().Frame != 1 {
		t.Errorf("Frame = %d, expected 1", h.engine.State().Frame)
	}
}

func TestRestartFromObserverKeepsRunning(t *testing.T) {
	var h *harness
	restarts := 0
	h = newHarness(t, WithObserver(ObserverFuncs{
		StatsUpdate: func(GameState) {
			if restarts == 0 {
				restarts++
				h.engine.Restart()
			}
		},
	}))
	h.start()
	h.step()

	for i := 0; i < 5; i++ {
		if !h.step() {
			t.Fatalf("step %d: no frame pending after a restart from an observer", i)
		}
	}
	st := h.engine.State()
	if h.engine.Phase() != PhaseRunning || st.Frame != 5 || st.Distance <= 0 {
		t.Errorf("phase = %v, frame = %d, distance = %v; expected the restarted run to advance 5 frames",
			h.engine.Phase(), st.Frame, st.Distance)
	}
}

func TestSpeedCueFollowsPublish(t *testing.T) {
	var h *harness
	var atPublish []float64
	h = newHarness(t, WithObserver(ObserverFuncs{
		StatsUpdate: func(GameState) { atPublish = append(atPublish, h.audio.ratio) },
	}))
	h.start()
	h.step()

	if len(atPublish) != 1 || atPublish[0] != 0 {
		t.Errorf("speed ratio during publish = %v, expected the cue to follow the snapshot", atPublish)
	}
	want := h.engine.State().Speed / h.engine.Config().Speed.Max
	if h.audio.ratio != want {
		t.Errorf("speed ratio = %v, expected %v", h.audio.ratio, want)
	}
}

func TestStopFromObserverRequestsNoFrame(t *testing.T) {
	var h *harness
	h = newHarness(t, WithObserver(ObserverFuncs{
		StatsUpdate: func(GameState) { h.engine.Stop() },
	}))
	h.start()
	h.step()

	if h.sched.pending != nil {
		t.Error("a run stopped by an observer must not request another frame")
	}
	if h.engine.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, expected idle", h.engine.Phase())
	}
}

// crashOut ends the harness run with the given score.
func (h *harness) crashOut(t *testing.T, score int) GameState {
	t.Helper()
	h.engine.mu.Lock()
	h.engine.state.Score = score
	h.engine.mu.Unlock()
	for i := 0; i < 10 && h.engine.Phase() == PhaseRunning; i++ {
		h.place(KindObstacle)
		h.step()
	}
	if len(h.overs) == 0 {
		t.Fatal("run did not end")
	}
	return h.overs[len(h.overs)-1]
}

func TestSharedKVKeepsHigherRecord(t *testing.T) {
	a := newHarness(t)
	a.kv.Set("void_high", "100")
	b := newHarness(t, WithKV(a.kv))
	b.kv = a.kv

	a.start()
	b.start()
	if a.engine.State().HighScore != 100 || b.engine.State().HighScore != 100 {
		t.Fatalf("both engines should start from the stored record 100")
	}

	finalA := a.crashOut(t, 500)
	finalB := b.crashOut(t, 300)

	if finalB.Score >= finalA.Score {
		t.Fatalf("scores a=%d b=%d, expected b below a", finalA.Score, finalB.Score)
	}
	want := strconv.Itoa(finalA.Score)
	if got := a.kv.data["void_high"]; got != want {
		t.Errorf("stored high score = %s, expected %s", got, want)
	}
	if finalB.HighScore != finalA.Score {
		t.Errorf("second engine HighScore = %d, expected the shared record %d", finalB.HighScore, finalA.Score)
	}

	// The next run reads the current record too
	b.engine.Restart()
	if got := b.engine.State().HighScore; got != finalA.Score {
		t.Errorf("HighScore after Restart = %d, expected %d", got, finalA.Score)
	}
}

// recordKV answers SetMax with a record written behind the engine's back.
type recordKV struct {
	mapKV
	best    int
	setMaxN int
}

func (r *recordKV) SetMax(key string, value int) (int, error) {
	r.setMaxN++
	r.best = max(r.best, value)
	return r.best, nil
}

func TestRecordKVWinsOverStaleRead(t *testing.T) {
	kv := &recordKV{mapKV: mapKV{data: map[string]string{"void_high": "100"}}, best: 800}
	h := newHarness(t, WithKV(kv))
	h.start()

	final := h.crashOut(t, 400)
	if kv.setMaxN != 1 || kv.sets != 0 {
		t.Errorf("SetMax calls = %d, Set calls = %d; expected the conditional write only", kv.setMaxN, kv.sets)
	}
	if final.HighScore != 800 {
		t.Errorf("HighScore = %d, expected the stored record 800", final.HighScore)
	}
}

func TestStopHaltsScheduling(t *testing.T) {
	h := newHarness(t)
	h.start()
	h.step()

	h.engine.Stop()
	if h.step() {
		// The pending callback fires but is dropped
		if h.engine.State().Frame != 1 {
			t.Errorf("Frame = %d after Stop, expected 1", h.engine.State().Frame)
		}
	}
	if h.sched.pending != nil {
		t.Error("a stopped engine must not request frames")
	}
	if h.engine.Phase() != PhaseIdle || len(h.overs) != 0 {
		t.Errorf("Phase() = %v, game overs = %d; expected idle and none", h.engine.Phase(), len(h.overs))
	}
}

func TestStopClearsInput(t *testing.T) {
	h := newHarness(t)
	h.start()
	in := h.engine.Input()
	in.SetAxisX(1)
	in.SetBoost(true)
	in.TriggerShield()

	h.engine.Stop()
	if got := in.Peek(); got != (core.InputState{}) {
		t.Errorf("input after Stop = %+v, expected cleared", got)
	}
}

func TestPauseResume(t *testing.T) {
	h := newHarness(t)
	h.start()
	h.step()
	before := h.engine.State()

	h.engine.Pause()
	if !h.engine.Paused() {
		t.Fatal("Paused() should be true")
	}
	for i := 0; i < 5; i++ {
		if !h.step() {
			t.Fatal("a paused engine keeps scheduling")
		}
	}
	if h.engine.State() != before {
		t.Error("paused frames must not simulate")
	}

	h.clock.advance(30 * time.Second)
	h.engine.TogglePause()
	h.step()
	after := h.engine.State()
	if after.Frame != before.Frame+1 {
		t.Errorf("Frame = %d, expected %d", after.Frame, before.Frame+1)
	}
	if d := after.Distance - before.Distance; d > 1.5 {
		t.Errorf("resume advanced %v units, expected a single short step", d)
	}
}

func TestObjectsAreCopies(t *testing.T) {
	h := newHarness(t)
	h.engine.Start()

	objs := h.engine.Objects()
	objs[0].Active = false
	if !h.engine.Objects()[0].Active {
		t.Error("Objects() must return a copy")
	}
}

func TestInvariantsOverRandomRuns(t *testing.T) {
	h := newHarness(t)
	rng := rand.New(rand.NewSource(3))
	h.engine.Start()

	prev := h.engine.State()
	check := func(s GameState) {
		t.Helper()
		if s.Lives < 0 || s.Lives > 3 {
			t.Fatalf("Lives = %d out of [0, 3]", s.Lives)
		}
		if s.Multiplier < 1 || s.Combo < 0 {
			t.Fatalf("multiplier=%d combo=%d", s.Multiplier, s.Combo)
		}
		if s.ShieldCooldown < 0 || s.ShieldRemaining < 0 {
			t.Fatalf("cooldown=%v remaining=%v", s.ShieldCooldown, s.ShieldRemaining)
		}
		if s.Speed < 60 || s.Speed > 300 {
			t.Fatalf("Speed = %v", s.Speed)
		}
		if s.Score < prev.Score || s.Distance < prev.Distance {
			t.Fatalf("score or distance decreased: %+v -> %+v", prev, s)
		}
	}

	runs := 0
	for i := 0; i < 20000 && runs < 3; i++ {
		in := h.engine.Input()
		in.SetAxisX(rng.Intn(3) - 1)
		in.SetAxisY(rng.Intn(3) - 1)
		in.SetBoost(rng.Intn(4) == 0)
		if rng.Intn(30) == 0 {
			in.TriggerShield()
		}

		if !h.sched.fire(h.clock.advance(time.Duration(5+rng.Intn(60)) * time.Millisecond)) {
			t.Fatal("engine stopped scheduling while running")
		}
		s := h.engine.State()
		check(s)
		prev = s

		if h.engine.Phase() == PhaseTerminal {
			runs++
			if len(h.overs) != runs {
				t.Fatalf("game overs = %d, expected %d", len(h.overs), runs)
			}
			if s.Lives != 0 {
				t.Fatalf("terminal with %d lives", s.Lives)
			}
			h.engine.Restart()
			prev = h.engine.State()
		}
	}
	for _, s := range h.stats {
		if s.Lives == 0 {
			t.Fatal("a stats update reported zero lives")
		}
	}
}
