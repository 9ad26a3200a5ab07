package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
)

// stepScheduler runs one queued frame per call to step.
type stepScheduler struct {
	next voidrun.FrameFunc
	now  time.Time
}

func (s *stepScheduler) RequestFrame(fn voidrun.FrameFunc) { s.next = fn }

func (s *stepScheduler) step() {
	fn := s.next
	s.next = nil
	if fn != nil {
		s.now = s.now.Add(16 * time.Millisecond)
		fn(s.now)
	}
}

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.ObserveFrame(0.016, 10, 4)
	c.ObserveFrame(0.016, 9, 0)
	c.ObserveOutcome("collect")
	c.ObserveOutcome("collect")
	c.ObserveOutcome("crash")
	c.ObserveRun("running")

	if got := testutil.ToFloat64(c.frames); got != 2 {
		t.Errorf("frames = %v, expected 2", got)
	}
	if got := testutil.ToFloat64(c.objects); got != 9 {
		t.Errorf("objects = %v, expected 9", got)
	}
	if got := testutil.ToFloat64(c.particles); got != 0 {
		t.Errorf("particles = %v, expected 0", got)
	}
	if got := testutil.ToFloat64(c.outcomes.WithLabelValues("collect")); got != 2 {
		t.Errorf("collect outcomes = %v, expected 2", got)
	}
	if got := testutil.ToFloat64(c.outcomes.WithLabelValues("crash")); got != 1 {
		t.Errorf("crash outcomes = %v, expected 1", got)
	}
	if got := testutil.CollectAndCount(c.frameDt); got != 1 {
		t.Errorf("histogram series = %d, expected 1", got)
	}
}

func TestCollectorObserver(t *testing.T) {
	c := New()
	c.OnStatsUpdate(voidrun.GameState{Score: 120, Distance: 55.5, HighScore: 300})
	if got := testutil.ToFloat64(c.score); got != 120 {
		t.Errorf("score = %v, expected 120", got)
	}
	if got := testutil.ToFloat64(c.distance); got != 55.5 {
		t.Errorf("distance = %v, expected 55.5", got)
	}
	c.OnGameOver(voidrun.GameState{Score: 400, HighScore: 400})
	if got := testutil.ToFloat64(c.high); got != 400 {
		t.Errorf("high score = %v, expected 400", got)
	}
}

func TestCollectorFedByEngine(t *testing.T) {
	c := New()
	s := &stepScheduler{now: time.Unix(0, 0)}
	e, err := voidrun.New(config.DefaultVoidConfig(), s,
		voidrun.WithSeed(3),
		voidrun.WithRecorder(c),
		voidrun.WithObserver(c),
		voidrun.WithClock(func() time.Time { return s.now }),
	)
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	for i := 0; i < 10; i++ {
		s.step()
	}

	if got := testutil.ToFloat64(c.frames); got != 10 {
		t.Errorf("frames = %v, expected 10", got)
	}
	if got := testutil.ToFloat64(c.runs.WithLabelValues("running")); got != 1 {
		t.Errorf("running runs = %v, expected 1", got)
	}
	if got := testutil.ToFloat64(c.objects); got != float64(len(e.Objects())) {
		t.Errorf("objects gauge = %v, expected %d", got, len(e.Objects()))
	}
}

func TestHandlerExposition(t *testing.T) {
	c := New()
	c.ObserveRun("terminal")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`voidrun_runs_total{phase="terminal"} 1`,
		"voidrun_frames_total 0",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
