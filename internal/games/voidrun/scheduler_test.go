package voidrun

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
)

func TestTimerSchedulerFiresOncePerRequest(t *testing.T) {
	s := NewTimerScheduler(200)
	defer s.Close()

	var calls atomic.Int32
	done := make(chan time.Time, 4)
	s.RequestFrame(func(now time.Time) {
		calls.Add(1)
		done <- now
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("frame callback never fired")
	}
	time.Sleep(30 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callback fired %d times, expected 1", n)
	}
}

func TestTimerSchedulerCloseDropsPending(t *testing.T) {
	s := NewTimerScheduler(20)

	var calls atomic.Int32
	s.RequestFrame(func(time.Time) { calls.Add(1) })
	s.Close()
	s.RequestFrame(func(time.Time) { calls.Add(1) })

	time.Sleep(120 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("callback fired %d times after Close, expected 0", n)
	}
}

func TestTimerSchedulerDrivesEngine(t *testing.T) {
	s := NewTimerScheduler(250)
	defer s.Close()

	frames := make(chan GameState, 64)
	e, err := New(config.DefaultVoidConfig(), s, WithSeed(9), WithObserver(ObserverFuncs{
		StatsUpdate: func(st GameState) {
			select {
			case frames <- st:
			default:
			}
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	e.Start()

	deadline := time.After(3 * time.Second)
	for seen := 0; seen < 5; {
		select {
		case st := <-frames:
			seen++
			if st.Frame != seen {
				t.Fatalf("Frame = %d, expected %d", st.Frame, seen)
			}
		case <-deadline:
			t.Fatal("engine did not advance on the timer")
		}
	}
	e.Stop()
}

func TestAutopilotSteersTowardCollectible(t *testing.T) {
	h := newHarness(t)
	h.start()

	sm := h.engine.stream
	pos := core.Vec3{X: 7, Y: -3, Z: -40}
	sm.objects = append(sm.objects, StreamObject{ID: 1, Kind: KindCollectible, Position: pos, Active: true,
		Bounds: core.BoxAround(pos, core.Vec3{X: 1.5, Y: 1.5, Z: 1.5})})

	NewAutopilot(h.engine).Steer()
	in := h.engine.Input().Peek()
	if !in.PointerMoved || in.PointerX != 7 || in.PointerY != -3 {
		t.Errorf("pointer = (%v, %v, moved=%v), expected (7, -3)", in.PointerX, in.PointerY, in.PointerMoved)
	}
}

func TestAutopilotDodgesAndShields(t *testing.T) {
	h := newHarness(t)
	h.start()

	sm := h.engine.stream
	pos := core.Vec3{Z: -10}
	sm.objects = append(sm.objects, StreamObject{ID: 1, Kind: KindObstacle, Position: pos, Active: true,
		Bounds: core.BoxAround(pos, core.Vec3{X: 2, Y: 2, Z: 2})})

	NewAutopilot(h.engine).Steer()
	in := h.engine.Input().Peek()
	if in.PointerX > -3 && in.PointerX < 3 {
		t.Errorf("pointer x = %v, expected a target clear of the obstacle", in.PointerX)
	}
	if !in.Shield {
		t.Error("an imminent hazard should trigger the shield")
	}
}
