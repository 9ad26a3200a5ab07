// Package audio synthesizes the game's sound cues with beep. Every sound
// is generated procedurally; there are no sample files.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	humBase  = 100.0
	humRange = 200.0
	humGain  = 0.1
	humGlide = 100 * time.Millisecond

	// maxRatio bounds the boosted speed ratio fed to the hum.
	maxRatio = 2.0
)

// Engine plays cues through the system audio device. Methods are safe for
// concurrent use and never block on playback.
type Engine struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	master  beep.Streamer
	hum     *Hum
	humCtrl *beep.Ctrl
	volume  float64
	closed  bool
}

// Open initializes the speaker and starts the engine hum. volume is a
// linear gain applied to every cue, 1 being unity.
func Open(volume float64) (*Engine, error) {
	e := newEngine(volume)
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: cannot open output: %w", err)
	}
	speaker.Play(e.master)
	return e, nil
}

// newEngine builds the mixer graph without touching the device.
func newEngine(vol float64) *Engine {
	e := &Engine{mixer: &beep.Mixer{}, volume: vol}
	e.hum = NewHum(humBase, humGain, humGlide, sampleRate)
	e.humCtrl = &beep.Ctrl{Streamer: e.hum}
	e.mixer.Add(e.humCtrl)
	e.master = volume(e.mixer, vol)
	return e
}

// HumFrequency maps a speed ratio to the hum pitch.
func HumFrequency(ratio float64) float64 {
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	return humBase + math.Min(ratio, maxRatio)*humRange
}

// Collect plays the collectible pickup ping.
func (e *Engine) Collect() { e.play(CollectSound(sampleRate)) }

// Crash plays the hull impact noise.
func (e *Engine) Crash() { e.play(CrashSound(sampleRate)) }

// ShieldUp plays the shield activation sweep.
func (e *Engine) ShieldUp() { e.play(ShieldUpSound(sampleRate)) }

// SetSpeedRatio retunes the engine hum.
func (e *Engine) SetSpeedRatio(ratio float64) {
	e.hum.SetTarget(HumFrequency(ratio))
}

func (e *Engine) play(s beep.Streamer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	speaker.Lock()
	e.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the hum and drops queued cues. The speaker itself stays
// initialized; beep allows only one Init per process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	speaker.Lock()
	e.humCtrl.Paused = true
	e.mixer.Clear()
	speaker.Unlock()
	return nil
}

// Nop discards every cue. Used for muted and SSH sessions.
type Nop struct{}

func (Nop) Collect()              {}
func (Nop) Crash()                {}
func (Nop) ShieldUp()             {}
func (Nop) SetSpeedRatio(float64) {}
