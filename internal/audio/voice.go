package audio

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects the oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// sample returns the wave value at phase in [0,1).
func (w WaveType) sample(phase float64, rng *rand.Rand) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveNoise:
		return rng.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Ramp interpolates a value over a number of samples.
type Ramp struct {
	From, To    float64
	Duration    time.Duration
	Exponential bool
}

// at returns the ramp value after elapsed samples. The value holds at To
// once the ramp is complete.
func (r Ramp) at(elapsed, total int) float64 {
	if total <= 0 || elapsed >= total {
		return r.To
	}
	t := float64(elapsed) / float64(total)
	if r.Exponential && r.From > 0 && r.To > 0 {
		return r.From * math.Pow(r.To/r.From, t)
	}
	return r.From + (r.To-r.From)*t
}

// tone is a one-shot voice with a frequency sweep and a gain ramp.
// An optional one-pole low-pass softens noise voices.
type tone struct {
	wave     WaveType
	freq     Ramp
	gain     Ramp
	rate     beep.SampleRate
	total    int
	position int
	phase    float64
	cutoff   float64
	prev     float64
	rng      *rand.Rand
}

// NewTone creates a voice lasting as long as its gain ramp.
func NewTone(wave WaveType, freq, gain Ramp, rate beep.SampleRate) beep.Streamer {
	return &tone{
		wave:  wave,
		freq:  freq,
		gain:  gain,
		rate:  rate,
		total: rate.N(gain.Duration),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewNoise creates a low-passed noise burst.
func NewNoise(cutoff float64, gain Ramp, rate beep.SampleRate) beep.Streamer {
	t := NewTone(WaveNoise, Ramp{}, gain, rate).(*tone)
	t.cutoff = cutoff
	return t
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	freqSamples := t.rate.N(t.freq.Duration)
	alpha := 1.0
	if t.cutoff > 0 {
		rc := 1 / (2 * math.Pi * t.cutoff)
		dt := 1 / float64(t.rate)
		alpha = dt / (rc + dt)
	}

	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		v := t.wave.sample(t.phase, t.rng)
		if t.cutoff > 0 {
			t.prev += alpha * (v - t.prev)
			v = t.prev
		}
		v *= t.gain.at(t.position, t.total)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq.at(t.position, freqSamples) / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Hum is an endless triangle oscillator whose pitch glides toward a
// target frequency. SetTarget may be called from any goroutine.
type Hum struct {
	target atomic.Uint64
	freq   float64
	phase  float64
	gain   float64
	glide  float64
	rate   beep.SampleRate
}

// NewHum creates a hum starting at freq. glide is the smoothing time
// constant of pitch changes.
func NewHum(freq, gain float64, glide time.Duration, rate beep.SampleRate) *Hum {
	h := &Hum{freq: freq, gain: gain, rate: rate}
	if glide > 0 {
		h.glide = 1 - math.Exp(-1/(glide.Seconds()*float64(rate)))
	} else {
		h.glide = 1
	}
	h.SetTarget(freq)
	return h
}

// SetTarget sets the frequency the hum glides toward.
func (h *Hum) SetTarget(freq float64) {
	h.target.Store(math.Float64bits(freq))
}

// Target returns the current target frequency.
func (h *Hum) Target() float64 {
	return math.Float64frombits(h.target.Load())
}

// Frequency returns the instantaneous frequency. Only meaningful from the
// streaming goroutine or while the speaker is locked.
func (h *Hum) Frequency() float64 {
	return h.freq
}

func (h *Hum) Stream(samples [][2]float64) (n int, ok bool) {
	target := h.Target()
	for i := range samples {
		h.freq += (target - h.freq) * h.glide
		v := WaveTriangle.sample(h.phase, nil) * h.gain
		samples[i][0] = v
		samples[i][1] = v
		h.phase += h.freq / float64(h.rate)
		h.phase -= math.Floor(h.phase)
	}
	return len(samples), true
}

func (h *Hum) Err() error { return nil }

// volume wraps s with a linear gain. Zero or less is silent since
// math.Log2(0) is -Inf.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Cue generators.

// CollectSound is a bright sine ping sweeping up an octave-ish.
func CollectSound(rate beep.SampleRate) beep.Streamer {
	return NewTone(WaveSine,
		Ramp{From: 1200, To: 2000, Duration: 100 * time.Millisecond, Exponential: true},
		Ramp{From: 0.5, To: 0.01, Duration: 300 * time.Millisecond, Exponential: true},
		rate)
}

// CrashSound is a half-second burst of low-passed noise.
func CrashSound(rate beep.SampleRate) beep.Streamer {
	return NewNoise(1000,
		Ramp{From: 0.8, To: 0.01, Duration: 500 * time.Millisecond, Exponential: true},
		rate)
}

// ShieldUpSound is a rising square sweep.
func ShieldUpSound(rate beep.SampleRate) beep.Streamer {
	return NewTone(WaveSquare,
		Ramp{From: 200, To: 800, Duration: 400 * time.Millisecond},
		Ramp{From: 0.3, To: 0, Duration: 400 * time.Millisecond},
		rate)
}
