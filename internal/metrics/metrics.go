// Package metrics exposes simulation measurements to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/void-runner/internal/games/voidrun"
)

// Collector records frame timings, entity counts and run outcomes on its
// own registry. Label values are bounded: outcome kinds and run phases.
type Collector struct {
	registry *prometheus.Registry

	frames    prometheus.Counter
	frameDt   prometheus.Histogram
	objects   prometheus.Gauge
	particles prometheus.Gauge
	outcomes  *prometheus.CounterVec
	runs      *prometheus.CounterVec
	score     prometheus.Gauge
	distance  prometheus.Gauge
	high      prometheus.Gauge
}

// New creates a collector registered on a fresh registry together with
// the Go runtime and process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voidrun_frames_total",
			Help: "Simulated frames",
		}),
		frameDt: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voidrun_frame_dt_seconds",
			Help:    "Clamped frame delta",
			Buckets: []float64{0.004, 0.008, 0.016, 0.033, 0.05, 0.1},
		}),
		objects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voidrun_stream_objects",
			Help: "Active stream objects",
		}),
		particles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voidrun_particles",
			Help: "Live particles",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voidrun_outcomes_total",
			Help: "Collision outcomes",
		}, []string{"kind"}), // collect, absorb, crash
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voidrun_runs_total",
			Help: "Run phase transitions",
		}, []string{"phase"}), // running, terminal
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voidrun_score",
			Help: "Score of the current run",
		}),
		distance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voidrun_distance",
			Help: "Distance travelled in the current run",
		}),
		high: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voidrun_high_score",
			Help: "Best score seen",
		}),
	}

	c.registry.MustRegister(
		c.frames, c.frameDt, c.objects, c.particles,
		c.outcomes, c.runs, c.score, c.distance, c.high,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) ObserveFrame(dt float64, objects, particles int) {
	c.frames.Inc()
	c.frameDt.Observe(dt)
	c.objects.Set(float64(objects))
	c.particles.Set(float64(particles))
}

func (c *Collector) ObserveOutcome(kind string) {
	c.outcomes.WithLabelValues(kind).Inc()
}

func (c *Collector) ObserveRun(phase string) {
	c.runs.WithLabelValues(phase).Inc()
}

// OnStatsUpdate tracks the live score.
func (c *Collector) OnStatsUpdate(state voidrun.GameState) {
	c.score.Set(float64(state.Score))
	c.distance.Set(state.Distance)
	c.high.Set(float64(state.HighScore))
}

// OnGameOver records the final score.
func (c *Collector) OnGameOver(state voidrun.GameState) {
	c.OnStatsUpdate(state)
}

var (
	_ voidrun.Recorder = (*Collector)(nil)
	_ voidrun.Observer = (*Collector)(nil)
)
