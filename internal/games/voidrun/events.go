package voidrun

// Observer receives state snapshots from the Engine.
// OnStatsUpdate is called once per simulated frame; OnGameOver exactly
// once per run. Snapshots are copies and may be retained.
type Observer interface {
	OnStatsUpdate(state GameState)
	OnGameOver(state GameState)
}

// ObserverFuncs adapts plain functions to the Observer interface.
// Nil fields are skipped.
type ObserverFuncs struct {
	StatsUpdate func(GameState)
	GameOver    func(GameState)
}

func (f ObserverFuncs) OnStatsUpdate(state GameState) {
	if f.StatsUpdate != nil {
		f.StatsUpdate(state)
	}
}

func (f ObserverFuncs) OnGameOver(state GameState) {
	if f.GameOver != nil {
		f.GameOver(state)
	}
}

// Observers fans snapshots out to every member in order.
type Observers []Observer

func (o Observers) OnStatsUpdate(state GameState) {
	for _, obs := range o {
		obs.OnStatsUpdate(state)
	}
}

func (o Observers) OnGameOver(state GameState) {
	for _, obs := range o {
		obs.OnGameOver(state)
	}
}

// Audio receives fire-and-forget sound cues.
type Audio interface {
	Collect()
	Crash()
	ShieldUp()
	// SetSpeedRatio reports speed / max speed for engine pitch. The value
	// exceeds 1 while boosting.
	SetSpeedRatio(ratio float64)
}

// KV is the opaque key-value store holding the high score.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// RecordKV is a KV that can keep the larger of the stored and the given
// integer in one step. SetMax returns the value stored afterwards. Stores
// shared by several engines implement it so a lower score never replaces
// a higher one.
type RecordKV interface {
	KV
	SetMax(key string, value int) (int, error)
}

// Recorder receives per-frame measurements.
type Recorder interface {
	ObserveFrame(dt float64, objects, particles int)
	ObserveOutcome(kind string)
	ObserveRun(phase string)
}

type nopAudio struct{}

func (nopAudio) Collect()              {}
func (nopAudio) Crash()                {}
func (nopAudio) ShieldUp()             {}
func (nopAudio) SetSpeedRatio(float64) {}

type nopRecorder struct{}

func (nopRecorder) ObserveFrame(float64, int, int) {}
func (nopRecorder) ObserveOutcome(string)          {}
func (nopRecorder) ObserveRun(string)              {}
