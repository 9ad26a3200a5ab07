package storage

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/void-runner/internal/games/voidrun"
)

// RunLog is an engine observer that appends every finished run to the
// store. Write failures are logged and otherwise ignored.
type RunLog struct {
	Store  *Store
	Source string
	Log    *log.Logger
}

func (r RunLog) OnStatsUpdate(voidrun.GameState) {}

func (r RunLog) OnGameOver(state voidrun.GameState) {
	if r.Store == nil {
		return
	}
	id, err := r.Store.SaveRun(Run{
		Score:         state.Score,
		Distance:      state.Distance,
		MaxMultiplier: state.MaxMultiplier,
		Frames:        state.Frame,
		Source:        r.Source,
	})
	if r.Log == nil {
		return
	}
	if err != nil {
		r.Log.Warn("failed to save run", "err", err)
		return
	}
	r.Log.Debug("run saved", "id", id, "score", state.Score, "source", r.Source)
}

var (
	_ voidrun.Observer = RunLog{}
	_ voidrun.RecordKV = (*Store)(nil)
	_ voidrun.RecordKV = (*MemoryKV)(nil)
)
