package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
	"github.com/vovakirdan/void-runner/internal/metrics"
	"github.com/vovakirdan/void-runner/internal/storage"
	"github.com/vovakirdan/void-runner/internal/web"
)

// loadGame loads the game config from path and applies a difficulty preset.
func loadGame(path, difficulty string, logger *log.Logger) (config.VoidConfig, error) {
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return config.VoidConfig{}, err
	}
	cfg, err := config.LoadVoid(path)
	if err != nil {
		return config.VoidConfig{}, err
	}
	config.ApplyVoidPreset(&cfg, preset)
	if config.IsFixedPreset(preset) {
		logger.Info("Speed progression disabled", "speed", cfg.Speed.Base)
	}
	logger.Debug("Game config loaded", "difficulty", preset, "lives", cfg.Player.Lives, "max_speed", cfg.Speed.Max)
	return cfg, nil
}

// frameRate picks the --fps flag over the config's loop rate.
func frameRate(cfg config.VoidConfig) int {
	if flagFPS > 0 {
		return flagFPS
	}
	if cfg.Loop.FrameRate > 0 {
		return cfg.Loop.FrameRate
	}
	return 60
}

// openStore opens the scores database. A failure is logged and the game
// continues without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("Could not open scores database, scores will not be saved", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// kvFor returns the high score store backing an engine.
func kvFor(store *storage.Store) voidrun.KV {
	if store == nil {
		return storage.NewMemoryKV()
	}
	return store
}

// startHTTP starts the snapshot feed and metrics endpoint on addr. It
// returns nil when addr is empty. The server stops when ctx is cancelled.
func startHTTP(ctx context.Context, addr string, collector *metrics.Collector, logger *log.Logger) *web.Server {
	if addr == "" {
		return nil
	}
	srv := web.NewServer(web.Options{
		Addr:    addr,
		Metrics: collector.Handler(),
		Logger:  logger.WithPrefix("http"),
	})
	go func() {
		if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("HTTP server stopped", "err", err)
		}
	}()
	logger.Info("Serving snapshots", "addr", addr, "ws", "/ws", "metrics", "/metrics")
	return srv
}
