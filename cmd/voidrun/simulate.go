package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/void-runner/internal/audio"
	"github.com/vovakirdan/void-runner/internal/core"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
	"github.com/vovakirdan/void-runner/internal/metrics"
	"github.com/vovakirdan/void-runner/internal/storage"
)

var (
	flagSimDuration time.Duration
	flagSimRuns     int
	flagSimReport   time.Duration
	flagSimHTTPAddr string
	flagSimConfig   string
	flagSimDiff     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless game driven by the autopilot",
	Long: `Run Void Runner without a terminal UI. The autopilot steers toward orbs,
sidesteps hazards and raises the shield. Frames come from a fixed-rate timer.

The run ends at game over, when --duration elapses, or on Ctrl+C. With
--runs the game restarts after each game over. Finished runs are saved with
source "simulate".

Examples:
  voidrun simulate
  voidrun simulate --seed 42 --runs 5
  voidrun simulate --duration 2m --http :8080`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&flagSimDuration, "duration", 0, "Stop after this long (0 = until game over)")
	simulateCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of runs to play")
	simulateCmd.Flags().DurationVar(&flagSimReport, "report", 5*time.Second, "Interval between progress log lines (0 = off)")
	simulateCmd.Flags().StringVar(&flagSimHTTPAddr, "http", "", "Serve snapshots and metrics on this address")
	simulateCmd.Flags().StringVar(&flagSimConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().StringVar(&flagSimDiff, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	cfg, err := loadGame(flagSimConfig, flagSimDiff, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	runtime := core.RuntimeConfig{FrameRate: frameRate(cfg), Seed: flagSeed}
	seed := runtime.ResolveSeed()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagSimDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagSimDuration)
		defer cancel()
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	// The autopilot needs the engine, which needs its observers first
	var pilot *voidrun.Autopilot
	finished := make(chan voidrun.GameState, 1)
	steer := voidrun.ObserverFuncs{
		StatsUpdate: func(voidrun.GameState) { pilot.Steer() },
		GameOver: func(st voidrun.GameState) {
			select {
			case finished <- st:
			default:
			}
		},
	}

	collector := metrics.New()
	opts := []voidrun.Option{
		voidrun.WithKV(kvFor(store)),
		voidrun.WithAudio(audio.Nop{}),
		voidrun.WithLogger(logger),
		voidrun.WithRecorder(collector),
		voidrun.WithSeed(seed),
		voidrun.WithObserver(steer),
		voidrun.WithObserver(collector),
		voidrun.WithObserver(storage.RunLog{Store: store, Source: "simulate", Log: logger}),
	}
	if srv := startHTTP(ctx, flagSimHTTPAddr, collector, logger); srv != nil {
		opts = append(opts, voidrun.WithObserver(srv.Hub()))
	}

	scheduler := voidrun.NewTimerScheduler(runtime.FrameRate)
	defer scheduler.Close()
	game, err := voidrun.New(cfg, scheduler, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	pilot = voidrun.NewAutopilot(game)

	var report <-chan time.Time
	if flagSimReport > 0 {
		ticker := time.NewTicker(flagSimReport)
		defer ticker.Stop()
		report = ticker.C
	}

	logger.Info("Simulation starting", "seed", seed, "fps", runtime.FrameRate, "runs", flagSimRuns)
	game.Start()

	var results []voidrun.GameState
loop:
	for len(results) < flagSimRuns {
		select {
		case st := <-finished:
			results = append(results, st)
			logger.Info("Run finished", "run", len(results), "score", st.Score, "distance", int(st.Distance), "max_multiplier", st.MaxMultiplier)
			if len(results) < flagSimRuns {
				game.Restart()
			}
		case <-report:
			st := game.State()
			logger.Info("Progress", "score", st.Score, "speed", int(st.Speed), "lives", st.Lives, "multiplier", st.Multiplier)
		case <-ctx.Done():
			break loop
		}
	}
	game.Stop()

	if len(results) == 0 {
		// Interrupted mid-run; report where it stood
		results = append(results, game.State())
	}
	printResults(seed, results)
}

func printResults(seed int64, results []voidrun.GameState) {
	fmt.Printf("Simulation (seed %d)\n\n", seed)
	fmt.Printf("  %-4s  %-10s  %-10s  %-6s  %s\n", "Run", "Score", "Distance", "Combo", "Frames")
	fmt.Printf("  %-4s  %-10s  %-10s  %-6s  %s\n", "---", "-----", "--------", "-----", "------")
	best := 0
	for i, st := range results {
		fmt.Printf("  %-4d  %-10s  %-10s  x%-5d  %d\n",
			i+1, humanize.Comma(int64(st.Score)), humanize.Comma(int64(st.Distance)), st.MaxMultiplier, st.Frame)
		best = max(best, st.Score)
	}
	fmt.Printf("\nBest: %s\n", humanize.Comma(int64(best)))
}
