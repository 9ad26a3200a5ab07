package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/void-runner/internal/audio"
	"github.com/vovakirdan/void-runner/internal/core"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
	"github.com/vovakirdan/void-runner/internal/metrics"
	"github.com/vovakirdan/void-runner/internal/platform/tui"
	"github.com/vovakirdan/void-runner/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMute       bool
	flagVolume     float64
	flagHTTPAddr   string
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start Void Runner in the current terminal.

Controls:
  WASD/Arrows/HJKL  - Steer (hold Shift or B to boost)
  Mouse             - Steer toward the pointer
  Space             - Shield
  P/Esc             - Pause
  Enter             - Start from the menu
  R                 - Restart
  Ctrl+S            - Save a screenshot (text and PNG)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower, wider spacing, three lives
  normal - The config as loaded
  hard   - Faster, denser, one life fewer
  fixed  - No speed progression

Examples:
  voidrun play
  voidrun play --difficulty hard
  voidrun play --config ./my-voidrun.yaml --mute
  voidrun play --http :8080   # watch at ws://localhost:8080/ws`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 1, "Master volume (0-1)")
	playCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Serve snapshots and metrics on this address")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.voidrun/voidrun.log", "Log file (the terminal belongs to the game)")
}

func runPlay(_ *cobra.Command, _ []string) {
	logFile, err := openLogFile(flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	cfg, err := loadGame(flagConfig, flagDifficulty, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size early so the first frame is laid out correctly
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	runtime := core.RuntimeConfig{
		ScreenW:   width,
		ScreenH:   height,
		FrameRate: frameRate(cfg),
		Seed:      flagSeed,
	}

	// Open score storage
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	// Open the sound device; only --mute makes a silent game acceptable
	var sound voidrun.Audio = audio.Nop{}
	if !flagMute {
		engine, audioErr := audio.Open(flagVolume)
		if audioErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", audioErr)
			fmt.Fprintln(os.Stderr, "Run with --mute to play without sound.")
			os.Exit(1)
		}
		defer engine.Close()
		sound = engine
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.New()
	opts := []voidrun.Option{
		voidrun.WithKV(kvFor(store)),
		voidrun.WithAudio(sound),
		voidrun.WithLogger(logger),
		voidrun.WithRecorder(collector),
		voidrun.WithObserver(collector),
		voidrun.WithObserver(storage.RunLog{Store: store, Source: "play", Log: logger}),
	}
	if srv := startHTTP(ctx, flagHTTPAddr, collector, logger); srv != nil {
		opts = append(opts, voidrun.WithObserver(srv.Hub()))
	}
	if flagSeed != 0 {
		opts = append(opts, voidrun.WithSeed(flagSeed))
	}

	host := tui.NewHostScheduler()
	game, err := voidrun.New(cfg, host, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	defer game.Stop()

	if runErr := tui.Run(game, host, tui.Options{Runtime: runtime, Logger: logger}); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}
