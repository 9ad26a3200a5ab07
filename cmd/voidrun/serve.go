package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/void-runner/internal/games/voidrun"
	"github.com/vovakirdan/void-runner/internal/metrics"
	"github.com/vovakirdan/void-runner/internal/platform/tui"
)

var (
	flagSSHAddr       string
	flagHostKey       string
	flagIdleTimeout   int
	flagServeHTTPAddr string
	flagServeConfig   string
	flagServeDiff     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Void Runner SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own muted game. Runs are stored per-server
(all users share the same high score and history).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.voidrun/host_key

Examples:
  voidrun serve                           # Listen on :23234 with auto-generated key
  voidrun serve --ssh :2222               # Listen on port 2222
  voidrun serve --host-key ./my_host_key  # Use specific host key
  voidrun serve --http :8080              # Also expose /metrics and /ws

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeHTTPAddr, "http", "", "Serve snapshots and metrics on this address")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to custom game config YAML")
	serveCmd.Flags().StringVar(&flagServeDiff, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	game, err := loadGame(flagServeConfig, flagServeDiff, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	collector := metrics.New()
	observers := voidrun.Observers{collector}
	if srv := startHTTP(ctx, flagServeHTTPAddr, collector, logger); srv != nil {
		observers = append(observers, srv.Hub())
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Game:        game,
		FrameRate:   frameRate(game),
		Store:       store,
		Observers:   observers,
		Recorder:    collector,
		Logger:      logger.WithPrefix("ssh"),
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Void Runner SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
