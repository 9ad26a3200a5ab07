package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
	"github.com/vovakirdan/void-runner/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.voidrun/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the tuning every session plays with.
	Game config.VoidConfig

	// FrameRate is the per-session host frame rate.
	FrameRate int

	// Store is shared by all sessions. Nil keeps the high score in memory.
	Store *storage.Store

	// Observers receive every session's snapshots in addition to the
	// run log, e.g. the metrics collector.
	Observers voidrun.Observers

	// Recorder receives every session's frame measurements.
	Recorder voidrun.Recorder

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultVoidConfig(),
		FrameRate:   60,
	}
}

// SSHServer serves one independent, muted game per SSH session.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	logger   *log.Logger
	kv       voidrun.KV
	sessions atomic.Int64
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "voidrun-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}
	if cfg.Store != nil {
		srv.kv = cfg.Store
	} else {
		logger.Warn("no scores database, high score kept in memory")
		srv.kv = storage.NewMemoryKV()
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".voidrun", "host_key")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates an engine and a Bubble Tea program for each session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	engine, host, err := s.newSessionEngine(sess.User())
	if err != nil {
		s.logger.Error("cannot create session engine", "user", sess.User(), "err", err)
		return nil, nil
	}
	go func() {
		<-sess.Context().Done()
		engine.Stop()
	}()

	model := NewModel(engine, host, Options{
		Runtime: core.RuntimeConfig{
			ScreenW:   pty.Window.Width,
			ScreenH:   pty.Window.Height,
			FrameRate: s.config.FrameRate,
		},
		Logger: s.logger.With("user", sess.User()),
	})
	return model, ProgramOptions()
}

// newSessionEngine builds a muted engine sharing the server's store.
func (s *SSHServer) newSessionEngine(user string) (*voidrun.Engine, *HostScheduler, error) {
	logger := s.logger.With("user", user)
	host := NewHostScheduler()

	observers := append(voidrun.Observers{
		storage.RunLog{Store: s.config.Store, Source: "ssh", Log: logger},
	}, s.config.Observers...)

	opts := []voidrun.Option{
		voidrun.WithKV(s.kv),
		voidrun.WithLogger(logger),
		voidrun.WithObserver(observers),
	}
	if s.config.Recorder != nil {
		opts = append(opts, voidrun.WithRecorder(s.config.Recorder))
	}
	engine, err := voidrun.New(s.config.Game, host, opts...)
	if err != nil {
		return nil, nil, err
	}
	return engine, host, nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.sessions.Add(1)
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"sessions", n,
		)
		next(sess)
		n = s.sessions.Add(-1)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"sessions", n,
		)
	}
}

// Serve accepts sessions on ln until ctx is cancelled.
func (s *SSHServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()
	s.logger.Info("starting SSH server", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: ssh server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// ListenAndServe listens on the configured address until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("tui: cannot listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Sessions returns the number of connected sessions.
func (s *SSHServer) Sessions() int64 {
	return s.sessions.Load()
}
