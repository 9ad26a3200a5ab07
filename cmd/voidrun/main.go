// voidrun is an endless 3D corridor runner for the terminal.
//
// Usage:
//
//	voidrun play             - Play in this terminal
//	voidrun simulate         - Run a headless game driven by the autopilot
//	voidrun serve            - Start SSH server for remote play
//	voidrun scores           - Show the run history
//
// Global flags:
//
//	--fps <rate>          - Set host frame rate (default: from config, else 60)
//	--seed <value>        - Set RNG seed for a reproducible layout
//	--db <path>           - Set database path (default: ~/.voidrun/scores.db)
//	--log-level <level>   - debug, info, warn or error (default: info)
//
// Flags left unset fall back to VOIDRUN_* environment variables, which may
// also come from a .env file in the working directory.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

// envFlags maps flag names to the environment variables that back them.
var envFlags = map[string]string{
	"db":         "VOIDRUN_DB",
	"log-level":  "VOIDRUN_LOG_LEVEL",
	"config":     "VOIDRUN_CONFIG",
	"difficulty": "VOIDRUN_DIFFICULTY",
	"http":       "VOIDRUN_HTTP",
	"ssh":        "VOIDRUN_SSH",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voidrun",
	Short: "Void Runner - an endless corridor runner in your terminal",
	Long: `Void Runner flies a ship down an endless corridor. Dodge obstacles and
walls, collect orbs to build the multiplier, and raise the shield when a hit
is unavoidable.

Available commands:
  play      - Play in this terminal
  simulate  - Headless autopilot run (useful with --http)
  serve     - Start SSH server for remote play
  scores    - View the run history

Examples:
  voidrun play
  voidrun play --difficulty hard --mute
  voidrun simulate --seed 42 --duration 30s
  voidrun serve --ssh :2222 --http :8080
  voidrun scores --interactive`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// A missing .env file is normal
		_ = godotenv.Load()
		return applyEnv(cmd.Flags())
	},
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Host frame rate (0 = config loop.frame_rate)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.voidrun/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// applyEnv fills flags the user did not set from the environment.
func applyEnv(flags *pflag.FlagSet) error {
	for name, env := range envFlags {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v, ok := os.LookupEnv(env)
		if !ok || v == "" {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", env, v, err)
		}
	}
	return nil
}

// newLogger creates the command's logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "voidrun",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
