package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/void-runner/internal/platform/tui"
	"github.com/vovakirdan/void-runner/internal/storage"
)

var (
	flagScoresLimit       int
	flagScoresInteractive bool
	flagScoresClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the run history",
	Long: `Display the best runs recorded in the scores database.

Examples:
  voidrun scores
  voidrun scores --limit 25
  voidrun scores --interactive
  voidrun scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse the history in a table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the run history (the high score is kept)")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Run history cleared.")
		return
	}

	if flagScoresInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.TopRuns(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("High Scores - Void Runner")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'voidrun play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-10s  %-6s  %-8s  %s\n", "Rank", "Score", "Distance", "Combo", "Source", "Date")
	fmt.Printf("  %-4s  %-10s  %-10s  %-6s  %-8s  %s\n", "----", "-----", "--------", "-----", "------", "----")

	// Print runs
	for i, r := range runs {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10s  %-10s  x%-5d  %-8s  %s\n",
			i+1, humanize.Comma(int64(r.Score)), humanize.Comma(int64(r.Distance)), r.MaxMultiplier, r.Source, dateStr)
	}

	if stats, err := store.Stats(); err == nil {
		fmt.Println()
		fmt.Printf("  %d runs, average %.0f, %s units flown, last played %s\n",
			stats.Runs, stats.AvgScore, humanize.Comma(int64(stats.TotalDistance)), humanize.Time(stats.LastPlayed))
	}
}
