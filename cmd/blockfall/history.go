package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blockfall/internal/platform/tui"
	"github.com/vovakirdan/tui-blockfall/internal/registry"
	"github.com/vovakirdan/tui-blockfall/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
	flagInteractive  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Show recorded runs",
	Long: `Display recent runs and totals. Without a mode, runs of every mode
are listed.

Examples:
  blockfall history
  blockfall history blockfall_bag --limit 20
  blockfall history -i              # Browse interactively
  blockfall history blockfall --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the recorded runs of the mode")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive history browser")
}

func runHistory(cmd *cobra.Command, args []string) {
	gameID := ""
	if len(args) > 0 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			unknownMode(gameID)
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flagHistoryClear {
		if gameID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a mode")
			os.Exit(1)
		}
		if err := store.ClearSessions(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared history for %s.\n", gameID)
		return
	}

	sessions, err := store.RecentSessions(gameID, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if len(sessions) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blockfall play' and lock a few pieces to start a history!")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Date", "Mode", "Rows", "Pieces", "Holds", "Time", "End", "Seed")
	for _, s := range sessions {
		t.Row(
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.GameID,
			strconv.Itoa(s.RowsCleared),
			strconv.Itoa(s.Pieces),
			strconv.Itoa(s.Holds),
			(time.Duration(s.DurationSecs) * time.Second).String(),
			titleCase(string(s.Outcome)),
			strconv.FormatInt(s.Seed, 10),
		)
	}
	fmt.Println(t.Render())

	if gameID == "" {
		return
	}
	stats, err := store.GetGameStats(gameID)
	if err != nil || stats.Sessions == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Best: %d rows  Average: %.1f rows  Total play: %s\n",
		stats.Sessions,
		stats.BestRows,
		stats.AvgRows,
		time.Duration(stats.TotalSeconds)*time.Second,
	)
}
