package ranktool

import (
	"fmt"
	"os"

	"github.com/skipperlabs/skipper/pkg/logger"
)

// SetupLogging initializes the shared logger for CLI runs.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevelString("debug")
	} else {
		logger.SetLevelString("warn")
	}
	return nil
}

// ShowHelp prints usage information for the ranking tool.
func ShowHelp() {
	os.Stdout.WriteString(`Skipper Captaincy Ranking Tool
==============================

Scores a captaincy dataset and prints the ranking table with summary metrics.

Usage:
  go run cmd/rank/main.go [options]

Options:
  -input string
        Path to a CSV dataset (default: bundled sample data)
  -win float
        Weight for win percentage (default 0.4)
  -close float
        Weight for close-match success (default 0.2)
  -player float
        Weight for player impact (default 0.2)
  -strategy float
        Weight for strategy success (default 0.2)
  -min-matches int
        Only show captains with at least this many matches played
  -sort string
        Ranking field: captaincy_score, win_percentage,
        close_match_success, player_impact, strategy_success
        (default "captaincy_score")
  -top int
        Number of rows to display; 0 shows all
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Rank the bundled sample dataset
  go run cmd/rank/main.go

  # Rank a custom dataset with heavier win weighting
  go run cmd/rank/main.go -input season.csv -win 0.7 -close 0.1 -player 0.1 -strategy 0.1

  # Show the five most improved-player captains with 100+ matches
  go run cmd/rank/main.go -sort player_impact -min-matches 100 -top 5
`)
}
