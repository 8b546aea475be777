package main

import (
	"context"
	"flag"
	"os"

	"github.com/skipperlabs/skipper/internal/config"
	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	"github.com/skipperlabs/skipper/internal/ranktool"
)

// parseConfig builds the tool configuration from command-line args.
// Weight flag defaults come from the service configuration defaults.
func parseConfig(args []string) (*ranktool.Config, bool, error) {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	defaults := config.New().Weights()

	var (
		input      = fs.String("input", "", "Path to a CSV dataset (default: bundled sample data)")
		winWeight  = fs.Float64("win", defaults.Win, "Weight for win percentage")
		closeW     = fs.Float64("close", defaults.Close, "Weight for close-match success")
		playerW    = fs.Float64("player", defaults.Player, "Weight for player impact")
		strategyW  = fs.Float64("strategy", defaults.Strategy, "Weight for strategy success")
		minMatches = fs.Int("min-matches", 0, "Only show captains with at least this many matches played")
		sortField  = fs.String("sort", scoring.SortByCaptaincyScore, "Ranking field for the table")
		topN       = fs.Int("top", 0, "Number of rows to display; 0 shows all")
		verbose    = fs.Bool("verbose", false, "Enable verbose logging")
		help       = fs.Bool("help", false, "Show help")
	)
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	return &ranktool.Config{
		InputFile: *input,
		Weights: model.Weights{
			Win:      *winWeight,
			Close:    *closeW,
			Player:   *playerW,
			Strategy: *strategyW,
		},
		MinMatches: *minMatches,
		SortField:  *sortField,
		TopN:       *topN,
		Verbose:    *verbose,
	}, *help, nil
}

func main() {
	cfg, help, err := parseConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if help {
		ranktool.ShowHelp()
		return
	}

	if err := ranktool.SetupLogging(cfg.Verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := ranktool.Run(context.Background(), cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Ranking failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
