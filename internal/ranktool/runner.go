package ranktool

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/skipperlabs/skipper/internal/domain/dataset"
	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
	"github.com/skipperlabs/skipper/pkg/logger"
)

// Run scores the configured dataset and renders the ranking table and
// summary block to out.
func Run(ctx context.Context, config *Config, out io.Writer) error {
	logger.Get().Info(ctx, "starting ranking run",
		logger.String("input", config.InputFile),
		logger.String("sort", config.SortField),
		logger.Int("minMatches", config.MinMatches),
		logger.Int("top", config.TopN))

	records, err := loadRecords(ctx, config)
	if err != nil {
		return fmt.Errorf("dataset load failed: %w", err)
	}

	engine := scoring.NewEngine()
	entries, err := engine.Score(ctx, records, config.Weights)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	if len(entries) == 0 {
		return scoring.ErrEmptyBatch
	}

	summary, err := scoring.Summarize(entries)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	view, err := scoring.FilterSort(entries, config.MinMatches, config.SortField)
	if err != nil {
		return fmt.Errorf("ranking view failed: %w", err)
	}
	if config.TopN > 0 && config.TopN < len(view) {
		view = view[:config.TopN]
	}

	renderTable(out, view)
	renderSummary(out, summary)

	logger.Get().Info(ctx, "ranking run completed",
		logger.Int("captains", len(entries)),
		logger.Int("displayed", len(view)))
	return nil
}

// loadRecords reads the input CSV, falling back to the bundled dataset
// when no path is given.
func loadRecords(ctx context.Context, config *Config) ([]model.CaptainRecord, error) {
	if config.InputFile == "" {
		logger.Get().Debug(ctx, "using bundled dataset")
		return dataset.Default()
	}

	file, err := os.Open(config.InputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", config.InputFile, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close input file", logger.Error(err))
		}
	}()

	return dataset.Decode(file)
}
