package ranktool

import "github.com/skipperlabs/skipper/internal/domain/model"

// Config holds configuration for a ranking run
type Config struct {
	InputFile  string        // CSV input path; empty uses the bundled dataset
	Weights    model.Weights // Sub-metric multipliers
	MinMatches int           // Minimum matches played filter
	SortField  string        // Ranking field for the table
	TopN       int           // Number of rows to display; 0 shows all
	Verbose    bool          // Enable verbose logging
}
