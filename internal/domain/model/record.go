// Package model contains domain models passed between layers.
package model

import "time"

// CaptainRecord holds the raw season counters for one captain.
// Fields mirror the columns of the tabular input format.
type CaptainRecord struct {
	Name                   string  `json:"captain"`
	MatchesPlayed          int     `json:"matches_played"`
	MatchesWon             int     `json:"matches_won"`
	CloseMatchesPlayed     int     `json:"close_matches_played"`
	CloseMatchesWon        int     `json:"close_matches_won"`
	PlayerImprovementScore float64 `json:"player_improvement_score"`
	SuccessfulStrategies   int     `json:"successful_strategies"`
	TotalStrategies        int     `json:"total_strategies"`
}

// Weights are the raw multipliers applied to the four sub-metrics.
// They are not normalized to sum to 1.
type Weights struct {
	Win      float64 `json:"win" koanf:"win"`
	Close    float64 `json:"close" koanf:"close"`
	Player   float64 `json:"player" koanf:"player"`
	Strategy float64 `json:"strategy" koanf:"strategy"`
}

// ScoredRecord is a CaptainRecord augmented with the derived metrics
// and the composite score. Percentages are kept at full precision;
// CaptaincyScore is rounded to two decimals.
type ScoredRecord struct {
	CaptainRecord

	WinPercentage     float64 `json:"win_percentage"`
	CloseMatchSuccess float64 `json:"close_match_success"`
	PlayerImpact      float64 `json:"player_impact"`
	StrategySuccess   float64 `json:"strategy_success"`
	CaptaincyScore    float64 `json:"captaincy_score"`
}

// Summary is the derived view over a non-empty scored batch.
type Summary struct {
	TopScore    float64 `json:"top_score"`
	MeanScore   float64 `json:"mean_score"`
	BestCaptain string  `json:"best_captain"`
	Captains    int     `json:"captains"`
}

// ScoringJob is the unit of work flowing through the queue to the
// scoring workers. Records and Weights are treated as immutable.
type ScoringJob struct {
	BatchID    string
	Label      string
	Records    []CaptainRecord
	Weights    Weights
	ReceivedAt time.Time
}

// Batch is a scored dataset held by the repository. A batch whose
// scoring failed carries the error message in Err and no entries;
// the engine never produces partially scored output.
type Batch struct {
	BatchID   string         `json:"batch_id"`
	Label     string         `json:"label,omitempty"`
	Weights   Weights        `json:"weights"`
	Entries   []ScoredRecord `json:"entries,omitempty"`
	Summary   Summary        `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
	Err       string         `json:"error,omitempty"`
}

// Failed reports whether the batch's scoring pass failed.
func (b Batch) Failed() bool {
	return b.Err != ""
}
