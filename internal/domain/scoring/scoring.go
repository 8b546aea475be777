// Package scoring computes the weighted captaincy composite score and
// its derived views. The engine is a pure function of its inputs: it
// never mutates the records it is given and holds no state between
// calls, so scoring the same batch twice yields identical output.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Bounds for the normalized sub-metrics.
const (
	minMetricValue = 0
	maxMetricValue = 100
)

// Scorer computes scored, ranked records from raw captain counters.
type Scorer interface {
	// Score validates records, derives the four sub-metrics, applies
	// weights and returns the batch sorted by composite score
	// descending. On any validation failure the whole batch is
	// rejected: the returned slice is nil and the error carries the
	// kind (MissingFieldError or ProcessingError).
	Score(ctx context.Context, records []model.CaptainRecord, weights model.Weights) ([]model.ScoredRecord, error)
}

// Engine implements Scorer. The zero value is usable; NewEngine exists
// for symmetry with the rest of the codebase.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score implements Scorer.
func (e *Engine) Score(ctx context.Context, records []model.CaptainRecord, weights model.Weights) ([]model.ScoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	if err := validateRecords(records); err != nil {
		return nil, err
	}

	scored := make([]model.ScoredRecord, len(records))
	for i, r := range records {
		scored[i] = scoreRecord(r, weights)
	}

	// Stable keeps input order for equal composite scores; that is the
	// defined tie-break.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CaptaincyScore > scored[j].CaptaincyScore
	})

	return scored, nil
}

// scoreRecord derives the sub-metrics and the composite for one record.
func scoreRecord(r model.CaptainRecord, w model.Weights) model.ScoredRecord {
	s := model.ScoredRecord{CaptainRecord: r}

	s.WinPercentage = ratioPercent(r.MatchesWon, r.MatchesPlayed)
	s.CloseMatchSuccess = ratioPercent(r.CloseMatchesWon, r.CloseMatchesPlayed)
	s.StrategySuccess = ratioPercent(r.SuccessfulStrategies, r.TotalStrategies)
	s.PlayerImpact = clamp(r.PlayerImprovementScore, minMetricValue, maxMetricValue)

	composite := s.WinPercentage*w.Win +
		s.CloseMatchSuccess*w.Close +
		s.PlayerImpact*w.Player +
		s.StrategySuccess*w.Strategy
	s.CaptaincyScore = round2(composite)

	return s
}

// ratioPercent returns won/played as a percentage, defaulting to 0
// when the denominator is 0.
func ratioPercent(won, played int) float64 {
	if played <= 0 {
		return 0
	}
	return float64(won) / float64(played) * maxMetricValue
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// validateRecords enforces the raw-counter invariants before any
// metric is derived. A violation rejects the whole batch.
func validateRecords(records []model.CaptainRecord) error {
	for i, r := range records {
		if r.Name == "" {
			return NewMissingField("Captain")
		}
		if err := validateCounters(r); err != nil {
			return NewProcessing(fmt.Errorf("record %d (%s): %w", i, r.Name, err))
		}
	}
	return nil
}

func validateCounters(r model.CaptainRecord) error {
	switch {
	case r.MatchesPlayed < 0 || r.MatchesWon < 0 ||
		r.CloseMatchesPlayed < 0 || r.CloseMatchesWon < 0 ||
		r.SuccessfulStrategies < 0 || r.TotalStrategies < 0:
		return fmt.Errorf("negative counter")
	case r.MatchesWon > r.MatchesPlayed:
		return fmt.Errorf("matches won %d exceeds matches played %d", r.MatchesWon, r.MatchesPlayed)
	case r.CloseMatchesPlayed > r.MatchesPlayed:
		return fmt.Errorf("close matches played %d exceeds matches played %d", r.CloseMatchesPlayed, r.MatchesPlayed)
	case r.CloseMatchesWon > r.CloseMatchesPlayed:
		return fmt.Errorf("close matches won %d exceeds close matches played %d", r.CloseMatchesWon, r.CloseMatchesPlayed)
	case r.SuccessfulStrategies > r.TotalStrategies:
		return fmt.Errorf("successful strategies %d exceeds total strategies %d", r.SuccessfulStrategies, r.TotalStrategies)
	case math.IsNaN(r.PlayerImprovementScore) || math.IsInf(r.PlayerImprovementScore, 0):
		return fmt.Errorf("player improvement score is not a finite number")
	}
	return nil
}
