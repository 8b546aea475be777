package scoring

import (
	"fmt"
	"sort"

	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Sort field names accepted by FilterSort.
const (
	SortByCaptaincyScore    = "captaincy_score"
	SortByWinPercentage     = "win_percentage"
	SortByCloseMatchSuccess = "close_match_success"
	SortByPlayerImpact      = "player_impact"
	SortByStrategySuccess   = "strategy_success"
)

// fieldSelectors maps sort field names to their accessors.
var fieldSelectors = map[string]func(model.ScoredRecord) float64{
	SortByCaptaincyScore:    func(r model.ScoredRecord) float64 { return r.CaptaincyScore },
	SortByWinPercentage:     func(r model.ScoredRecord) float64 { return r.WinPercentage },
	SortByCloseMatchSuccess: func(r model.ScoredRecord) float64 { return r.CloseMatchSuccess },
	SortByPlayerImpact:      func(r model.ScoredRecord) float64 { return r.PlayerImpact },
	SortByStrategySuccess:   func(r model.ScoredRecord) float64 { return r.StrategySuccess },
}

// SortFields lists the accepted sort field names in display order.
func SortFields() []string {
	return []string{
		SortByCaptaincyScore,
		SortByWinPercentage,
		SortByCloseMatchSuccess,
		SortByPlayerImpact,
		SortByStrategySuccess,
	}
}

// ValidSortField reports whether field names one of the five numeric
// sortable fields.
func ValidSortField(field string) bool {
	_, ok := fieldSelectors[field]
	return ok
}

// FilterSort returns the entries with MatchesPlayed >= minMatches,
// resorted descending by the named field. The input slice is left
// untouched; the result is a fresh slice. Ties keep their relative
// order from the input.
func FilterSort(entries []model.ScoredRecord, minMatches int, field string) ([]model.ScoredRecord, error) {
	selector, ok := fieldSelectors[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}

	out := make([]model.ScoredRecord, 0, len(entries))
	for _, e := range entries {
		if e.MatchesPlayed >= minMatches {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return selector(out[i]) > selector(out[j])
	})

	return out, nil
}
