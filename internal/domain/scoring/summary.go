package scoring

import (
	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Summarize computes the headline metrics over a scored, sorted batch:
// top score, mean score (two decimals), the top-ranked captain and the
// record count. The batch must be non-empty; callers guard with
// ErrEmptyBatch otherwise.
func Summarize(entries []model.ScoredRecord) (model.Summary, error) {
	if len(entries) == 0 {
		return model.Summary{}, ErrEmptyBatch
	}

	top := entries[0].CaptaincyScore
	var sum float64
	for _, e := range entries {
		if e.CaptaincyScore > top {
			top = e.CaptaincyScore
		}
		sum += e.CaptaincyScore
	}

	return model.Summary{
		TopScore:    top,
		MeanScore:   round2(sum / float64(len(entries))),
		BestCaptain: entries[0].Name,
		Captains:    len(entries),
	}, nil
}
