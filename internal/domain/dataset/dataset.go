// Package dataset is the tabular input boundary: it decodes delimited
// text with the exact column contract into captain records. Column
// names are case-sensitive; every required column is validated up
// front so a bad file reports all missing names in one pass.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/skipperlabs/skipper/internal/domain/model"
	"github.com/skipperlabs/skipper/internal/domain/scoring"
)

// Required column names, exactly as they appear in the header.
const (
	ColCaptain                = "Captain"
	ColMatchesPlayed          = "Matches_Played"
	ColMatchesWon             = "Matches_Won"
	ColCloseMatchesPlayed     = "Close_Matches_Played"
	ColCloseMatchesWon        = "Close_Matches_Won"
	ColPlayerImprovementScore = "Player_Improvement_Score"
	ColSuccessfulStrategies   = "Successful_Strategies"
	ColTotalStrategies        = "Total_Strategies"
)

// requiredColumns lists every column the decoder binds, in the order
// missing ones are reported.
var requiredColumns = []string{
	ColCaptain,
	ColMatchesPlayed,
	ColMatchesWon,
	ColCloseMatchesPlayed,
	ColCloseMatchesWon,
	ColPlayerImprovementScore,
	ColSuccessfulStrategies,
	ColTotalStrategies,
}

// Decode reads a comma-delimited table from r and returns one record
// per data row. Unknown columns are ignored. A header with missing
// required columns yields a *scoring.MissingFieldError naming all of
// them; a non-numeric cell yields a *scoring.ProcessingError naming
// the row and column.
func Decode(r io.Reader) ([]model.CaptainRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, scoring.NewMissingField(requiredColumns...)
	}
	if err != nil {
		return nil, scoring.NewProcessing(fmt.Errorf("read header: %w", err))
	}

	idx, err := bindColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.CaptainRecord
	for row := 1; ; row++ {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, scoring.NewProcessing(fmt.Errorf("read row %d: %w", row, err))
		}

		rec, err := decodeRow(cells, idx, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// bindColumns maps required column names to their positions, failing
// with every missing name collected.
func bindColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, scoring.NewMissingField(missing...)
	}
	return idx, nil
}

func decodeRow(cells []string, idx map[string]int, row int) (model.CaptainRecord, error) {
	get := func(col string) (string, error) {
		i := idx[col]
		if i >= len(cells) {
			return "", scoring.NewProcessing(fmt.Errorf("row %d: no value for column %s", row, col))
		}
		return strings.TrimSpace(cells[i]), nil
	}

	var rec model.CaptainRecord
	var err error

	if rec.Name, err = get(ColCaptain); err != nil {
		return model.CaptainRecord{}, err
	}

	for _, bind := range []struct {
		col string
		dst *int
	}{
		{ColMatchesPlayed, &rec.MatchesPlayed},
		{ColMatchesWon, &rec.MatchesWon},
		{ColCloseMatchesPlayed, &rec.CloseMatchesPlayed},
		{ColCloseMatchesWon, &rec.CloseMatchesWon},
		{ColSuccessfulStrategies, &rec.SuccessfulStrategies},
		{ColTotalStrategies, &rec.TotalStrategies},
	} {
		raw, err := get(bind.col)
		if err != nil {
			return model.CaptainRecord{}, err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.CaptainRecord{}, scoring.NewProcessing(
				fmt.Errorf("row %d, column %s: %q is not an integer", row, bind.col, raw))
		}
		*bind.dst = v
	}

	raw, err := get(ColPlayerImprovementScore)
	if err != nil {
		return model.CaptainRecord{}, err
	}
	rec.PlayerImprovementScore, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.CaptainRecord{}, scoring.NewProcessing(
			fmt.Errorf("row %d, column %s: %q is not a number", row, ColPlayerImprovementScore, raw))
	}

	return rec, nil
}
