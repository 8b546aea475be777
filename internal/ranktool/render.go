package ranktool

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/skipperlabs/skipper/internal/domain/model"
)

// Tabwriter layout constants.
const (
	tableMinWidth = 4
	tablePadding  = 2
)

// renderTable prints the scored rows as an aligned text table.
// Percentages and the composite score are displayed to one decimal;
// the underlying values keep full precision.
func renderTable(out io.Writer, entries []model.ScoredRecord) {
	w := tabwriter.NewWriter(out, tableMinWidth, 0, tablePadding, ' ', 0)

	fmt.Fprintln(w, "RANK\tCAPTAIN\tMATCHES\tWIN%\tCLOSE%\tIMPACT\tSTRATEGY%\tSCORE")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			i+1,
			e.Name,
			e.MatchesPlayed,
			e.WinPercentage,
			e.CloseMatchSuccess,
			e.PlayerImpact,
			e.StrategySuccess,
			e.CaptaincyScore,
		)
	}
	_ = w.Flush()
}

// renderSummary prints the summary block under the table.
func renderSummary(out io.Writer, summary model.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Best captain:  %s\n", summary.BestCaptain)
	fmt.Fprintf(out, "Top score:     %.2f\n", summary.TopScore)
	fmt.Fprintf(out, "Average score: %.2f\n", summary.MeanScore)
	fmt.Fprintf(out, "Captains:      %d\n", summary.Captains)
}
