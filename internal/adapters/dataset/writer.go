package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/okian/scholar/internal/domain/types"
)

var resultHeader = []string{
	"rank", "position", "id",
	"academic_score", "financial_score", "engagement_score", "final_score",
	"recommendation", "scholarship_amount",
}

// WriteResults writes ranked rows as CSV with a header.
func WriteResults(w io.Writer, rows []types.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Position),
			r.ID,
			score(r.AcademicScore),
			score(r.FinancialScore),
			score(r.EngagementScore),
			score(r.FinalScore),
			r.Recommendation,
			r.ScholarshipAmount.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
