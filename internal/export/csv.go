package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/models"
)

// SummaryCSV renders report as a flat CSV, one row per question. Meant for
// quick spreadsheet imports where the full workbook is overkill.
func SummaryCSV(report *analytics.SurveyReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"question", "format", "answers", "mean", "std_dev", "median", "enps_score", "yes_pct", "comments"}); err != nil {
		return nil, err
	}
	for _, s := range report.Summaries {
		rec := []string{
			s.Question.Text,
			string(s.Format),
			strconv.Itoa(len(s.Answers)),
			"", "", "", "", "",
			strconv.Itoa(len(s.Comments)),
		}
		switch s.Format {
		case models.FormatSlider:
			rec[3] = formatFloat(s.Mean)
			rec[4] = formatFloat(s.StandardDeviation)
			rec[5] = formatFloat(s.Median)
			if s.Question.Type == models.TypeENPS {
				rec[6] = strconv.Itoa(s.Score)
			}
		case models.FormatYesNo:
			rec[7] = formatFloat(s.YesPercentage)
		case models.FormatFreeText:
			rec[2] = strconv.Itoa(s.AnswerCount)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
