// Package export renders analysis reports into downloadable files.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/models"
)

const overviewSheet = "Overview"

// SurveyWorkbook renders report as an xlsx workbook: one overview sheet
// with a row per question, plus one sheet per slider, choice or yes/no
// question holding its answer distribution. Free-text bodies stay out of
// exports; only their counts appear.
func SurveyWorkbook(report *analytics.SurveyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", overviewSheet)
	headers := []string{"Question", "Format", "Answers", "Mean", "Std dev", "Median", "eNPS", "Yes %", "Comments"}
	for i, h := range headers {
		if err := setCell(f, overviewSheet, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	meta := [][2]any{
		{"Survey", report.Survey.Name},
		{"Sent", report.Survey.SendingDate.Format("2006-01-02")},
		{"Published", report.Survey.PublishedCount},
		{"Collected", report.Survey.CollectedCount},
	}
	for i, kv := range meta {
		if err := setCell(f, overviewSheet, 11, i+1, kv[0]); err != nil {
			return nil, err
		}
		if err := setCell(f, overviewSheet, 12, i+1, kv[1]); err != nil {
			return nil, err
		}
	}

	for i, s := range report.Summaries {
		for col, v := range overviewRow(s) {
			if v == nil {
				continue
			}
			if err := setCell(f, overviewSheet, col+1, i+2, v); err != nil {
				return nil, err
			}
		}
		if err := writeDistributionSheet(f, i, s); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func overviewRow(s *analytics.QuestionSummary) []any {
	row := make([]any, 9)
	row[0] = s.Question.Text
	row[1] = string(s.Format)
	row[2] = len(s.Answers)
	row[8] = len(s.Comments)
	switch s.Format {
	case models.FormatSlider:
		row[3] = s.Mean
		row[4] = s.StandardDeviation
		row[5] = s.Median
		if s.Question.Type == models.TypeENPS {
			row[6] = s.Score
		}
	case models.FormatYesNo:
		row[7] = s.YesPercentage
	case models.FormatFreeText:
		row[2] = s.AnswerCount
	}
	return row
}

// writeDistributionSheet adds a "Q<n>" sheet holding the bucket counts for
// formats that carry a distribution.
func writeDistributionSheet(f *excelize.File, idx int, s *analytics.QuestionSummary) error {
	var labels []string
	switch s.Format {
	case models.FormatSlider:
		labels = make([]string, len(s.SliderValues))
		for i, v := range s.SliderValues {
			labels[i] = fmt.Sprintf("%d", v)
		}
	case models.FormatMultipleChoice, models.FormatYesNo:
		labels = s.Options
	default:
		return nil
	}
	if len(labels) != len(s.Distribution) {
		return nil
	}

	name := fmt.Sprintf("Q%d", idx+1)
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := setCell(f, name, 1, 1, s.Question.Text); err != nil {
		return err
	}
	for i, label := range labels {
		if err := setCell(f, name, 1, i+2, label); err != nil {
			return err
		}
		if err := setCell(f, name, 2, i+2, s.Distribution[i]); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
