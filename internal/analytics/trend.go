package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/pulseworks/pulse/internal/models"
)

// TrendReport holds parallel time series across surveys. All lists have
// equal length; Metrics carries one series per scalar metric of the question
// format, Series one per list-valued metric (distributions). Entries are
// ordered newest first, which is the order trend charts consume.
type TrendReport struct {
	SurveyIDs    []uint               `json:"survey_ids_trend"`
	SendingDates []time.Time          `json:"sending_dates_trend"`
	Metrics      map[string][]float64 `json:"metrics_trend"`
	Series       map[string][][]int   `json:"series_trend"`
}

// ParticipationReport holds per-survey response-rate series for one employee
// group, ordered oldest first (participation tables read forward in time).
type ParticipationReport struct {
	SendingDates      []time.Time `json:"survey_sending_dates"`
	ParticipantCounts []int       `json:"participant_count_list"`
	AnsweredCounts    []int       `json:"answered_count_list"`
	AnswerPercentages []float64   `json:"answer_pct_list"`
}

// QuestionTrend builds time series for a canonical question across surveys.
// Published surveys hold independent copies of template questions, so the
// question is located inside each survey by exact text match; surveys
// without a matching question are skipped. The series run newest first by
// sending date. A blank text is a caller error.
func (e *Engine) QuestionTrend(text string, surveys []*models.Survey, f Filter) (*TrendReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewInvalidError("question text required")
	}
	ordered := append([]*models.Survey(nil), surveys...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SendingDate.After(ordered[j].SendingDate)
	})

	report := &TrendReport{
		SurveyIDs:    []uint{},
		SendingDates: []time.Time{},
		Metrics:      map[string][]float64{},
		Series:       map[string][][]int{},
	}
	var summaries []*QuestionSummary
	for _, survey := range ordered {
		question, err := e.store.FindQuestionByText(survey.ID, text)
		if err != nil {
			return nil, err
		}
		if question == nil {
			continue
		}
		sf := f
		sf.Survey = survey
		summary, err := e.SummarizeQuestion(question, sf)
		if err != nil {
			return nil, err
		}
		report.SurveyIDs = append(report.SurveyIDs, survey.ID)
		report.SendingDates = append(report.SendingDates, survey.SendingDate)
		summaries = append(summaries, summary)
	}

	// Heterogeneous formats produce different metric keys across surveys.
	// Build the union first, then fill every series to full length so the
	// parallel-list invariant holds.
	for i, summary := range summaries {
		scalars, vectors := summary.trendMetrics()
		for key, v := range scalars {
			if _, ok := report.Metrics[key]; !ok {
				report.Metrics[key] = make([]float64, len(summaries))
			}
			report.Metrics[key][i] = v
		}
		for key, v := range vectors {
			if _, ok := report.Series[key]; !ok {
				report.Series[key] = make([][]int, len(summaries))
				for j := range report.Series[key] {
					report.Series[key][j] = []int{}
				}
			}
			report.Series[key][i] = v
		}
	}
	return report, nil
}

// ParticipationMetrics computes, for each survey, how many group members
// were invited and how many answered. A missing or empty group has no sane
// denominator and must be caught by the caller; the engine rejects it.
func (e *Engine) ParticipationMetrics(surveys []*models.Survey, group *models.EmployeeGroup) (*ParticipationReport, error) {
	if group == nil {
		return nil, NewInvalidError("employee group required")
	}
	members, err := e.store.ListGroupMembers(group.ID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, NewInvalidError("employee group has no members")
	}

	ordered := append([]*models.Survey(nil), surveys...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SendingDate.Before(ordered[j].SendingDate)
	})

	groupID := group.ID
	report := &ParticipationReport{
		SendingDates:      []time.Time{},
		ParticipantCounts: []int{},
		AnsweredCounts:    []int{},
		AnswerPercentages: []float64{},
	}
	for _, survey := range ordered {
		results, err := e.store.ListResults(survey.ID, &groupID)
		if err != nil {
			return nil, err
		}
		answered := 0
		for _, r := range results {
			if r.IsAnswered {
				answered++
			}
		}
		total := len(members)
		report.SendingDates = append(report.SendingDates, survey.SendingDate)
		report.ParticipantCounts = append(report.ParticipantCounts, total)
		report.AnsweredCounts = append(report.AnsweredCounts, answered)
		report.AnswerPercentages = append(report.AnswerPercentages, round1(float64(answered)/float64(total)*100))
	}
	return report, nil
}

// trendMetrics flattens a summary into named scalar and list-valued metrics
// for trend accumulation. Keys depend on the question format, so a slider
// trend naturally exposes different series than a yes/no trend.
func (s *QuestionSummary) trendMetrics() (map[string]float64, map[string][]int) {
	scalars := map[string]float64{}
	vectors := map[string][]int{}
	if s.Distribution != nil {
		vectors["distribution"] = s.Distribution
	}
	switch s.Format {
	case models.FormatSlider:
		scalars["mean"] = s.Mean
		scalars["standard_deviation"] = s.StandardDeviation
		scalars["variation_coefficient"] = s.VariationCoefficient
		scalars["median"] = s.Median
		if s.Question != nil && s.Question.Type == models.TypeENPS {
			scalars["score"] = float64(s.Score)
			scalars["promoters"] = float64(s.Promoters)
			scalars["passives"] = float64(s.Passives)
			scalars["detractors"] = float64(s.Detractors)
		}
	case models.FormatYesNo:
		scalars["yes_count"] = float64(s.YesCount)
		scalars["no_count"] = float64(s.NoCount)
		scalars["yes_percentage"] = s.YesPercentage
		scalars["no_percentage"] = s.NoPercentage
	case models.FormatFreeText:
		scalars["answer_count"] = float64(s.AnswerCount)
	}
	return scalars, vectors
}
