package analytics

import (
	"errors"

	"github.com/pulseworks/pulse/internal/models"
)

// SurveyReport is the whole-survey analysis: one summary per question, in
// question order, plus the survey and the filter it was computed under.
type SurveyReport struct {
	Survey    *models.Survey     `json:"survey"`
	Context   FilterContext      `json:"filter_context"`
	Summaries []*QuestionSummary `json:"summaries"`
}

// SurveySummary loads the survey and summarizes every question it holds,
// dispatching each to the summarizer for its format. Questions with an
// unsupported format/type combination are skipped, not reported as errors.
// The optional user and group fields of f narrow the answers covered; the
// survey field is set from surveyID.
func (e *Engine) SurveySummary(surveyID uint, f Filter) (*SurveyReport, error) {
	survey, err := e.store.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, NewNotFoundError("survey not found")
	}
	f.Survey = survey

	questions, err := e.store.ListSurveyQuestions(surveyID)
	if err != nil {
		return nil, err
	}
	summaries := make([]*QuestionSummary, 0, len(questions))
	for _, q := range questions {
		summary, err := e.SummarizeQuestion(q, f)
		if errors.Is(err, ErrUnsupportedFormat) {
			e.log.WithField("question_id", q.ID).Debug("skipping question with unsupported format")
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return &SurveyReport{Survey: survey, Context: f.context(), Summaries: summaries}, nil
}
