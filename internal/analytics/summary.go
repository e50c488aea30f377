package analytics

import (
	"errors"

	"github.com/pulseworks/pulse/internal/models"
)

// ErrUnsupportedFormat marks a question whose format/type combination has no
// summarizer. Survey-level aggregation skips such questions so new question
// kinds degrade gracefully instead of breaking whole reports.
var ErrUnsupportedFormat = errors.New("unsupported question format")

// YesNoLabels is the canonical yes/no option order. Counts and percentages
// align to it: yes first, then no.
var YesNoLabels = []string{"YES", "NO"}

// ENPSPieLabels is the pie-chart label order for eNPS summaries; PieData is
// aligned to it.
var ENPSPieLabels = []string{"Detractors", "Passives", "Promoters"}

// QuestionSummary is the uniform per-question report record. Question,
// Format, Answers, Comments and TextComments are always populated; the
// remaining fields depend on the format tag.
type QuestionSummary struct {
	Question     *models.Question      `json:"question"`
	Format       models.QuestionFormat `json:"question_format"`
	Answers      []*models.Answer      `json:"answers"`
	Comments     []*models.Answer      `json:"comments"`
	TextComments []string              `json:"text_comments"`

	// Slider and eNPS.
	SliderValues         []int   `json:"slider_values,omitempty"`
	Distribution         []int   `json:"distribution,omitempty"`
	Mean                 float64 `json:"mean,omitempty"`
	StandardDeviation    float64 `json:"standard_deviation,omitempty"`
	VariationCoefficient float64 `json:"variation_coefficient,omitempty"`
	Median               float64 `json:"median,omitempty"`

	// eNPS only.
	Promoters  int      `json:"promoters,omitempty"`
	Passives   int      `json:"passives,omitempty"`
	Detractors int      `json:"detractors,omitempty"`
	Score      int      `json:"score,omitempty"`
	PieLabels  []string `json:"pie_labels,omitempty"`
	PieData    []int    `json:"pie_data,omitempty"`

	// Multiple choice and yes/no.
	Options []string `json:"answer_options,omitempty"`

	// Yes/no only.
	YesCount      int     `json:"yes_count,omitempty"`
	NoCount       int     `json:"no_count,omitempty"`
	YesPercentage float64 `json:"yes_percentage,omitempty"`
	NoPercentage  float64 `json:"no_percentage,omitempty"`

	// Free text only.
	Texts       []string `json:"texts,omitempty"`
	AnswerCount int      `json:"answer_count,omitempty"`
}

type summarize func(e *Engine, q *models.Question, f Filter) (*QuestionSummary, error)

// One dispatch table replaces per-format handler chains; adding a format
// means adding one summarizer and one entry here.
var summarizers = map[models.QuestionFormat]summarize{
	models.FormatSlider:         (*Engine).sliderSummary,
	models.FormatMultipleChoice: (*Engine).multipleChoiceSummary,
	models.FormatYesNo:          (*Engine).yesNoSummary,
	models.FormatFreeText:       (*Engine).freeTextSummary,
}

// SummarizeQuestion dispatches question to the summarizer matching its
// format. A question typed as eNPS always takes the eNPS summarizer, whatever
// its nominal format says. Unknown formats yield ErrUnsupportedFormat.
func (e *Engine) SummarizeQuestion(question *models.Question, f Filter) (*QuestionSummary, error) {
	if question == nil {
		return nil, NewInvalidError("question required")
	}
	if question.Type == models.TypeENPS {
		return e.enpsSummary(question, f)
	}
	fn, ok := summarizers[question.Format]
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	return fn(e, question, f)
}

func (e *Engine) baseSummary(q *models.Question, f Filter) (*QuestionSummary, error) {
	answers, err := e.Answers(q, f)
	if err != nil {
		return nil, err
	}
	comments, err := e.Comments(q, f)
	if err != nil {
		return nil, err
	}
	return &QuestionSummary{
		Question:     q,
		Format:       q.Format,
		Answers:      answers,
		Comments:     comments,
		TextComments: CommentTexts(comments),
	}, nil
}

func (e *Engine) sliderSummary(q *models.Question, f Filter) (*QuestionSummary, error) {
	s, err := e.baseSummary(q, f)
	if err != nil {
		return nil, err
	}
	low, high := 1, 10
	if q.Slider != nil {
		low, high = q.Slider.Min, q.Slider.Max
	} else {
		e.log.WithField("question_id", q.ID).Warn("slider question without bounds, assuming 1-10")
	}
	values := SliderValues(s.Answers)
	s.SliderValues = bucketLabels(low, high)
	s.Distribution = SliderDistribution(values, low, high)
	s.Mean = Mean(values)
	s.StandardDeviation = StdDev(values)
	s.VariationCoefficient = VariationCoefficient(values)
	s.Median = Median(values)
	return s, nil
}

func (e *Engine) enpsSummary(q *models.Question, f Filter) (*QuestionSummary, error) {
	s, err := e.sliderSummary(q, f)
	if err != nil {
		return nil, err
	}
	promoters, passives, detractors := CategorizeENPS(SliderValues(s.Answers))
	s.Promoters = promoters
	s.Passives = passives
	s.Detractors = detractors
	s.Score = ENPSScore(promoters, passives, detractors)
	s.PieLabels = ENPSPieLabels
	s.PieData = []int{detractors, passives, promoters}
	return s, nil
}

func (e *Engine) multipleChoiceSummary(q *models.Question, f Filter) (*QuestionSummary, error) {
	s, err := e.baseSummary(q, f)
	if err != nil {
		return nil, err
	}
	detail, derr := q.Detail()
	if derr != nil {
		// A malformed question must not abort the surrounding report.
		e.log.WithField("question_id", q.ID).Warn("multiple choice question without options, returning empty summary")
		s.Options = []string{}
		s.Distribution = []int{}
		return s, nil
	}
	options := detail.(models.MultipleChoiceDetail).Options
	dist := make([]int, len(options))
	for _, a := range s.Answers {
		for i, selected := range a.MultipleChoiceAnswer {
			if i >= len(dist) {
				break
			}
			if selected {
				dist[i]++
			}
		}
	}
	s.Options = options
	s.Distribution = dist
	return s, nil
}

func (e *Engine) yesNoSummary(q *models.Question, f Filter) (*QuestionSummary, error) {
	s, err := e.baseSummary(q, f)
	if err != nil {
		return nil, err
	}
	var yes, no int
	for _, a := range s.Answers {
		if a.YesNoAnswer == nil {
			continue
		}
		if *a.YesNoAnswer {
			yes++
		} else {
			no++
		}
	}
	s.Options = YesNoLabels
	s.Distribution = []int{yes, no}
	s.YesCount = yes
	s.NoCount = no
	if total := yes + no; total > 0 {
		s.YesPercentage = round2(float64(yes) / float64(total) * 100)
		s.NoPercentage = round2(float64(no) / float64(total) * 100)
	}
	return s, nil
}

func (e *Engine) freeTextSummary(q *models.Question, f Filter) (*QuestionSummary, error) {
	s, err := e.baseSummary(q, f)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(s.Answers))
	for _, a := range s.Answers {
		if a.FreeTextAnswer != nil {
			texts = append(texts, *a.FreeTextAnswer)
		}
	}
	s.Texts = texts
	s.AnswerCount = len(s.Answers)
	return s, nil
}

func bucketLabels(low, high int) []int {
	if high < low {
		return []int{}
	}
	labels := make([]int, high-low+1)
	for i := range labels {
		labels[i] = low + i
	}
	return labels
}
