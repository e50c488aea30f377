package models

import (
	"errors"
	"fmt"
)

// QuestionFormat selects which value field of an Answer is meaningful and
// which detail record a Question owns.
type QuestionFormat string

const (
	FormatSlider         QuestionFormat = "slider"
	FormatMultipleChoice QuestionFormat = "multiplechoice"
	FormatYesNo          QuestionFormat = "yesno"
	FormatFreeText       QuestionFormat = "freetext"
)

// QuestionType classifies how a question entered the survey. ENPS questions
// are slider questions scored with the Net Promoter method.
type QuestionType string

const (
	TypeOneTime     QuestionType = "onetime"
	TypeReoccurring QuestionType = "reoccurring"
	TypeBuiltin     QuestionType = "builtin"
	TypeENPS        QuestionType = "enps"
)

// ErrDetailMismatch reports a question whose declared format does not match
// the detail record it carries. This is an initialization defect, not a
// valid state, so readers must surface it instead of guessing.
var ErrDetailMismatch = errors.New("question format does not match its detail record")

// QuestionDetail is the closed set of per-format configuration records.
// Exactly one variant is meaningful for any question.
type QuestionDetail interface {
	questionDetail()
}

// SliderDetail configures a slider question: numeric bounds plus the labels
// shown at each end.
type SliderDetail struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	MinLabel string `json:"min_label,omitempty"`
	MaxLabel string `json:"max_label,omitempty"`
}

// MultipleChoiceDetail configures a multiple choice question. Index i of an
// answer's selection vector corresponds to Options[i].
type MultipleChoiceDetail struct {
	Options []string `json:"options"`
}

// YesNoDetail and FreeTextDetail carry no configuration; they exist so the
// detail set stays closed over all four formats.
type YesNoDetail struct{}

type FreeTextDetail struct{}

func (SliderDetail) questionDetail()         {}
func (MultipleChoiceDetail) questionDetail() {}
func (YesNoDetail) questionDetail()          {}
func (FreeTextDetail) questionDetail()       {}

// Question belongs to exactly one published survey, or to a template before
// publishing, or to an organization's question bank. Published questions are
// independent copies, never shared with their template.
type Question struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyID       *uint          `gorm:"index" json:"survey_id,omitempty"`
	TemplateID     *uint          `gorm:"index" json:"template_id,omitempty"`
	OrganizationID *uint          `gorm:"index" json:"organization_id,omitempty"`
	Text           string         `gorm:"type:text;not null" json:"text"`
	Format         QuestionFormat `gorm:"size:20;not null" json:"format"`
	Type           QuestionType   `gorm:"size:20;not null;default:'onetime'" json:"type"`
	Order          int            `gorm:"column:position;default:0" json:"order"`

	Slider  *SliderDetail         `gorm:"serializer:json" json:"slider,omitempty"`
	Choices *MultipleChoiceDetail `gorm:"serializer:json" json:"choices,omitempty"`
}

// Detail returns the detail record matching the question's declared format,
// or ErrDetailMismatch when the stored detail does not line up with it.
func (q *Question) Detail() (QuestionDetail, error) {
	switch q.Format {
	case FormatSlider:
		if q.Slider == nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, ErrDetailMismatch)
		}
		return *q.Slider, nil
	case FormatMultipleChoice:
		if q.Choices == nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, ErrDetailMismatch)
		}
		return *q.Choices, nil
	case FormatYesNo:
		return YesNoDetail{}, nil
	case FormatFreeText:
		return FreeTextDetail{}, nil
	}
	return nil, fmt.Errorf("question %d: unknown format %q", q.ID, q.Format)
}

// NewSliderQuestion builds a slider question with its detail attached, so a
// format/detail mismatch cannot be constructed.
func NewSliderQuestion(text string, qt QuestionType, min, max int) *Question {
	return &Question{
		Text:   text,
		Format: FormatSlider,
		Type:   qt,
		Slider: &SliderDetail{Min: min, Max: max},
	}
}

// NewMultipleChoiceQuestion builds a multiple choice question over options.
func NewMultipleChoiceQuestion(text string, qt QuestionType, options []string) *Question {
	return &Question{
		Text:    text,
		Format:  FormatMultipleChoice,
		Type:    qt,
		Choices: &MultipleChoiceDetail{Options: options},
	}
}

// NewYesNoQuestion builds a yes/no question.
func NewYesNoQuestion(text string, qt QuestionType) *Question {
	return &Question{Text: text, Format: FormatYesNo, Type: qt}
}

// NewFreeTextQuestion builds a free text question.
func NewFreeTextQuestion(text string, qt QuestionType) *Question {
	return &Question{Text: text, Format: FormatFreeText, Type: qt}
}

// CloneForSurvey copies a template or bank question into an independent copy
// owned by the given survey. Detail records are deep-copied so later template
// edits cannot leak into published surveys.
func (q *Question) CloneForSurvey(surveyID uint) *Question {
	cp := &Question{
		SurveyID: &surveyID,
		Text:     q.Text,
		Format:   q.Format,
		Type:     q.Type,
		Order:    q.Order,
	}
	if q.Slider != nil {
		s := *q.Slider
		cp.Slider = &s
	}
	if q.Choices != nil {
		c := MultipleChoiceDetail{Options: append([]string(nil), q.Choices.Options...)}
		cp.Choices = &c
	}
	return cp
}
