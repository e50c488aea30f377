package models

import (
	"errors"
	"fmt"
)

// ErrNoValue reports an answered Answer with no populated value field.
var ErrNoValue = errors.New("answer carries no value")

// AnswerValue is the closed set of per-format answer payloads. Exactly one
// variant is populated on a well-formed answer.
type AnswerValue interface {
	answerValue()
}

// SliderValue is the numeric score of a slider or eNPS answer.
type SliderValue float64

// ChoiceVector marks, per option index, whether the option was selected.
type ChoiceVector []bool

// YesNoValue is the boolean of a yes/no answer.
type YesNoValue bool

// TextValue is the body of a free text answer.
type TextValue string

func (SliderValue) answerValue()  {}
func (ChoiceVector) answerValue() {}
func (YesNoValue) answerValue()   {}
func (TextValue) answerValue()    {}

// Answer belongs to one SurveyUserResult and one Question. Exactly one value
// column is populated, matching the question's format. Answers with
// IsAnswered false are partial saves and are excluded from all statistics.
type Answer struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	ResultID   uint              `gorm:"index;not null" json:"result_id"`
	Result     *SurveyUserResult `gorm:"foreignKey:ResultID" json:"-"`
	QuestionID uint              `gorm:"index;not null" json:"question_id"`
	Question   *Question         `gorm:"foreignKey:QuestionID" json:"-"`
	IsAnswered bool              `gorm:"not null;default:false" json:"is_answered"`

	SliderAnswer         *float64     `json:"slider_answer,omitempty"`
	MultipleChoiceAnswer ChoiceVector `gorm:"serializer:json" json:"multiple_choice_answer,omitempty"`
	YesNoAnswer          *bool        `json:"yes_no_answer,omitempty"`
	FreeTextAnswer       *string      `json:"free_text_answer,omitempty"`

	Comment *string `gorm:"type:text" json:"comment,omitempty"`
}

// Value returns the populated payload as a tagged variant. An answer with no
// populated field yields ErrNoValue; more than one populated field is an
// initialization defect and is reported the same way format mismatches are.
func (a *Answer) Value() (AnswerValue, error) {
	var (
		v AnswerValue
		n int
	)
	if a.SliderAnswer != nil {
		v, n = SliderValue(*a.SliderAnswer), n+1
	}
	if a.MultipleChoiceAnswer != nil {
		v, n = a.MultipleChoiceAnswer, n+1
	}
	if a.YesNoAnswer != nil {
		v, n = YesNoValue(*a.YesNoAnswer), n+1
	}
	if a.FreeTextAnswer != nil {
		v, n = TextValue(*a.FreeTextAnswer), n+1
	}
	switch n {
	case 0:
		return nil, fmt.Errorf("answer %d: %w", a.ID, ErrNoValue)
	case 1:
		return v, nil
	}
	return nil, fmt.Errorf("answer %d: multiple value fields populated", a.ID)
}

// CommentText returns the trimmed comment and whether one is present.
func (a *Answer) CommentText() (string, bool) {
	if a.Comment == nil || *a.Comment == "" {
		return "", false
	}
	return *a.Comment, true
}

// NewSliderAnswer records a slider score for a question on a result.
func NewSliderAnswer(resultID, questionID uint, score float64) *Answer {
	return &Answer{ResultID: resultID, QuestionID: questionID, IsAnswered: true, SliderAnswer: &score}
}

// NewMultipleChoiceAnswer records a selection vector aligned to the
// question's option list.
func NewMultipleChoiceAnswer(resultID, questionID uint, selected []bool) *Answer {
	return &Answer{ResultID: resultID, QuestionID: questionID, IsAnswered: true, MultipleChoiceAnswer: selected}
}

// NewYesNoAnswer records a yes/no choice.
func NewYesNoAnswer(resultID, questionID uint, yes bool) *Answer {
	return &Answer{ResultID: resultID, QuestionID: questionID, IsAnswered: true, YesNoAnswer: &yes}
}

// NewFreeTextAnswer records a free text body.
func NewFreeTextAnswer(resultID, questionID uint, text string) *Answer {
	return &Answer{ResultID: resultID, QuestionID: questionID, IsAnswered: true, FreeTextAnswer: &text}
}

// WithComment attaches an optional free text comment to any answer.
func (a *Answer) WithComment(comment string) *Answer {
	if comment != "" {
		a.Comment = &comment
	}
	return a
}
