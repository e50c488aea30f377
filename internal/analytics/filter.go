package analytics

import "github.com/pulseworks/pulse/internal/models"

// Filter restricts which answers a summary covers. Survey narrows to one
// published survey, User to a single respondent, Group to the members of one
// employee group. When both User and Group are set, User wins.
type Filter struct {
	Survey *models.Survey
	User   *models.CustomUser
	Group  *models.EmployeeGroup
}

// FilterContext is the serializable echo of a Filter, carried on reports so
// the presentation layer knows what a report covers.
type FilterContext struct {
	SurveyID uint  `json:"survey_id,omitempty"`
	UserID   *uint `json:"user_id,omitempty"`
	GroupID  *uint `json:"group_id,omitempty"`
}

func (f Filter) context() FilterContext {
	var ctx FilterContext
	if f.Survey != nil {
		ctx.SurveyID = f.Survey.ID
	}
	if f.User != nil {
		id := f.User.ID
		ctx.UserID = &id
	} else if f.Group != nil {
		id := f.Group.ID
		ctx.GroupID = &id
	}
	return ctx
}

func (f Filter) query(questionID uint) AnswerQuery {
	q := AnswerQuery{QuestionID: questionID}
	if f.Survey != nil {
		id := f.Survey.ID
		q.SurveyID = &id
	}
	if f.User != nil {
		id := f.User.ID
		q.UserID = &id
	} else if f.Group != nil {
		id := f.Group.ID
		q.GroupID = &id
	}
	return q
}

// Answers returns all answered rows for question under f. The result is an
// explicit empty slice when nothing matches, so downstream aggregation can
// run unconditionally.
func (e *Engine) Answers(question *models.Question, f Filter) ([]*models.Answer, error) {
	if question == nil {
		return nil, NewInvalidError("question required")
	}
	answers, err := e.store.ListAnswers(f.query(question.ID))
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []*models.Answer{}
	}
	return answers, nil
}

// Comments returns the answered rows for question that carry a non-empty
// comment. A user filter equal to the survey's creator yields an empty set:
// creators do not see their own surveys through the respondent comment view.
func (e *Engine) Comments(question *models.Question, f Filter) ([]*models.Answer, error) {
	if question == nil {
		return nil, NewInvalidError("question required")
	}
	if f.User != nil && f.Survey != nil && f.User.ID == f.Survey.CreatorID {
		return []*models.Answer{}, nil
	}
	q := f.query(question.ID)
	q.WithComment = true
	comments, err := e.store.ListAnswers(q)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Answer{}
	}
	return comments, nil
}

// CommentTexts extracts the comment bodies from rows returned by Comments,
// preserving order.
func CommentTexts(comments []*models.Answer) []string {
	texts := make([]string, 0, len(comments))
	for _, c := range comments {
		if text, ok := c.CommentText(); ok {
			texts = append(texts, text)
		}
	}
	return texts
}
