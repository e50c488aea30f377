package analytics

import (
	"github.com/pulseworks/pulse/internal/models"
)

// stubStore is an in-memory Store for engine tests. Answers must carry their
// Result association so survey/user/group constraints can be evaluated.
type stubStore struct {
	surveys   map[uint]*models.Survey
	questions []*models.Question
	answers   []*models.Answer
	results   []*models.SurveyUserResult
	members   map[uint][]*models.CustomUser
}

func (s *stubStore) GetSurvey(id uint) (*models.Survey, error) {
	return s.surveys[id], nil
}

func (s *stubStore) ListSurveyQuestions(surveyID uint) ([]*models.Question, error) {
	out := []*models.Question{}
	for _, q := range s.questions {
		if q.SurveyID != nil && *q.SurveyID == surveyID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubStore) FindQuestionByText(surveyID uint, text string) (*models.Question, error) {
	for _, q := range s.questions {
		if q.SurveyID != nil && *q.SurveyID == surveyID && q.Text == text {
			return q, nil
		}
	}
	return nil, nil
}

func (s *stubStore) ListAnswers(q AnswerQuery) ([]*models.Answer, error) {
	out := []*models.Answer{}
	for _, a := range s.answers {
		if !a.IsAnswered || a.QuestionID != q.QuestionID || a.Result == nil {
			continue
		}
		if q.SurveyID != nil && a.Result.SurveyID != *q.SurveyID {
			continue
		}
		if q.UserID != nil && a.Result.UserID != *q.UserID {
			continue
		}
		if q.GroupID != nil && !s.inGroup(*q.GroupID, a.Result.UserID) {
			continue
		}
		if q.WithComment {
			if _, ok := a.CommentText(); !ok {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubStore) ListResults(surveyID uint, groupID *uint) ([]*models.SurveyUserResult, error) {
	out := []*models.SurveyUserResult{}
	for _, r := range s.results {
		if r.SurveyID != surveyID {
			continue
		}
		if groupID != nil && !s.inGroup(*groupID, r.UserID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubStore) ListGroupMembers(groupID uint) ([]*models.CustomUser, error) {
	return s.members[groupID], nil
}

func (s *stubStore) inGroup(groupID, userID uint) bool {
	for _, u := range s.members[groupID] {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func fptr(v float64) *float64 { return &v }

func sptr(v string) *string { return &v }

func uptr(v uint) *uint { return &v }

func bptr(v bool) *bool { return &v }

// sliderAnswers builds answered slider rows for question qid, all attached
// to result res.
func sliderAnswers(res *models.SurveyUserResult, qid uint, values ...float64) []*models.Answer {
	out := make([]*models.Answer, 0, len(values))
	for _, v := range values {
		out = append(out, &models.Answer{
			ResultID:     res.ID,
			Result:       res,
			QuestionID:   qid,
			IsAnswered:   true,
			SliderAnswer: fptr(v),
		})
	}
	return out
}
