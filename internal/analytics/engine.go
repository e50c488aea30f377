// Package analytics turns raw pulse-survey answers into quantitative
// reports: per-question statistics, eNPS scoring, response distributions,
// cross-survey trends and participation rates. The engine is read-only and
// stateless between calls; every operation recomputes from the current store
// contents, so concurrent callers need no coordination.
package analytics

import (
	"github.com/sirupsen/logrus"

	"github.com/pulseworks/pulse/internal/models"
)

// AnswerQuery narrows the answer rows returned by a Store. Unset pointers
// leave the corresponding dimension unconstrained. Only answered rows are
// ever returned; partial saves never reach the engine.
type AnswerQuery struct {
	QuestionID  uint
	SurveyID    *uint
	UserID      *uint
	GroupID     *uint
	WithComment bool
}

// Store is the read-only query surface the engine runs on. Implementations
// must return result rows with their User association populated and must
// tolerate rows appearing between calls; the engine assumes nothing beyond
// per-call consistency.
type Store interface {
	GetSurvey(id uint) (*models.Survey, error)
	ListSurveyQuestions(surveyID uint) ([]*models.Question, error)
	FindQuestionByText(surveyID uint, text string) (*models.Question, error)
	ListAnswers(q AnswerQuery) ([]*models.Answer, error)
	ListResults(surveyID uint, groupID *uint) ([]*models.SurveyUserResult, error)
	ListGroupMembers(groupID uint) ([]*models.CustomUser, error)
}

// Engine computes survey reports over a Store.
type Engine struct {
	store Store
	log   logrus.FieldLogger
}

// New builds an engine over store. A nil logger falls back to the standard
// logrus logger.
func New(store Store, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: store, log: log}
}
