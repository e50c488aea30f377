// Package store provides the persistence implementations behind the
// analytics engine and the HTTP layer: a GORM-backed relational store for
// production and an in-memory store for tests and local development.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/models"
)

// ErrAlreadyAnswered is returned when a recipient submits a result twice.
var ErrAlreadyAnswered = errors.New("survey result already answered")

// ErrNotFound is returned by write operations on missing aggregates.
var ErrNotFound = errors.New("record not found")

// GormStore runs every query through a gorm.DB (Postgres in production,
// SQLite locally).
type GormStore struct {
	db *gorm.DB
}

var _ analytics.Store = (*GormStore)(nil)

// NewGormStore wraps db. The schema must already be migrated; see AutoMigrate.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the full schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.EmployeeGroup{},
		&models.CustomUser{},
		&models.SurveyTemplate{},
		&models.Survey{},
		&models.Question{},
		&models.SurveyUserResult{},
		&models.Answer{},
	)
}

func (s *GormStore) GetSurvey(id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.Preload("Groups").First(&survey, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get survey %d: %w", id, err)
	}
	return &survey, nil
}

func (s *GormStore) ListSurveys() ([]*models.Survey, error) {
	var surveys []*models.Survey
	if err := s.db.Order("sending_date, id").Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return surveys, nil
}

func (s *GormStore) ListSurveyQuestions(surveyID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := s.db.Where("survey_id = ?", surveyID).Order("position, id").Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions for survey %d: %w", surveyID, err)
	}
	return questions, nil
}

func (s *GormStore) FindQuestionByText(surveyID uint, text string) (*models.Question, error) {
	var question models.Question
	err := s.db.Where("survey_id = ? AND text = ?", surveyID, text).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question in survey %d: %w", surveyID, err)
	}
	return &question, nil
}

func (s *GormStore) ListAnswers(q analytics.AnswerQuery) ([]*models.Answer, error) {
	tx := s.db.Model(&models.Answer{}).
		Joins("JOIN survey_user_results ON survey_user_results.id = answers.result_id").
		Where("answers.question_id = ? AND answers.is_answered = ?", q.QuestionID, true)
	if q.SurveyID != nil {
		tx = tx.Where("survey_user_results.survey_id = ?", *q.SurveyID)
	}
	if q.UserID != nil {
		tx = tx.Where("survey_user_results.user_id = ?", *q.UserID)
	} else if q.GroupID != nil {
		tx = tx.Joins("JOIN group_employees ON group_employees.custom_user_id = survey_user_results.user_id").
			Where("group_employees.employee_group_id = ?", *q.GroupID)
	}
	if q.WithComment {
		// Whitespace-only comments count as absent.
		tx = tx.Where("answers.comment IS NOT NULL AND TRIM(answers.comment) <> ''")
	}
	var answers []*models.Answer
	if err := tx.Preload("Result").Order("answers.id").Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("list answers for question %d: %w", q.QuestionID, err)
	}
	return answers, nil
}

func (s *GormStore) ListResults(surveyID uint, groupID *uint) ([]*models.SurveyUserResult, error) {
	tx := s.db.Model(&models.SurveyUserResult{}).Where("survey_user_results.survey_id = ?", surveyID)
	if groupID != nil {
		tx = tx.Joins("JOIN group_employees ON group_employees.custom_user_id = survey_user_results.user_id").
			Where("group_employees.employee_group_id = ?", *groupID)
	}
	var results []*models.SurveyUserResult
	if err := tx.Preload("User").Order("survey_user_results.id").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("list results for survey %d: %w", surveyID, err)
	}
	return results, nil
}

// ListUserResults returns every result envelope addressed to one user,
// newest survey first, with the Survey association populated.
func (s *GormStore) ListUserResults(userID uint) ([]*models.SurveyUserResult, error) {
	var results []*models.SurveyUserResult
	err := s.db.Model(&models.SurveyUserResult{}).
		Joins("JOIN surveys ON surveys.id = survey_user_results.survey_id").
		Where("survey_user_results.user_id = ?", userID).
		Order("surveys.sending_date DESC, survey_user_results.id").
		Preload("Survey").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("list results for user %d: %w", userID, err)
	}
	return results, nil
}

func (s *GormStore) GetResult(id uint) (*models.SurveyUserResult, error) {
	var result models.SurveyUserResult
	err := s.db.First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result %d: %w", id, err)
	}
	return &result, nil
}

func (s *GormStore) ListGroupMembers(groupID uint) ([]*models.CustomUser, error) {
	var users []*models.CustomUser
	err := s.db.Model(&models.CustomUser{}).
		Joins("JOIN group_employees ON group_employees.custom_user_id = custom_users.id").
		Where("group_employees.employee_group_id = ?", groupID).
		Order("custom_users.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list members of group %d: %w", groupID, err)
	}
	return users, nil
}

func (s *GormStore) GetUser(id uint) (*models.CustomUser, error) {
	var user models.CustomUser
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(email string) (*models.CustomUser, error) {
	var user models.CustomUser
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return &user, nil
}

func (s *GormStore) GetGroup(id uint) (*models.EmployeeGroup, error) {
	var group models.EmployeeGroup
	err := s.db.First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}
	return &group, nil
}

func (s *GormStore) CreateOrganization(org *models.Organization) error {
	return s.db.Create(org).Error
}

func (s *GormStore) CreateUser(user *models.CustomUser) error {
	return s.db.Create(user).Error
}

func (s *GormStore) CreateGroup(group *models.EmployeeGroup) error {
	return s.db.Create(group).Error
}

func (s *GormStore) CreateTemplate(tpl *models.SurveyTemplate) error {
	return s.db.Create(tpl).Error
}

// PublishTemplate clones a template into an immutable survey: independent
// question copies plus one empty SurveyUserResult per distinct member of the
// target groups. Runs in one transaction; analysis reads racing the publish
// see either nothing or a consistent prefix of the result rows, which the
// engine tolerates.
func (s *GormStore) PublishTemplate(templateID uint, groups []*models.EmployeeGroup, sendingDate, deadline time.Time) (*models.Survey, error) {
	var survey *models.Survey
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tpl models.SurveyTemplate
		if err := tx.Preload("Questions").First(&tpl, templateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("template %d: %w", templateID, ErrNotFound)
			}
			return err
		}
		survey = &models.Survey{
			Name:        tpl.Name,
			CreatorID:   tpl.CreatorID,
			Groups:      groups,
			SendingDate: sendingDate,
			Deadline:    deadline,
			IsVisible:   true,
		}
		if err := tx.Create(survey).Error; err != nil {
			return err
		}
		for _, q := range tpl.Questions {
			if err := tx.Create(q.CloneForSurvey(survey.ID)).Error; err != nil {
				return err
			}
		}
		seen := map[uint]bool{}
		for _, g := range groups {
			members, err := s.listMembersTx(tx, g.ID)
			if err != nil {
				return err
			}
			for _, u := range members {
				if seen[u.ID] {
					continue
				}
				seen[u.ID] = true
				result := &models.SurveyUserResult{SurveyID: survey.ID, UserID: u.ID}
				if err := tx.Create(result).Error; err != nil {
					return err
				}
			}
		}
		survey.PublishedCount = len(seen)
		return tx.Model(survey).Update("published_count", survey.PublishedCount).Error
	})
	if err != nil {
		return nil, fmt.Errorf("publish template %d: %w", templateID, err)
	}
	return survey, nil
}

// SubmitAnswers stores a recipient's answers and flips the result to
// answered. Answers get their ResultID forced to the envelope being
// submitted.
func (s *GormStore) SubmitAnswers(resultID uint, answers []*models.Answer) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var result models.SurveyUserResult
		if err := tx.First(&result, resultID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("result %d: %w", resultID, ErrNotFound)
			}
			return err
		}
		if result.IsAnswered {
			return fmt.Errorf("result %d: %w", resultID, ErrAlreadyAnswered)
		}
		for _, a := range answers {
			a.ResultID = resultID
			if err := tx.Create(a).Error; err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		if err := tx.Model(&result).Updates(map[string]any{"is_answered": true, "answered_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Survey{}).
			Where("id = ?", result.SurveyID).
			UpdateColumn("collected_count", gorm.Expr("collected_count + 1")).Error
	})
}

func (s *GormStore) listMembersTx(tx *gorm.DB, groupID uint) ([]*models.CustomUser, error) {
	var users []*models.CustomUser
	err := tx.Model(&models.CustomUser{}).
		Joins("JOIN group_employees ON group_employees.custom_user_id = custom_users.id").
		Where("group_employees.employee_group_id = ?", groupID).
		Find(&users).Error
	return users, err
}
