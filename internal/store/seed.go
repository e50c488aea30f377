package store

import (
	"fmt"
	"time"

	"github.com/pulseworks/pulse/internal/models"
)

// Writer is the mutation surface shared by GormStore and MemoryStore. Seed
// and the HTTP layer depend on it rather than on a concrete store.
type Writer interface {
	CreateOrganization(*models.Organization) error
	CreateUser(*models.CustomUser) error
	CreateGroup(*models.EmployeeGroup) error
	CreateTemplate(*models.SurveyTemplate) error
	PublishTemplate(templateID uint, groups []*models.EmployeeGroup, sendingDate, deadline time.Time) (*models.Survey, error)
	SubmitAnswers(resultID uint, answers []*models.Answer) error
}

// SeedStore is what Seed needs: the write surface plus the two reads used
// to answer the freshly published surveys.
type SeedStore interface {
	Writer
	ListResults(surveyID uint, groupID *uint) ([]*models.SurveyUserResult, error)
	ListSurveyQuestions(surveyID uint) ([]*models.Question, error)
}

var (
	_ SeedStore = (*GormStore)(nil)
	_ SeedStore = (*MemoryStore)(nil)
)

// Seed loads a small deterministic fixture: one organization, a survey
// creator, three responders in one group, and two published pulse surveys
// built from the standard question bank, the older one fully answered and
// the newer one partially. Meant for local development behind the -seed
// flag; not for production databases.
func Seed(s SeedStore) error {
	org := &models.Organization{Name: "Acme Industries"}
	if err := s.CreateOrganization(org); err != nil {
		return fmt.Errorf("seed organization: %w", err)
	}

	creator := &models.CustomUser{Email: "creator@acme.test", Name: "Dana HR", Role: models.RoleSurveyCreator, IsActive: true}
	if err := creator.SetPassword("creator-dev-password"); err != nil {
		return err
	}
	if err := s.CreateUser(creator); err != nil {
		return fmt.Errorf("seed creator: %w", err)
	}

	responders := make([]*models.CustomUser, 0, 3)
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		u := &models.CustomUser{
			Email:    fmt.Sprintf("employee%d@acme.test", i+1),
			Name:     name,
			Role:     models.RoleSurveyResponder,
			IsActive: true,
		}
		if err := u.SetPassword("employee-dev-password"); err != nil {
			return err
		}
		if err := s.CreateUser(u); err != nil {
			return fmt.Errorf("seed responder %s: %w", name, err)
		}
		responders = append(responders, u)
	}

	group := &models.EmployeeGroup{
		Name:           "Engineering",
		OrganizationID: org.ID,
		Employees:      responders,
		Managers:       []*models.CustomUser{creator},
	}
	if err := s.CreateGroup(group); err != nil {
		return fmt.Errorf("seed group: %w", err)
	}

	tpl := &models.SurveyTemplate{
		Name:      "Weekly Pulse",
		CreatorID: creator.ID,
		Questions: models.StandardQuestions(),
	}
	if err := s.CreateTemplate(tpl); err != nil {
		return fmt.Errorf("seed template: %w", err)
	}

	week := func(n int) time.Time {
		return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC).AddDate(0, 0, 7*n)
	}
	groups := []*models.EmployeeGroup{group}

	older, err := s.PublishTemplate(tpl.ID, groups, week(0), week(0).AddDate(0, 0, 5))
	if err != nil {
		return fmt.Errorf("seed first survey: %w", err)
	}
	newer, err := s.PublishTemplate(tpl.ID, groups, week(1), week(1).AddDate(0, 0, 5))
	if err != nil {
		return fmt.Errorf("seed second survey: %w", err)
	}

	// eNPS scores spread across promoter, passive and detractor buckets so
	// the trend endpoints show movement between the two weeks.
	if err := seedResponses(s, older, [][]float64{{9, 6}, {7, 5}, {3, 8}}); err != nil {
		return err
	}
	return seedResponses(s, newer, [][]float64{{10, 8}, {8, 7}})
}

// seedResponses answers the first len(scores) result envelopes of survey,
// one score pair (eNPS, workload) per respondent.
func seedResponses(s SeedStore, survey *models.Survey, scores [][]float64) error {
	results, err := s.ListResults(survey.ID, nil)
	if err != nil {
		return fmt.Errorf("seed responses for survey %d: %w", survey.ID, err)
	}
	questions, err := s.ListSurveyQuestions(survey.ID)
	if err != nil {
		return fmt.Errorf("seed responses for survey %d: %w", survey.ID, err)
	}
	byText := map[string]*models.Question{}
	for _, q := range questions {
		byText[q.Text] = q
	}
	enps := byText[models.ENPSQuestionText]
	workload := byText["How satisfied are you with your current workload?"]
	if enps == nil || workload == nil {
		return fmt.Errorf("seed survey %d: standard questions missing", survey.ID)
	}
	for i, pair := range scores {
		if i >= len(results) {
			break
		}
		answers := []*models.Answer{
			models.NewSliderAnswer(results[i].ID, enps.ID, pair[0]),
			models.NewSliderAnswer(results[i].ID, workload.ID, pair[1]),
		}
		if i == 0 {
			answers[1] = answers[1].WithComment("Sprint load felt heavy this week")
		}
		if err := s.SubmitAnswers(results[i].ID, answers); err != nil {
			return fmt.Errorf("seed answers for result %d: %w", results[i].ID, err)
		}
	}
	return nil
}
