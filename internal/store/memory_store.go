package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/models"
)

// MemoryStore keeps everything in maps behind one mutex. It backs the API
// tests and the -memory development mode and mirrors GormStore's behavior,
// including nil-without-error lookups for missing rows.
type MemoryStore struct {
	mu sync.RWMutex

	nextID    uint
	orgs      map[uint]*models.Organization
	users     map[uint]*models.CustomUser
	groups    map[uint]*models.EmployeeGroup
	templates map[uint]*models.SurveyTemplate
	surveys   map[uint]*models.Survey
	questions map[uint]*models.Question
	results   map[uint]*models.SurveyUserResult
	answers   []*models.Answer
	// group id -> member user ids, insertion ordered
	memberships map[uint][]uint
}

var _ analytics.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:        map[uint]*models.Organization{},
		users:       map[uint]*models.CustomUser{},
		groups:      map[uint]*models.EmployeeGroup{},
		templates:   map[uint]*models.SurveyTemplate{},
		surveys:     map[uint]*models.Survey{},
		questions:   map[uint]*models.Question{},
		results:     map[uint]*models.SurveyUserResult{},
		memberships: map[uint][]uint{},
	}
}

func (s *MemoryStore) nextSeq() uint {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) GetSurvey(id uint) (*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surveys[id], nil
}

func (s *MemoryStore) ListSurveys() ([]*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	surveys := make([]*models.Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		surveys = append(surveys, sv)
	}
	sort.Slice(surveys, func(i, j int) bool {
		if surveys[i].SendingDate.Equal(surveys[j].SendingDate) {
			return surveys[i].ID < surveys[j].ID
		}
		return surveys[i].SendingDate.Before(surveys[j].SendingDate)
	})
	return surveys, nil
}

func (s *MemoryStore) ListSurveyQuestions(surveyID uint) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var questions []*models.Question
	for _, q := range s.questions {
		if q.SurveyID != nil && *q.SurveyID == surveyID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Order == questions[j].Order {
			return questions[i].ID < questions[j].ID
		}
		return questions[i].Order < questions[j].Order
	})
	return questions, nil
}

func (s *MemoryStore) FindQuestionByText(surveyID uint, text string) (*models.Question, error) {
	questions, err := s.ListSurveyQuestions(surveyID)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		if q.Text == text {
			return q, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListAnswers(q analytics.AnswerQuery) ([]*models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var answers []*models.Answer
	for _, a := range s.answers {
		if a.QuestionID != q.QuestionID || !a.IsAnswered {
			continue
		}
		res := s.results[a.ResultID]
		if res == nil {
			continue
		}
		if q.SurveyID != nil && res.SurveyID != *q.SurveyID {
			continue
		}
		if q.UserID != nil {
			if res.UserID != *q.UserID {
				continue
			}
		} else if q.GroupID != nil && !s.isMemberLocked(*q.GroupID, res.UserID) {
			continue
		}
		if q.WithComment && (a.Comment == nil || strings.TrimSpace(*a.Comment) == "") {
			continue
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (s *MemoryStore) ListResults(surveyID uint, groupID *uint) ([]*models.SurveyUserResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []*models.SurveyUserResult
	for _, res := range s.results {
		if res.SurveyID != surveyID {
			continue
		}
		if groupID != nil && !s.isMemberLocked(*groupID, res.UserID) {
			continue
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// ListUserResults returns every result envelope addressed to one user,
// newest survey first.
func (s *MemoryStore) ListUserResults(userID uint) ([]*models.SurveyUserResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []*models.SurveyUserResult
	for _, res := range s.results {
		if res.UserID != userID {
			continue
		}
		if res.Survey == nil {
			res.Survey = s.surveys[res.SurveyID]
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		si, sj := s.surveys[results[i].SurveyID], s.surveys[results[j].SurveyID]
		if si != nil && sj != nil && !si.SendingDate.Equal(sj.SendingDate) {
			return si.SendingDate.After(sj.SendingDate)
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (s *MemoryStore) GetResult(id uint) (*models.SurveyUserResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[id], nil
}

func (s *MemoryStore) ListGroupMembers(groupID uint) ([]*models.CustomUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []*models.CustomUser
	for _, id := range s.memberships[groupID] {
		if u := s.users[id]; u != nil {
			members = append(members, u)
		}
	}
	return members, nil
}

func (s *MemoryStore) GetUser(id uint) (*models.CustomUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id], nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*models.CustomUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetGroup(id uint) (*models.EmployeeGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups[id], nil
}

func (s *MemoryStore) CreateOrganization(org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if org.ID == 0 {
		org.ID = s.nextSeq()
	}
	s.orgs[org.ID] = org
	return nil
}

func (s *MemoryStore) CreateUser(user *models.CustomUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.nextSeq()
	}
	s.users[user.ID] = user
	return nil
}

// CreateGroup registers the group and its Employees as members.
func (s *MemoryStore) CreateGroup(group *models.EmployeeGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group.ID == 0 {
		group.ID = s.nextSeq()
	}
	s.groups[group.ID] = group
	for _, u := range group.Employees {
		s.memberships[group.ID] = append(s.memberships[group.ID], u.ID)
	}
	return nil
}

func (s *MemoryStore) CreateTemplate(tpl *models.SurveyTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tpl.ID == 0 {
		tpl.ID = s.nextSeq()
	}
	for _, q := range tpl.Questions {
		if q.ID == 0 {
			q.ID = s.nextSeq()
		}
		q.TemplateID = &tpl.ID
	}
	s.templates[tpl.ID] = tpl
	return nil
}

func (s *MemoryStore) PublishTemplate(templateID uint, groups []*models.EmployeeGroup, sendingDate, deadline time.Time) (*models.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl := s.templates[templateID]
	if tpl == nil {
		return nil, fmt.Errorf("template %d: %w", templateID, ErrNotFound)
	}
	survey := &models.Survey{
		ID:          s.nextSeq(),
		Name:        tpl.Name,
		CreatorID:   tpl.CreatorID,
		Groups:      groups,
		SendingDate: sendingDate,
		Deadline:    deadline,
		IsVisible:   true,
	}
	s.surveys[survey.ID] = survey
	for _, q := range tpl.Questions {
		cp := q.CloneForSurvey(survey.ID)
		cp.ID = s.nextSeq()
		s.questions[cp.ID] = cp
	}
	seen := map[uint]bool{}
	for _, g := range groups {
		for _, uid := range s.memberships[g.ID] {
			if seen[uid] {
				continue
			}
			seen[uid] = true
			res := &models.SurveyUserResult{
				ID:       s.nextSeq(),
				SurveyID: survey.ID,
				UserID:   uid,
				User:     s.users[uid],
			}
			s.results[res.ID] = res
		}
	}
	survey.PublishedCount = len(seen)
	return survey, nil
}

func (s *MemoryStore) SubmitAnswers(resultID uint, answers []*models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.results[resultID]
	if res == nil {
		return fmt.Errorf("result %d: %w", resultID, ErrNotFound)
	}
	if res.IsAnswered {
		return fmt.Errorf("result %d: %w", resultID, ErrAlreadyAnswered)
	}
	for _, a := range answers {
		if a.ID == 0 {
			a.ID = s.nextSeq()
		}
		a.ResultID = resultID
		a.Result = res
		s.answers = append(s.answers, a)
	}
	res.IsAnswered = true
	now := time.Now().UTC()
	res.AnsweredAt = &now
	if survey := s.surveys[res.SurveyID]; survey != nil {
		survey.CollectedCount++
	}
	return nil
}

func (s *MemoryStore) isMemberLocked(groupID, userID uint) bool {
	for _, id := range s.memberships[groupID] {
		if id == userID {
			return true
		}
	}
	return false
}
