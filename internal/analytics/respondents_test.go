package analytics

import (
	"strings"
	"testing"

	"github.com/pulseworks/pulse/internal/models"
)

func TestRespondents(t *testing.T) {
	survey := &models.Survey{ID: 1}
	alice := &models.CustomUser{ID: 2, Name: "Alice"}
	bob := &models.CustomUser{ID: 3, Name: "Bob"}
	store := &stubStore{
		surveys: map[uint]*models.Survey{survey.ID: survey},
		results: []*models.SurveyUserResult{
			{ID: 1, SurveyID: survey.ID, UserID: alice.ID, User: alice, IsAnswered: true},
			{ID: 2, SurveyID: survey.ID, UserID: bob.ID, User: bob},
			// Duplicate result rows for one user collapse to one label.
			{ID: 3, SurveyID: survey.ID, UserID: alice.ID, User: alice},
		},
	}
	e := New(store, nil)
	labeled, err := e.Respondents(survey, nil)
	if err != nil {
		t.Fatalf("Respondents: %v", err)
	}
	if len(labeled) != 2 {
		t.Fatalf("expected 2 labeled users, got %d", len(labeled))
	}
	if labeled["User 1"] != alice || labeled["User 2"] != bob {
		t.Fatalf("labels out of enumeration order: %v", labeled)
	}
	for label := range labeled {
		if !strings.HasPrefix(label, "User ") {
			t.Fatalf("unexpected label %q", label)
		}
	}
}

func TestRespondentsGroupFilter(t *testing.T) {
	survey := &models.Survey{ID: 1}
	alice := &models.CustomUser{ID: 2, Name: "Alice"}
	bob := &models.CustomUser{ID: 3, Name: "Bob"}
	group := &models.EmployeeGroup{ID: 5}
	store := &stubStore{
		surveys: map[uint]*models.Survey{survey.ID: survey},
		results: []*models.SurveyUserResult{
			{ID: 1, SurveyID: survey.ID, UserID: alice.ID, User: alice},
			{ID: 2, SurveyID: survey.ID, UserID: bob.ID, User: bob},
		},
		members: map[uint][]*models.CustomUser{group.ID: {bob}},
	}
	e := New(store, nil)
	labeled, err := e.Respondents(survey, group)
	if err != nil {
		t.Fatalf("Respondents: %v", err)
	}
	if len(labeled) != 1 || labeled["User 1"] != bob {
		t.Fatalf("expected only the group member, got %v", labeled)
	}
}

func TestRespondentsNilSurvey(t *testing.T) {
	e := New(&stubStore{}, nil)
	if _, err := e.Respondents(nil, nil); err == nil {
		t.Fatalf("nil survey must be rejected")
	}
}

func TestRespondentsEmpty(t *testing.T) {
	e := New(&stubStore{surveys: map[uint]*models.Survey{1: {ID: 1}}}, nil)
	labeled, err := e.Respondents(&models.Survey{ID: 1}, nil)
	if err != nil {
		t.Fatalf("Respondents: %v", err)
	}
	if len(labeled) != 0 {
		t.Fatalf("expected no respondents, got %v", labeled)
	}
}
