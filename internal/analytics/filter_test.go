package analytics

import (
	"testing"

	"github.com/pulseworks/pulse/internal/models"
)

func filterFixture() (*stubStore, *models.Survey, *models.Question, *models.CustomUser, *models.CustomUser, *models.EmployeeGroup) {
	creator := &models.CustomUser{ID: 1, Email: "creator@example.com", Name: "Creator", Role: models.RoleSurveyCreator}
	alice := &models.CustomUser{ID: 2, Email: "alice@example.com", Name: "Alice"}
	bob := &models.CustomUser{ID: 3, Email: "bob@example.com", Name: "Bob"}
	survey := &models.Survey{ID: 1, Name: "Pulse 1", CreatorID: creator.ID, Creator: creator}
	group := &models.EmployeeGroup{ID: 5, Name: "Engineering"}

	question := models.NewSliderQuestion("How satisfied are you with your current workload?", models.TypeBuiltin, 1, 10)
	question.ID = 10
	question.SurveyID = uptr(survey.ID)

	resAlice := &models.SurveyUserResult{ID: 100, SurveyID: survey.ID, UserID: alice.ID, User: alice, IsAnswered: true}
	resBob := &models.SurveyUserResult{ID: 101, SurveyID: survey.ID, UserID: bob.ID, User: bob, IsAnswered: true}

	answers := sliderAnswers(resAlice, question.ID, 8)
	answers[0].Comment = sptr("too many meetings")
	answers = append(answers, sliderAnswers(resBob, question.ID, 4)...)
	// A partial save must never surface anywhere.
	answers = append(answers, &models.Answer{Result: resAlice, ResultID: resAlice.ID, QuestionID: question.ID, SliderAnswer: fptr(10)})

	store := &stubStore{
		surveys:   map[uint]*models.Survey{survey.ID: survey},
		questions: []*models.Question{question},
		answers:   answers,
		results:   []*models.SurveyUserResult{resAlice, resBob},
		members:   map[uint][]*models.CustomUser{group.ID: {alice}},
	}
	return store, survey, question, alice, bob, group
}

func TestAnswersExcludesUnanswered(t *testing.T) {
	store, survey, question, _, _, _ := filterFixture()
	e := New(store, nil)
	answers, err := e.Answers(question, Filter{Survey: survey})
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answered rows, got %d", len(answers))
	}
}

func TestAnswersUserWinsOverGroup(t *testing.T) {
	store, survey, question, _, bob, group := filterFixture()
	e := New(store, nil)
	// Bob is not in the group; with both set, the user constraint wins and
	// his answer is returned anyway.
	answers, err := e.Answers(question, Filter{Survey: survey, User: bob, Group: group})
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 1 || answers[0].Result.UserID != bob.ID {
		t.Fatalf("expected exactly Bob's answer, got %d rows", len(answers))
	}
}

func TestAnswersGroupFilter(t *testing.T) {
	store, survey, question, alice, _, group := filterFixture()
	e := New(store, nil)
	answers, err := e.Answers(question, Filter{Survey: survey, Group: group})
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 1 || answers[0].Result.UserID != alice.ID {
		t.Fatalf("expected only the group member's answer, got %d rows", len(answers))
	}
}

func TestAnswersEmptyIsNotNil(t *testing.T) {
	store, _, question, _, _, _ := filterFixture()
	e := New(store, nil)
	other := &models.Survey{ID: 99}
	answers, err := e.Answers(question, Filter{Survey: other})
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if answers == nil || len(answers) != 0 {
		t.Fatalf("expected explicit empty slice, got %#v", answers)
	}
}

func TestCommentsRequireText(t *testing.T) {
	store, survey, question, _, _, _ := filterFixture()
	e := New(store, nil)
	comments, err := e.Comments(question, Filter{Survey: survey})
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 commented answer, got %d", len(comments))
	}
	texts := CommentTexts(comments)
	if len(texts) != 1 || texts[0] != "too many meetings" {
		t.Fatalf("unexpected comment texts %v", texts)
	}
}

func TestCommentsExcludeCreator(t *testing.T) {
	store, survey, question, _, _, _ := filterFixture()
	e := New(store, nil)
	comments, err := e.Comments(question, Filter{Survey: survey, User: survey.Creator})
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("creator must not see comments via own-survey view, got %d", len(comments))
	}
}
