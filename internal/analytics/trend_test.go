package analytics

import (
	"testing"
	"time"

	"github.com/pulseworks/pulse/internal/models"
)

func trendFixture() (*stubStore, []*models.Survey, *models.EmployeeGroup) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 12, 0, 0, 0, time.UTC) }
	s1 := &models.Survey{ID: 1, Name: "Pulse 1", SendingDate: day(1)}
	s2 := &models.Survey{ID: 2, Name: "Pulse 2", SendingDate: day(8)}
	s3 := &models.Survey{ID: 3, Name: "Pulse 3", SendingDate: day(15)}

	alice := &models.CustomUser{ID: 2, Name: "Alice"}
	bob := &models.CustomUser{ID: 3, Name: "Bob"}
	group := &models.EmployeeGroup{ID: 5, Name: "Engineering"}

	questions := []*models.Question{}
	answers := []*models.Answer{}
	results := []*models.SurveyUserResult{}
	scores := map[uint][]float64{1: {9, 2}, 3: {10, 7}}
	// Survey 2 has no eNPS question: trends must skip it.
	for _, s := range []*models.Survey{s1, s3} {
		q := models.NewSliderQuestion(models.ENPSQuestionText, models.TypeENPS, 1, 10)
		q.ID = s.ID * 10
		q.SurveyID = uptr(s.ID)
		questions = append(questions, q)
		for i, v := range scores[s.ID] {
			user := alice
			if i == 1 {
				user = bob
			}
			res := &models.SurveyUserResult{ID: s.ID*100 + uint(i), SurveyID: s.ID, UserID: user.ID, User: user, IsAnswered: true}
			results = append(results, res)
			answers = append(answers, sliderAnswers(res, q.ID, v)...)
		}
	}
	// Results for survey 2 exist but carry no answers yet.
	results = append(results,
		&models.SurveyUserResult{ID: 200, SurveyID: s2.ID, UserID: alice.ID, User: alice},
		&models.SurveyUserResult{ID: 201, SurveyID: s2.ID, UserID: bob.ID, User: bob},
	)

	store := &stubStore{
		surveys:   map[uint]*models.Survey{1: s1, 2: s2, 3: s3},
		questions: questions,
		answers:   answers,
		results:   results,
		members:   map[uint][]*models.CustomUser{group.ID: {alice, bob}},
	}
	return store, []*models.Survey{s1, s2, s3}, group
}

func TestQuestionTrendNewestFirst(t *testing.T) {
	store, surveys, _ := trendFixture()
	e := New(store, nil)
	report, err := e.QuestionTrend(models.ENPSQuestionText, surveys, Filter{})
	if err != nil {
		t.Fatalf("QuestionTrend: %v", err)
	}
	if len(report.SurveyIDs) != 2 || report.SurveyIDs[0] != 3 || report.SurveyIDs[1] != 1 {
		t.Fatalf("survey ids=%v, want newest first [3 1]", report.SurveyIDs)
	}
	if !report.SendingDates[0].After(report.SendingDates[1]) {
		t.Fatalf("sending dates not newest first: %v", report.SendingDates)
	}
	scores, ok := report.Metrics["score"]
	if !ok {
		t.Fatalf("missing score series, have %v", keys(report.Metrics))
	}
	// Survey 3: promoters 1 (10), passives 1 (7) -> 50. Survey 1:
	// promoters 1 (9), detractors 1 (2) -> 0.
	if scores[0] != 50 || scores[1] != 0 {
		t.Fatalf("score series=%v, want [50 0]", scores)
	}
}

func TestQuestionTrendEqualLengths(t *testing.T) {
	store, surveys, _ := trendFixture()
	e := New(store, nil)
	report, err := e.QuestionTrend(models.ENPSQuestionText, surveys, Filter{})
	if err != nil {
		t.Fatalf("QuestionTrend: %v", err)
	}
	n := len(report.SurveyIDs)
	if len(report.SendingDates) != n {
		t.Fatalf("sending dates length %d, want %d", len(report.SendingDates), n)
	}
	for key, series := range report.Metrics {
		if len(series) != n {
			t.Fatalf("metric %q length %d, want %d", key, len(series), n)
		}
	}
	for key, series := range report.Series {
		if len(series) != n {
			t.Fatalf("series %q length %d, want %d", key, len(series), n)
		}
	}
}

func TestQuestionTrendBlankText(t *testing.T) {
	store, surveys, _ := trendFixture()
	e := New(store, nil)
	if _, err := e.QuestionTrend("  ", surveys, Filter{}); err == nil {
		t.Fatalf("blank canonical text must be rejected")
	}
}

func TestParticipationMetrics(t *testing.T) {
	store, surveys, group := trendFixture()
	e := New(store, nil)
	report, err := e.ParticipationMetrics(surveys, group)
	if err != nil {
		t.Fatalf("ParticipationMetrics: %v", err)
	}
	if len(report.SendingDates) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(report.SendingDates))
	}
	if !report.SendingDates[0].Before(report.SendingDates[2]) {
		t.Fatalf("participation must run oldest first: %v", report.SendingDates)
	}
	for i := range report.SendingDates {
		if report.ParticipantCounts[i] != 2 {
			t.Fatalf("participant counts=%v, want 2 everywhere", report.ParticipantCounts)
		}
		if report.AnsweredCounts[i] > report.ParticipantCounts[i] {
			t.Fatalf("answered exceeds participants at %d", i)
		}
		if pct := report.AnswerPercentages[i]; pct < 0 || pct > 100 {
			t.Fatalf("percentage out of range: %v", pct)
		}
	}
	// Survey 2's results exist but are unanswered.
	if report.AnsweredCounts[1] != 0 || report.AnswerPercentages[1] != 0 {
		t.Fatalf("survey 2 should report zero participation, got %v / %v", report.AnsweredCounts[1], report.AnswerPercentages[1])
	}
	if report.AnswerPercentages[0] != 100 {
		t.Fatalf("survey 1 fully answered, pct=%v", report.AnswerPercentages[0])
	}
}

func TestParticipationMetricsEmptyGroup(t *testing.T) {
	store, surveys, _ := trendFixture()
	e := New(store, nil)
	empty := &models.EmployeeGroup{ID: 42, Name: "Ghost Town"}
	_, err := e.ParticipationMetrics(surveys, empty)
	ee, ok := AsEngineError(err)
	if !ok || ee.Code != ErrorInvalid {
		t.Fatalf("expected invalid for empty group, got %v", err)
	}
	if _, err := e.ParticipationMetrics(surveys, nil); err == nil {
		t.Fatalf("nil group must be rejected")
	}
}

func keys(m map[string][]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
