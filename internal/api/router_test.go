package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pulseworks/pulse/internal/store"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	if err := store.Seed(s); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	NewRouter(s, testSecret, time.Hour, log).Register(r)
	return r, s
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: bad body %s", email, w.Body.String())
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status %d", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "creator@acme.test", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "nobody@acme.test", "password": "whatever"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: status %d", w.Code)
	}
}

func TestAnalysisRequiresCreatorRole(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := doJSON(t, r, http.MethodGet, "/api/surveys", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status %d", w.Code)
	}
	responder := login(t, r, "employee1@acme.test", "employee-dev-password")
	if w := doJSON(t, r, http.MethodGet, "/api/surveys", responder, nil); w.Code != http.StatusForbidden {
		t.Fatalf("responder: status %d", w.Code)
	}
}

func TestSurveySummaryEndpoint(t *testing.T) {
	r, s := newTestRouter(t)
	token := login(t, r, "creator@acme.test", "creator-dev-password")

	surveys, _ := s.ListSurveys()
	w := doJSON(t, r, http.MethodGet, "/api/surveys", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list surveys: status %d", w.Code)
	}

	path := "/api/surveys/" + itoa(surveys[0].ID) + "/summary"
	w = doJSON(t, r, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: status %d body %s", w.Code, w.Body.String())
	}
	var report struct {
		Summaries []json.RawMessage `json:"summaries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(report.Summaries) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(report.Summaries))
	}

	if w := doJSON(t, r, http.MethodGet, "/api/surveys/9999/summary", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown survey: status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, path+"?user_id=9999", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown user filter: status %d", w.Code)
	}
}

func TestTrendAndParticipationEndpoints(t *testing.T) {
	r, s := newTestRouter(t)
	token := login(t, r, "creator@acme.test", "creator-dev-password")

	w := doJSON(t, r, http.MethodGet, "/api/trends/enps", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("enps trend: status %d body %s", w.Code, w.Body.String())
	}
	var trend struct {
		SurveyIDs []uint               `json:"survey_ids_trend"`
		Metrics   map[string][]float64 `json:"metrics_trend"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &trend); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if len(trend.SurveyIDs) != 2 || len(trend.Metrics["score"]) != 2 {
		t.Fatalf("trend shape off: %s", w.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, "/api/trends/question", token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing text: status %d", w.Code)
	}

	surveys, _ := s.ListSurveys()
	group := surveys[0].Groups[0]
	w = doJSON(t, r, http.MethodGet, "/api/groups/"+itoa(group.ID)+"/participation", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("participation: status %d body %s", w.Code, w.Body.String())
	}
	var part struct {
		Counts []int `json:"participant_count_list"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &part); err != nil {
		t.Fatalf("decode participation: %v", err)
	}
	if len(part.Counts) != 2 || part.Counts[0] != 3 {
		t.Fatalf("participation shape off: %s", w.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, "/api/groups/9999/participation", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown group: status %d", w.Code)
	}
}

func TestRespondentsEndpoint(t *testing.T) {
	r, s := newTestRouter(t)
	token := login(t, r, "creator@acme.test", "creator-dev-password")
	surveys, _ := s.ListSurveys()

	w := doJSON(t, r, http.MethodGet, "/api/surveys/"+itoa(surveys[0].ID)+"/respondents", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("respondents: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Respondents map[string]struct {
			Name string `json:"name"`
		} `json:"respondents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode respondents: %v", err)
	}
	if len(resp.Respondents) != 3 {
		t.Fatalf("expected 3 labeled respondents, got %d", len(resp.Respondents))
	}
	for label := range resp.Respondents {
		if !strings.HasPrefix(label, "User ") {
			t.Fatalf("label %q not anonymized", label)
		}
	}
}

func TestExportEndpoint(t *testing.T) {
	r, s := newTestRouter(t)
	token := login(t, r, "creator@acme.test", "creator-dev-password")
	surveys, _ := s.ListSurveys()
	base := "/api/surveys/" + itoa(surveys[0].ID) + "/export"

	w := doJSON(t, r, http.MethodGet, base, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx export: status %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("xlsx export missing content disposition")
	}
	if w.Body.Len() == 0 {
		t.Fatalf("xlsx export empty body")
	}

	w = doJSON(t, r, http.MethodGet, base+"?format=csv", token, nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("question,")) {
		t.Fatalf("csv export: status %d body %q", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, base+"?format=pdf", token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: status %d", w.Code)
	}
}

func TestSubmitAnswersFlow(t *testing.T) {
	r, s := newTestRouter(t)
	// Carol answered the first seeded survey but not the second.
	token := login(t, r, "employee3@acme.test", "employee-dev-password")

	w := doJSON(t, r, http.MethodGet, "/api/results", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my results: status %d", w.Code)
	}
	var mine struct {
		Results []struct {
			ID       uint `json:"id"`
			SurveyID uint `json:"survey_id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &mine); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(mine.Results) != 1 {
		t.Fatalf("expected 1 pending result, got %d", len(mine.Results))
	}

	questions, err := s.ListSurveyQuestions(mine.Results[0].SurveyID)
	if err != nil || len(questions) == 0 {
		t.Fatalf("questions for pending survey: %v", err)
	}
	path := "/api/results/" + itoa(mine.Results[0].ID) + "/answers"
	body := gin.H{"answers": []gin.H{{"question_id": questions[0].ID, "slider": 8, "comment": "steady week"}}}
	if w := doJSON(t, r, http.MethodPost, path, token, body); w.Code != http.StatusCreated {
		t.Fatalf("submit: status %d body %s", w.Code, w.Body.String())
	}
	// Second submission conflicts.
	if w := doJSON(t, r, http.MethodPost, path, token, body); w.Code != http.StatusConflict {
		t.Fatalf("resubmit: status %d", w.Code)
	}
	// The pending list is now empty.
	w = doJSON(t, r, http.MethodGet, "/api/results", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &mine); err != nil || len(mine.Results) != 0 {
		t.Fatalf("pending after submit: %s", w.Body.String())
	}
}

func TestSubmitAnswersOnlyForOwnResult(t *testing.T) {
	r, s := newTestRouter(t)
	carol := login(t, r, "employee3@acme.test", "employee-dev-password")
	alice := login(t, r, "employee1@acme.test", "employee-dev-password")

	w := doJSON(t, r, http.MethodGet, "/api/results", carol, nil)
	var mine struct {
		Results []struct {
			ID       uint `json:"id"`
			SurveyID uint `json:"survey_id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &mine); err != nil || len(mine.Results) != 1 {
		t.Fatalf("pending results for carol: %s", w.Body.String())
	}
	questions, err := s.ListSurveyQuestions(mine.Results[0].SurveyID)
	if err != nil || len(questions) == 0 {
		t.Fatalf("questions for pending survey: %v", err)
	}
	body := gin.H{"answers": []gin.H{{"question_id": questions[0].ID, "slider": 6}}}

	// Alice cannot answer Carol's envelope.
	path := "/api/results/" + itoa(mine.Results[0].ID) + "/answers"
	if w := doJSON(t, r, http.MethodPost, path, alice, body); w.Code != http.StatusForbidden {
		t.Fatalf("foreign submit: status %d body %s", w.Code, w.Body.String())
	}
	// A missing envelope stays a 404, not a 403.
	if w := doJSON(t, r, http.MethodPost, "/api/results/9999/answers", alice, body); w.Code != http.StatusNotFound {
		t.Fatalf("missing result: status %d", w.Code)
	}
	// Carol still can.
	if w := doJSON(t, r, http.MethodPost, path, carol, body); w.Code != http.StatusCreated {
		t.Fatalf("own submit: status %d body %s", w.Code, w.Body.String())
	}
}

func TestCreateAndPublishTemplate(t *testing.T) {
	r, s := newTestRouter(t)
	token := login(t, r, "creator@acme.test", "creator-dev-password")

	w := doJSON(t, r, http.MethodPost, "/api/templates", token, gin.H{
		"name":       "Retro Pulse",
		"creator_id": 2,
		"questions": []gin.H{
			{"text": "How was the sprint?", "format": "slider", "min": 1, "max": 10},
			{"text": "Pick blockers", "format": "multiplechoice", "options": []string{"Scope", "Tooling", "Meetings"}},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create template: status %d body %s", w.Code, w.Body.String())
	}
	var tpl struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tpl); err != nil || tpl.ID == 0 {
		t.Fatalf("decode template: %s", w.Body.String())
	}

	surveys, _ := s.ListSurveys()
	group := surveys[0].Groups[0]
	w = doJSON(t, r, http.MethodPost, "/api/templates/"+itoa(tpl.ID)+"/publish", token, gin.H{
		"group_ids": []uint{group.ID},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("publish: status %d body %s", w.Code, w.Body.String())
	}
	var survey struct {
		ID             uint `json:"id"`
		PublishedCount int  `json:"published_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &survey); err != nil {
		t.Fatalf("decode survey: %v", err)
	}
	if survey.PublishedCount != 3 {
		t.Fatalf("published count=%d, want 3", survey.PublishedCount)
	}

	w = doJSON(t, r, http.MethodPost, "/api/templates/9999/publish", token, gin.H{"group_ids": []uint{group.ID}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("publish missing template: status %d", w.Code)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
