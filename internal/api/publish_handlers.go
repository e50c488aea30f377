package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pulseworks/pulse/internal/middleware"
	"github.com/pulseworks/pulse/internal/models"
)

type questionRequest struct {
	Text    string                `json:"text" binding:"required"`
	Format  models.QuestionFormat `json:"format" binding:"required"`
	Type    models.QuestionType   `json:"type"`
	Min     int                   `json:"min"`
	Max     int                   `json:"max"`
	Options []string              `json:"options"`
}

type createTemplateRequest struct {
	Name      string            `json:"name" binding:"required"`
	CreatorID uint              `json:"creator_id" binding:"required"`
	Standard  bool              `json:"standard"`
	Questions []questionRequest `json:"questions"`
}

// POST /api/templates
func (rt *Router) handleCreateTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl := &models.SurveyTemplate{Name: req.Name, CreatorID: req.CreatorID}
	if req.Standard {
		tpl.Questions = models.StandardQuestions()
	}
	for _, q := range req.Questions {
		question, err := buildQuestion(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tpl.Questions = append(tpl.Questions, question)
	}
	if len(tpl.Questions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template needs at least one question"})
		return
	}
	for i, q := range tpl.Questions {
		q.Order = i
	}
	if err := rt.store.CreateTemplate(tpl); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func buildQuestion(q questionRequest) (*models.Question, error) {
	qType := q.Type
	if qType == "" {
		qType = models.TypeOneTime
	}
	switch q.Format {
	case models.FormatSlider:
		low, high := q.Min, q.Max
		if low == 0 && high == 0 {
			low, high = 1, 10
		}
		if high <= low {
			return nil, errSliderBounds
		}
		return models.NewSliderQuestion(q.Text, qType, low, high), nil
	case models.FormatMultipleChoice:
		if len(q.Options) < 2 {
			return nil, errChoiceOptions
		}
		return models.NewMultipleChoiceQuestion(q.Text, qType, q.Options), nil
	case models.FormatYesNo:
		return models.NewYesNoQuestion(q.Text, qType), nil
	case models.FormatFreeText:
		return models.NewFreeTextQuestion(q.Text, qType), nil
	default:
		return nil, errUnknownFormat
	}
}

type publishRequest struct {
	GroupIDs    []uint    `json:"group_ids" binding:"required,min=1"`
	SendingDate time.Time `json:"sending_date"`
	Deadline    time.Time `json:"deadline"`
}

// POST /api/templates/:id/publish
func (rt *Router) handlePublishTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groups := make([]*models.EmployeeGroup, 0, len(req.GroupIDs))
	for _, gid := range req.GroupIDs {
		group, err := rt.store.GetGroup(gid)
		if err != nil {
			rt.writeError(c, err)
			return
		}
		if group == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		groups = append(groups, group)
	}
	sent := req.SendingDate
	if sent.IsZero() {
		sent = time.Now().UTC()
	}
	deadline := req.Deadline
	if deadline.IsZero() {
		deadline = sent.AddDate(0, 0, 7)
	}
	survey, err := rt.store.PublishTemplate(id, groups, sent, deadline)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

type answerRequest struct {
	QuestionID uint     `json:"question_id" binding:"required"`
	Slider     *float64 `json:"slider,omitempty"`
	Choices    []bool   `json:"choices,omitempty"`
	YesNo      *bool    `json:"yes_no,omitempty"`
	FreeText   *string  `json:"free_text,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

type submitAnswersRequest struct {
	Answers []answerRequest `json:"answers" binding:"required,min=1"`
}

// GET /api/results
func (rt *Router) handleMyResults(c *gin.Context) {
	raw := c.GetString(middleware.ContextUserID)
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return
	}
	results, err := rt.store.ListUserResults(uint(userID))
	if err != nil {
		rt.writeError(c, err)
		return
	}
	pending := make([]*models.SurveyUserResult, 0, len(results))
	for _, r := range results {
		if !r.IsAnswered {
			pending = append(pending, r)
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": pending})
}

// POST /api/results/:id/answers
func (rt *Router) handleSubmitAnswers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	raw := c.GetString(middleware.ContextUserID)
	callerID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return
	}
	result, err := rt.store.GetResult(id)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	// Only the addressed recipient may answer this envelope.
	if result.UserID != uint(callerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "result belongs to another user"})
		return
	}
	var req submitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answers := make([]*models.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answer, err := buildAnswer(id, a)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		answers = append(answers, answer)
	}
	if err := rt.store.SubmitAnswers(id, answers); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submitted": len(answers)})
}

func buildAnswer(resultID uint, a answerRequest) (*models.Answer, error) {
	var answer *models.Answer
	switch {
	case a.Slider != nil:
		answer = models.NewSliderAnswer(resultID, a.QuestionID, *a.Slider)
	case len(a.Choices) > 0:
		answer = models.NewMultipleChoiceAnswer(resultID, a.QuestionID, a.Choices)
	case a.YesNo != nil:
		answer = models.NewYesNoAnswer(resultID, a.QuestionID, *a.YesNo)
	case a.FreeText != nil:
		answer = models.NewFreeTextAnswer(resultID, a.QuestionID, *a.FreeText)
	default:
		return nil, errEmptyAnswer
	}
	if a.Comment != "" {
		answer = answer.WithComment(a.Comment)
	}
	return answer, nil
}
