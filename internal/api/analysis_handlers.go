package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulseworks/pulse/internal/export"
	"github.com/pulseworks/pulse/internal/models"
)

// GET /api/surveys
func (rt *Router) handleListSurveys(c *gin.Context) {
	surveys, err := rt.store.ListSurveys()
	if err != nil {
		rt.writeError(c, err)
		return
	}
	visible := make([]*models.Survey, 0, len(surveys))
	for _, s := range surveys {
		if s.IsVisible {
			visible = append(visible, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{"surveys": visible})
}

// GET /api/surveys/:id/summary?user_id=&group_id=
func (rt *Router) handleSurveySummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, ok := rt.filterFromQuery(c)
	if !ok {
		return
	}
	report, err := rt.engine.SurveySummary(id, f)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/surveys/:id/respondents?group_id=
func (rt *Router) handleRespondents(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, ok := rt.filterFromQuery(c)
	if !ok {
		return
	}
	survey, err := rt.store.GetSurvey(id)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	if survey == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}
	labeled, err := rt.engine.Respondents(survey, f.Group)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"respondents": labeled})
}

// GET /api/trends/enps?user_id=&group_id=
func (rt *Router) handleENPSTrend(c *gin.Context) {
	rt.questionTrend(c, models.ENPSQuestionText)
}

// GET /api/trends/question?text=&user_id=&group_id=
func (rt *Router) handleQuestionTrend(c *gin.Context) {
	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}
	rt.questionTrend(c, text)
}

func (rt *Router) questionTrend(c *gin.Context, text string) {
	f, ok := rt.filterFromQuery(c)
	if !ok {
		return
	}
	surveys, err := rt.store.ListSurveys()
	if err != nil {
		rt.writeError(c, err)
		return
	}
	report, err := rt.engine.QuestionTrend(text, surveys, f)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/groups/:id/participation
func (rt *Router) handleParticipation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	group, err := rt.store.GetGroup(id)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	surveys, err := rt.store.ListSurveys()
	if err != nil {
		rt.writeError(c, err)
		return
	}
	report, err := rt.engine.ParticipationMetrics(surveys, group)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/surveys/:id/export?format=xlsx|csv&user_id=&group_id=
func (rt *Router) handleExport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	f, ok := rt.filterFromQuery(c)
	if !ok {
		return
	}
	report, err := rt.engine.SurveySummary(id, f)
	if err != nil {
		rt.writeError(c, err)
		return
	}

	// Random download names keep exported files from colliding or leaking
	// survey names into filesystems.
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		buf, err := export.SurveyWorkbook(report)
		if err != nil {
			rt.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", name))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "csv":
		out, err := export.SummaryCSV(report)
		if err != nil {
			rt.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
		c.Data(http.StatusOK, "text/csv", out)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export format"})
	}
}
