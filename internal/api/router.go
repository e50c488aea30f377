// Package api exposes the analysis engine and the publish flow over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/middleware"
	"github.com/pulseworks/pulse/internal/models"
)

// Router wires HTTP routes to the store and the analytics engine.
type Router struct {
	store  Store
	engine *analytics.Engine
	secret string
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewRouter builds a router over store. A nil logger falls back to the
// standard logrus logger.
func NewRouter(store Store, secret string, ttl time.Duration, log logrus.FieldLogger) *Router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Router{
		store:  store,
		engine: analytics.New(store, log),
		secret: secret,
		ttl:    ttl,
		log:    log,
	}
}

// Register attaches all routes to r. Analysis and publishing require a
// creator or admin token; answer submission only requires authentication.
func (rt *Router) Register(r *gin.Engine) {
	r.GET("/healthz", rt.handleHealth)

	g := r.Group("/api")
	g.POST("/login", rt.handleLogin)

	auth := g.Group("", middleware.AuthJWT(rt.secret))
	auth.GET("/results", rt.handleMyResults)
	auth.POST("/results/:id/answers", rt.handleSubmitAnswers)

	analysis := auth.Group("", middleware.RequireRole(models.RoleSurveyCreator, models.RoleAdmin))
	analysis.GET("/surveys", rt.handleListSurveys)
	analysis.GET("/surveys/:id/summary", rt.handleSurveySummary)
	analysis.GET("/surveys/:id/respondents", rt.handleRespondents)
	analysis.GET("/surveys/:id/export", rt.handleExport)
	analysis.GET("/trends/enps", rt.handleENPSTrend)
	analysis.GET("/trends/question", rt.handleQuestionTrend)
	analysis.GET("/groups/:id/participation", rt.handleParticipation)
	analysis.POST("/templates", rt.handleCreateTemplate)
	analysis.POST("/templates/:id/publish", rt.handlePublishTemplate)
}

func (rt *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
