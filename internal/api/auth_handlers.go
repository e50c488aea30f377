package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseworks/pulse/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/login
func (rt *Router) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	user, err := rt.store.FindUserByEmail(req.Email)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || !user.IsActive || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := middleware.SignToken(rt.secret, user, rt.ttl)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
