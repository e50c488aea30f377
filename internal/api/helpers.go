package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/store"
)

// writeError maps engine and store errors onto HTTP statuses. Anything
// unclassified is a 500 with a generic body; details go to the log only.
func (rt *Router) writeError(c *gin.Context, err error) {
	if ee, ok := analytics.AsEngineError(err); ok {
		status := http.StatusBadRequest
		if ee.Code == analytics.ErrorNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": ee.Message})
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrAlreadyAnswered):
		c.JSON(http.StatusConflict, gin.H{"error": "already answered"})
	default:
		rt.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional uint query parameter, returning nil when absent.
func queryID(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	v := uint(id)
	return &v, nil
}

// filterFromQuery resolves the optional user_id and group_id query
// parameters into an analytics filter. Unknown ids are 404s.
func (rt *Router) filterFromQuery(c *gin.Context) (analytics.Filter, bool) {
	var f analytics.Filter
	userID, err := queryID(c, "user_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return f, false
	}
	groupID, err := queryID(c, "group_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return f, false
	}
	if userID != nil {
		user, err := rt.store.GetUser(*userID)
		if err != nil {
			rt.writeError(c, err)
			return f, false
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return f, false
		}
		f.User = user
	}
	if groupID != nil {
		group, err := rt.store.GetGroup(*groupID)
		if err != nil {
			rt.writeError(c, err)
			return f, false
		}
		if group == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return f, false
		}
		f.Group = group
	}
	return f, true
}
