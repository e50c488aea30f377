package middleware

import "github.com/gin-gonic/gin"

// NoStore sets strict no-cache headers on every response. Analysis reports
// recompute on each request; a cached report would silently go stale as new
// answers arrive.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
