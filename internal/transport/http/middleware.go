package http

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var roomNamePattern = regexp.MustCompile(`^[A-Za-z0-9-_]+$`)

// RoomNameMiddleware rejects requests whose room path segment contains
// anything beyond letters, digits, dashes and underscores.
func RoomNameMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roomNamePattern.MatchString(c.Param("room")) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
