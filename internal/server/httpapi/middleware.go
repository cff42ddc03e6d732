package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/arestate/internal/common"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// requireSession resolves the session cookie to a user id and aborts with
// 401 when it is missing, expired or ended by logout.
func (s *HTTPServer) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cookie.Name)
		if err != nil || token == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := s.users.UserIDFromSessionToken(c.Request.Context(), token)
		if errors.Is(err, common.ErrorInternal) {
			s.writeError(c, err)
			return
		}
		if err != nil {
			s.logger.Debug(c.Request.Context(), "session rejected", "error", err)
			abortWithMessage(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
