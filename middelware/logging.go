package middelware

import (
	"net/http"
	"time"

	"bizdesk-backend/models"
	"bizdesk-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware provides request logging
type LoggingMiddleware struct {
	logger logger.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(log logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: log,
	}
}

// RequestLogger logs every request with its resolved session identity.
// Runs after the session resolver on authenticated routes, so impersonated
// requests carry both the acting and the effective user in the log line.
func (m *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if path == "/health" || path == "/swagger/doc.json" {
			return
		}

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"query":      raw,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		if effective := EffectiveIdentityFromContext(c); effective != nil {
			fields["user_id"] = effective.ID
			if effective.IsImpersonating {
				fields["impersonating"] = true
				fields["acting_user_id"] = effective.OriginalUserID
			}
		}

		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			m.logger.Errorf("HTTP request failed: %+v", fields)
		case c.Writer.Status() >= 400:
			m.logger.Warnf("HTTP request rejected: %+v", fields)
		default:
			m.logger.Infof("HTTP request completed: %+v", fields)
		}
	}
}

// Recovery middleware with logging
func (m *LoggingMiddleware) Recovery() gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered interface{}) {
		m.logger.Errorf("Panic recovered: %v", recovered)

		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
			Error: &models.APIError{
				Type:    "InternalError",
				Details: "An unexpected error occurred",
			},
		})
	})
}
