package middelware

import (
	"net/http"
	"strings"

	"bizdesk-backend/models"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides CORS handling. Credentials are always allowed
// because the impersonation session travels as an HttpOnly cookie, and the
// trusted header channel must be accepted on preflight.
type CORSMiddleware struct {
	config *models.Config
}

// NewCORSMiddleware creates a new CORS middleware
func NewCORSMiddleware(cfg *models.Config) *CORSMiddleware {
	return &CORSMiddleware{config: cfg}
}

// CORS returns a gin.HandlerFunc for handling CORS
func (m *CORSMiddleware) CORS() gin.HandlerFunc {
	allowHeaders := strings.Join([]string{
		"Origin",
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"X-Requested-With",
		ImpersonationHeaderName,
	}, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Cookies only flow cross-origin against an echoed origin, never "*"
		if origin != "" && m.isOriginAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isOriginAllowed checks the origin against the configured allow list.
// Supports exact matches and "*.example.com" subdomain wildcards.
func (m *CORSMiddleware) isOriginAllowed(origin string) bool {
	for _, allowed := range m.config.CORSOrigins {
		switch {
		case allowed == "*":
			return true
		case allowed == origin:
			return true
		case strings.HasPrefix(allowed, "*."):
			domain := strings.TrimPrefix(allowed, "*.")
			if origin == domain || strings.HasSuffix(origin, "."+domain) {
				return true
			}
		}
	}
	return false
}
