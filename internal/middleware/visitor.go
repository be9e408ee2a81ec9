package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// VisitorContextKey is the context key of the visitor id
	VisitorContextKey = "visitor_id"

	// DefaultVisitorCookieName is used when no cookie name is configured
	DefaultVisitorCookieName = "leaddesk_visitor"

	visitorCookieMaxAge = 365 * 24 * 3600
)

// VisitorMiddleware assigns every browser a stable random id. The id keys
// the visitor's list state and flash notices.
func VisitorMiddleware(cookieName, domain string, secure bool) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultVisitorCookieName
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, visitorCookieMaxAge, "/", domain, secure, true)
		}

		c.Set(VisitorContextKey, id)
		c.Next()
	}
}

// VisitorID returns the visitor id set by VisitorMiddleware
func VisitorID(c *gin.Context) string {
	return c.GetString(VisitorContextKey)
}
