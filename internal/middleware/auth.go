package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
	"github.com/leaddesk/leaddesk-dashboard/pkg/jwt"
	"github.com/leaddesk/leaddesk-dashboard/pkg/leadsapi"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"go.uber.org/zap"
)

const (
	// LoginPath is where unauthenticated browsers are sent
	LoginPath = "/login"

	// SessionContextKey is the key of the request's token store
	SessionContextKey = "session_store"

	// UserContextKey is the key of the signed-in user
	UserContextKey = "current_user"

	jsonAPIPrefix = "/ui/api/"
)

// BindSession attaches the browser's cookie token store to the request so
// every leads API call made while serving it carries the visitor's token.
// A 401 from the API clears the cookie and sends the browser to the login
// view (HTML routes) or answers 401 (JSON routes).
func BindSession(cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := NewCookieStore(c, cfg)
		c.Set(SessionContextKey, store)

		ctx := leadsapi.ContextWithSession(c.Request.Context(), store, func(context.Context) {
			Unauthorized(c, "Session expired")
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests whose token is missing, undecodable or
// expired, and puts the decoded user into the context.
func RequireAuth(now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		store := SessionStore(c)
		if store == nil {
			_ = c.Error(fmt.Errorf("session store not bound")) //nolint:errcheck
			Unauthorized(c, "Unauthorized")
			return
		}

		token := store.Token()
		if token == "" {
			Unauthorized(c, "Unauthorized")
			return
		}

		claims, err := jwt.Validate(token, now())
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid session token: %w", err)) //nolint:errcheck
			logger.Debug("Rejected session token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			_ = store.Clear()
			Unauthorized(c, "Session expired")
			return
		}

		c.Set(UserContextKey, &models.User{ID: claims.ID(), Name: claims.Name, Email: claims.Email})
		c.Next()
	}
}

// Unauthorized redirects HTML requests to the login view and answers JSON
// requests with 401. It aborts the handler chain.
func Unauthorized(c *gin.Context, message string) {
	if c.Writer.Written() {
		c.Abort()
		return
	}
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// WantsJSON reports whether the request targets the JSON view API or
// explicitly prefers JSON.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, jsonAPIPrefix) {
		return true
	}
	return strings.HasPrefix(c.GetHeader("Accept"), "application/json")
}

// SessionStore returns the token store bound by BindSession
func SessionStore(c *gin.Context) session.Store {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return nil
	}
	store, _ := val.(session.Store)
	return store
}

// CurrentUser returns the user set by RequireAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
