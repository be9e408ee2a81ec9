package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondErrorWithDetails sends an error JSON response with a details field and
// attaches the error to the gin context for the request log.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// handledUnauthorized reports whether err is a 401 from the leads API. The
// session middleware has already redirected or answered the request then.
func handledUnauthorized(c *gin.Context, err error) bool {
	if !apierrors.Is(err, apierrors.ErrUnauthorized) {
		return false
	}
	attachError(c, err)
	middleware.Unauthorized(c, "Session expired")
	return true
}
