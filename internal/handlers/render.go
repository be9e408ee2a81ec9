package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
)

// Renderer renders page templates and delivers queued flash notices
type Renderer struct {
	flashes *cache.FlashCache
}

func NewRenderer(flashes *cache.FlashCache) *Renderer {
	return &Renderer{flashes: flashes}
}

// HTML renders a page with the visitor's pending notices plus any extra ones.
func (r *Renderer) HTML(c *gin.Context, status int, name, title, nav string, data any, extra ...cache.Flash) {
	page := views.Page{
		Title:   title,
		Nav:     nav,
		Flashes: append(r.flashes.Pop(middleware.VisitorID(c)), extra...),
		Data:    data,
	}
	if user, ok := middleware.CurrentUser(c); ok {
		page.User = user
	}
	c.HTML(status, name, page)
}

// Flash queues a notice for the next page the visitor sees.
func (r *Renderer) Flash(c *gin.Context, kind cache.FlashKind, message string) {
	r.flashes.Push(middleware.VisitorID(c), kind, message)
}

// Redirect queues a notice and sends the browser to location.
func (r *Renderer) Redirect(c *gin.Context, location string, kind cache.FlashKind, message string) {
	if message != "" {
		r.Flash(c, kind, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Error renders the generic error page.
func (r *Renderer) Error(c *gin.Context, status int, title, message string, err error) {
	attachError(c, err)
	r.HTML(c, status, "error.html", title, "", message)
}

func errorFlash(message string) cache.Flash {
	return cache.Flash{Kind: cache.FlashError, Message: message}
}
