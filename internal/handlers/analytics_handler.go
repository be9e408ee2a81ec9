package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

const recentLeadsLimit = 5

type dashboardPage struct {
	Analytics *services.AnalyticsView
	Recent    []models.Lead
}

// AnalyticsHandler serves the dashboard overview and the analytics view
type AnalyticsHandler struct {
	analytics services.AnalyticsServiceInterface
	leads     services.LeadLister
	render    *Renderer
}

func NewAnalyticsHandler(analytics services.AnalyticsServiceInterface, leads services.LeadLister, render *Renderer) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, leads: leads, render: render}
}

// Dashboard shows the counters and the newest leads.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	view, flashes, ok := h.load(c)
	if !ok {
		return
	}

	recent := []models.Lead{}
	env, err := h.leads.List(c.Request.Context(), repository.ListQuery{Page: 1, Limit: recentLeadsLimit})
	if handledUnauthorized(c, err) {
		return
	}
	if err != nil {
		attachError(c, err)
		flashes = append(flashes, errorFlash(apierrors.UserMessage(err, "Failed to fetch leads")))
	} else if env.Leads != nil {
		recent = env.Leads
	}

	h.render.HTML(c, http.StatusOK, "dashboard.html", "Dashboard", "dashboard", dashboardPage{Analytics: view, Recent: recent}, flashes...)
}

// Show renders the analytics counters and charts.
func (h *AnalyticsHandler) Show(c *gin.Context) {
	view, flashes, ok := h.load(c)
	if !ok {
		return
	}
	h.render.HTML(c, http.StatusOK, "analytics.html", "Analytics", "analytics", view, flashes...)
}

// load fetches the snapshot once per view. Failures render zero counters
// with a notice.
func (h *AnalyticsHandler) load(c *gin.Context) (*services.AnalyticsView, []cache.Flash, bool) {
	view, err := h.analytics.Load(c.Request.Context())
	if handledUnauthorized(c, err) {
		return nil, nil, false
	}
	if err != nil {
		attachError(c, err)
		return services.BuildAnalyticsView(models.Analytics{}), []cache.Flash{errorFlash(apierrors.UserMessage(err, "Failed to fetch analytics"))}, true
	}
	return view, nil, true
}
