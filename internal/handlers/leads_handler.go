package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

// LeadsHandler serves the lead list, its JSON view API and the CSV export
type LeadsHandler struct {
	views    *cache.ViewStateCache
	exporter services.ExportServiceInterface
	render   *Renderer
}

func NewLeadsHandler(views *cache.ViewStateCache, exporter services.ExportServiceInterface, render *Renderer) *LeadsHandler {
	return &LeadsHandler{views: views, exporter: exporter, render: render}
}

// filterRequest is the body of POST /ui/api/leads/filter. "all" or an
// omitted field leaves that filter unset.
type filterRequest struct {
	Search string `json:"search" form:"search" binding:"max=255"`
	Stage  string `json:"stage" form:"stage"`
	Source string `json:"source" form:"source"`
}

func (r filterRequest) filter() models.LeadFilter {
	return models.ParseLeadFilter(r.Search, r.Stage, r.Source)
}

func (h *LeadsHandler) controller(c *gin.Context) (*services.ListController, bool) {
	return h.views.Controller(middleware.VisitorID(c))
}

// List renders page 1 for the filters in the query string.
func (h *LeadsHandler) List(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.render.Error(c, http.StatusBadRequest, "Invalid filter", "The search text is too long.", err)
		return
	}

	ctrl, _ := h.controller(c)
	err := applyFilter(c.Request.Context(), ctrl, req.filter())
	if h.fetchFailed(c, err) {
		return
	}
	h.render.HTML(c, http.StatusOK, "leads.html", "Leads", "leads", ctrl.View())
}

// Page renders another page of the current result set. Pages outside the
// cursor's range render the current page.
func (h *LeadsHandler) Page(c *gin.Context) {
	n, convErr := strconv.Atoi(c.Param("page"))

	ctrl, created := h.controller(c)
	ctx := c.Request.Context()
	var err error
	if created {
		err = ctrl.Mount(ctx)
	}
	if err == nil && convErr == nil {
		_, err = ctrl.GoToPage(ctx, n)
	}
	if h.fetchFailed(c, err) {
		return
	}
	h.render.HTML(c, http.StatusOK, "leads.html", "Leads", "leads", ctrl.View())
}

// APIList returns the list view model. ?page=n navigates, otherwise the
// list is refetched from page 1.
func (h *LeadsHandler) APIList(c *gin.Context) {
	ctrl, created := h.controller(c)
	ctx := c.Request.Context()

	var err error
	page, convErr := strconv.Atoi(c.Query("page"))
	switch {
	case created || convErr != nil:
		err = ctrl.Mount(ctx)
	default:
		_, err = ctrl.GoToPage(ctx, page)
	}
	h.respondView(c, ctrl, err)
}

// APIFilter applies new filters and returns the list view model.
func (h *LeadsHandler) APIFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	ctrl, _ := h.controller(c)
	err := applyFilter(c.Request.Context(), ctrl, req.filter())
	h.respondView(c, ctrl, err)
}

// Export sends every lead matching the visitor's filters as CSV, or
// redirects to the uploaded file.
func (h *LeadsHandler) Export(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	ctrl, _ := h.controller(c)
	result, err := h.exporter.Export(c.Request.Context(), *user, ctrl.Filter())
	if handledUnauthorized(c, err) {
		return
	}
	if err != nil {
		attachError(c, err)
		h.render.Redirect(c, "/dashboard/leads", cache.FlashError, apierrors.UserMessage(err, "Failed to export leads"))
		return
	}

	if result.URL != "" {
		c.Redirect(http.StatusFound, result.URL)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Export-Rows", strconv.Itoa(result.Rows))
	if result.Truncated {
		c.Header("X-Export-Truncated", "true")
	}
	c.Data(http.StatusOK, result.ContentType+"; charset=utf-8", result.Data)
}

// applyFilter refetches page 1, also when the filters are unchanged.
func applyFilter(ctx context.Context, ctrl *services.ListController, filter models.LeadFilter) error {
	changed, err := ctrl.SetFilters(ctx, filter)
	if err == nil && !changed {
		err = ctrl.Mount(ctx)
	}
	return err
}

// fetchFailed handles a list fetch error. Only a 401 ends the request; other
// failures are rendered inline from the view.
func (h *LeadsHandler) fetchFailed(c *gin.Context, err error) bool {
	if err == nil || errors.Is(err, services.ErrSuperseded) {
		return false
	}
	if handledUnauthorized(c, err) {
		return true
	}
	attachError(c, err)
	return false
}

func (h *LeadsHandler) respondView(c *gin.Context, ctrl *services.ListController, err error) {
	if h.fetchFailed(c, err) {
		return
	}
	status := http.StatusOK
	if err != nil && !errors.Is(err, services.ErrSuperseded) {
		status = http.StatusBadGateway
	}
	c.JSON(status, ctrl.View())
}
