package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

type leadFormPage struct {
	ID     string
	Action string
	Draft  models.LeadDraft
	Errors views.FieldErrors
}

type leadDetailPage struct {
	Detail   *services.LeadDetail
	NotFound bool
}

// LeadHandler serves the lead detail view and the create/edit forms
type LeadHandler struct {
	form   services.LeadFormServiceInterface
	detail services.LeadDetailServiceInterface
	render *Renderer
}

func NewLeadHandler(form services.LeadFormServiceInterface, detail services.LeadDetailServiceInterface, render *Renderer) *LeadHandler {
	return &LeadHandler{form: form, detail: detail, render: render}
}

func leadURL(id string) string {
	return "/dashboard/leads/" + url.PathEscape(id)
}

func (h *LeadHandler) New(c *gin.Context) {
	draft, _ := h.form.Load(c.Request.Context(), "")
	h.renderForm(c, http.StatusOK, "", draft, nil)
}

func (h *LeadHandler) Create(c *gin.Context) {
	h.submit(c, "")
}

func (h *LeadHandler) Edit(c *gin.Context) {
	id := c.Param("id")

	draft, err := h.form.Load(c.Request.Context(), id)
	if handledUnauthorized(c, err) {
		return
	}
	if apierrors.Is(err, apierrors.ErrNotFound) {
		attachError(c, err)
		h.render.HTML(c, http.StatusNotFound, "lead_detail.html", "Lead not found", "leads", leadDetailPage{NotFound: true})
		return
	}
	if err != nil {
		h.render.Error(c, http.StatusBadGateway, "Something went wrong", apierrors.UserMessage(err, "Failed to fetch lead"), err)
		return
	}

	h.renderForm(c, http.StatusOK, id, draft, nil)
}

func (h *LeadHandler) Update(c *gin.Context) {
	h.submit(c, c.Param("id"))
}

// Show renders the detail view. A missing lead is an inline empty state.
func (h *LeadHandler) Show(c *gin.Context) {
	detail, err := h.detail.Detail(c.Request.Context(), c.Param("id"))
	if handledUnauthorized(c, err) {
		return
	}
	if apierrors.Is(err, apierrors.ErrNotFound) {
		attachError(c, err)
		h.render.HTML(c, http.StatusNotFound, "lead_detail.html", "Lead not found", "leads", leadDetailPage{NotFound: true})
		return
	}
	if err != nil {
		h.render.Error(c, http.StatusBadGateway, "Something went wrong", apierrors.UserMessage(err, "Failed to fetch lead"), err)
		return
	}

	h.render.HTML(c, http.StatusOK, "lead_detail.html", detail.Lead.Name, "leads", leadDetailPage{Detail: detail})
}

func (h *LeadHandler) submit(c *gin.Context, id string) {
	var draft models.LeadDraft
	if err := c.ShouldBind(&draft); err != nil {
		h.renderForm(c, http.StatusBadRequest, id, draft, nil, errorFlash("Invalid form submission"))
		attachError(c, err)
		return
	}

	result, err := h.form.Submit(c.Request.Context(), id, draft)
	if handledUnauthorized(c, err) {
		return
	}
	if apierrors.Is(err, apierrors.ErrInvalidInput) {
		attachError(c, err)
		h.renderForm(c, http.StatusUnprocessableEntity, id, draft, fieldErrors(err), errorFlash("Please fix the highlighted fields"))
		return
	}
	if err != nil {
		attachError(c, err)
		fallback := "Failed to update lead"
		if id == "" {
			fallback = "Failed to create lead"
		}
		h.renderForm(c, http.StatusBadGateway, id, draft, nil, errorFlash(apierrors.UserMessage(err, fallback)))
		return
	}

	location := "/dashboard/leads"
	if result.LeadID != "" {
		location = leadURL(result.LeadID)
	}
	h.render.Redirect(c, location, cache.FlashSuccess, result.Message)
}

func (h *LeadHandler) renderForm(c *gin.Context, status int, id string, draft models.LeadDraft, errs views.FieldErrors, extra ...cache.Flash) {
	page := leadFormPage{ID: id, Action: "/dashboard/leads/new", Draft: draft, Errors: errs}
	title := "New lead"
	if id != "" {
		page.Action = leadURL(id) + "/edit"
		title = "Edit lead"
	}
	h.render.HTML(c, status, "lead_form.html", title, "leads", page, extra...)
}
