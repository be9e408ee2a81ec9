package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

const settingsPath = "/dashboard/settings"

type settingsPage struct {
	Settings *models.UserSettings
	Errors   views.FieldErrors
}

// SettingsHandler serves the profile and notification preferences
type SettingsHandler struct {
	service services.SettingsServiceInterface
	render  *Renderer
}

func NewSettingsHandler(service services.SettingsServiceInterface, render *Renderer) *SettingsHandler {
	return &SettingsHandler{service: service, render: render}
}

func (h *SettingsHandler) Show(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	settings, err := h.service.Get(c.Request.Context(), *user)
	if err != nil {
		h.render.Error(c, http.StatusInternalServerError, "Something went wrong", "Failed to load settings", err)
		return
	}
	h.render.HTML(c, http.StatusOK, "settings.html", "Settings", "settings", settingsPage{Settings: settings})
}

func (h *SettingsHandler) SaveProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	var profile models.ProfileSettings
	if err := c.ShouldBind(&profile); err != nil {
		attachError(c, err)
		h.render.Redirect(c, settingsPath, cache.FlashError, "Invalid form submission")
		return
	}

	ctx := c.Request.Context()
	err := h.service.SaveProfile(ctx, *user, profile)
	if apierrors.Is(err, apierrors.ErrInvalidInput) {
		attachError(c, err)
		settings, getErr := h.service.Get(ctx, *user)
		if getErr != nil {
			h.render.Error(c, http.StatusInternalServerError, "Something went wrong", "Failed to load settings", getErr)
			return
		}
		settings.Profile = profile
		h.render.HTML(c, http.StatusUnprocessableEntity, "settings.html", "Settings", "settings",
			settingsPage{Settings: settings, Errors: fieldErrors(err)})
		return
	}
	if err != nil {
		attachError(c, err)
		h.render.Redirect(c, settingsPath, cache.FlashError, "Failed to update profile")
		return
	}

	h.render.Redirect(c, settingsPath, cache.FlashSuccess, services.ProfileSavedMessage)
}

func (h *SettingsHandler) SaveNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	var prefs models.NotificationSettings
	if err := c.ShouldBind(&prefs); err != nil {
		attachError(c, err)
		h.render.Redirect(c, settingsPath, cache.FlashError, "Invalid form submission")
		return
	}

	if err := h.service.SaveNotifications(c.Request.Context(), *user, prefs); err != nil {
		attachError(c, err)
		h.render.Redirect(c, settingsPath, cache.FlashError, "Failed to update notification preferences")
		return
	}

	h.render.Redirect(c, settingsPath, cache.FlashSuccess, services.NotificationsSavedMessage)
}
