package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

const (
	dashboardPath = "/dashboard"
	captchaField  = "g-recaptcha-response"
)

type authPage struct {
	Name           string
	Email          string
	CaptchaSiteKey string
	Errors         views.FieldErrors
}

// AuthHandler serves login, signup and logout
type AuthHandler struct {
	auth           services.AuthServiceInterface
	views          *cache.ViewStateCache
	render         *Renderer
	captchaSiteKey string
}

func NewAuthHandler(auth services.AuthServiceInterface, views *cache.ViewStateCache, render *Renderer, captchaSiteKey string) *AuthHandler {
	if !auth.CaptchaEnabled() {
		captchaSiteKey = ""
	}
	return &AuthHandler{auth: auth, views: views, render: render, captchaSiteKey: captchaSiteKey}
}

func (h *AuthHandler) signedIn(c *gin.Context) bool {
	store := middleware.SessionStore(c)
	if store == nil || store.Token() == "" {
		return false
	}
	_, err := h.auth.CurrentUser(store.Token())
	return err == nil
}

// Landing sends signed-in browsers to the dashboard.
func (h *AuthHandler) Landing(c *gin.Context) {
	if h.signedIn(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	h.render.HTML(c, http.StatusOK, "landing.html", "", "", nil)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if h.signedIn(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	h.render.HTML(c, http.StatusOK, "login.html", "Log in", "", authPage{CaptchaSiteKey: h.captchaSiteKey})
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	if h.signedIn(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	h.render.HTML(c, http.StatusOK, "signup.html", "Sign up", "", authPage{CaptchaSiteKey: h.captchaSiteKey})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	_ = c.ShouldBind(&req)
	page := authPage{Email: req.Email, CaptchaSiteKey: h.captchaSiteKey}

	_, err := h.auth.Login(c.Request.Context(), middleware.SessionStore(c), req, c.PostForm(captchaField))
	if err != nil {
		h.authFailed(c, "login.html", "Log in", page, err, "Login failed")
		return
	}

	h.views.Forget(middleware.VisitorID(c))
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	_ = c.ShouldBind(&req)
	page := authPage{Name: req.Name, Email: req.Email, CaptchaSiteKey: h.captchaSiteKey}

	_, err := h.auth.Signup(c.Request.Context(), middleware.SessionStore(c), req, c.PostForm(captchaField))
	if err != nil {
		h.authFailed(c, "signup.html", "Sign up", page, err, "Signup failed")
		return
	}

	h.views.Forget(middleware.VisitorID(c))
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(middleware.SessionStore(c)); err != nil {
		attachError(c, err)
	}
	h.views.Forget(middleware.VisitorID(c))
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AuthHandler) authFailed(c *gin.Context, name, title string, page authPage, err error, fallback string) {
	attachError(c, err)

	switch {
	case apierrors.Is(err, apierrors.ErrInvalidInput):
		page.Errors = fieldErrors(err)
		h.render.HTML(c, http.StatusUnprocessableEntity, name, title, "", page)
	case errors.Is(err, services.ErrCaptchaFailed):
		h.render.HTML(c, http.StatusBadRequest, name, title, "", page, errorFlash("Captcha verification failed"))
	default:
		status := http.StatusUnauthorized
		var apiErr *apierrors.APIError
		if !apierrors.As(err, &apiErr) {
			status = http.StatusBadGateway
		}
		h.render.HTML(c, status, name, title, "", page, errorFlash(apierrors.UserMessage(err, fallback)))
	}
}
