package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testVisitor = "3f1c9a52-8d4e-4b6f-9a1e-2c7d5e8f0b13"

var (
	testCookie = middleware.CookieConfig{Name: "token", MaxAge: 3600}
	testUser   = &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
)

type testEnv struct {
	router  *gin.Engine
	flashes *cache.FlashCache
	render  *Renderer
}

// newTestEnv builds a router with the page templates and the session
// middlewares. A non-nil user is treated as signed in.
func newTestEnv(t *testing.T, user *models.User) *testEnv {
	t.Helper()

	tmpl, err := views.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(
		middleware.VisitorMiddleware(middleware.DefaultVisitorCookieName, "", false),
		middleware.BindSession(testCookie),
	)
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserContextKey, user)
			c.Next()
		})
	}

	flashes := cache.NewFlashCache(time.Minute)
	return &testEnv{router: router, flashes: flashes, render: NewRenderer(flashes)}
}

func (e *testEnv) do(method, target string, body url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	req.AddCookie(&http.Cookie{Name: middleware.DefaultVisitorCookieName, Value: testVisitor})

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.DefaultVisitorCookieName, Value: testVisitor})

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func pageOf(leads []models.Lead, page, totalPages, totalItems int) *models.LeadEnvelope {
	return &models.LeadEnvelope{
		Success:    true,
		Leads:      leads,
		Pagination: &models.Pagination{Page: page, TotalPages: totalPages, TotalItems: totalItems},
	}
}

func TestLeadHandler_ShowNotFound(t *testing.T) {
	env := newTestEnv(t, testUser)
	detail := new(MockLeadDetail)
	detail.On("Detail", mock.Anything, "missing").Return(nil, apierrors.NotFoundError("lead"))

	h := NewLeadHandler(new(MockLeadForm), detail, env.render)
	env.router.GET("/dashboard/leads/:id", h.Show)

	w := env.do(http.MethodGet, "/dashboard/leads/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Lead not found")
}

func TestLeadHandler_ShowUnauthorizedRedirects(t *testing.T) {
	env := newTestEnv(t, testUser)
	detail := new(MockLeadDetail)
	detail.On("Detail", mock.Anything, "42").Return(nil, apierrors.ErrUnauthorized)

	h := NewLeadHandler(new(MockLeadForm), detail, env.render)
	env.router.GET("/dashboard/leads/:id", h.Show)

	w := env.do(http.MethodGet, "/dashboard/leads/42", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestLeadHandler_CreateInvalid(t *testing.T) {
	env := newTestEnv(t, testUser)
	form := services.NewLeadFormService(nil, "US")

	h := NewLeadHandler(form, new(MockLeadDetail), env.render)
	env.router.POST("/dashboard/leads/new", h.Create)

	w := env.do(http.MethodPost, "/dashboard/leads/new", url.Values{
		"name":  {""},
		"email": {"not-an-email"},
		"stage": {"new"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Please fix the highlighted fields")
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, "Invalid email format")
	assert.Contains(t, body, "not-an-email")
}

func TestLeadHandler_CreateSuccessFlashesOnDetail(t *testing.T) {
	env := newTestEnv(t, testUser)
	form := new(MockLeadForm)
	form.On("Submit", mock.Anything, "", mock.MatchedBy(func(d models.LeadDraft) bool {
		return d.Name == "Acme" && d.Email == "ops@acme.test"
	})).Return(&services.SubmitResult{LeadID: "42", Message: "Lead created successfully"}, nil)

	detail := new(MockLeadDetail)
	detail.On("Detail", mock.Anything, "42").
		Return(services.BuildLeadDetail(&models.Lead{ID: "42", Name: "Acme", Email: "ops@acme.test", Stage: models.StageNew}, "US"), nil)

	h := NewLeadHandler(form, detail, env.render)
	env.router.POST("/dashboard/leads/new", h.Create)
	env.router.GET("/dashboard/leads/:id", h.Show)

	w := env.do(http.MethodPost, "/dashboard/leads/new", url.Values{
		"name":  {"Acme"},
		"email": {"ops@acme.test"},
		"stage": {"new"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/leads/42", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/dashboard/leads/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lead created successfully")

	// Notices are delivered once.
	w = env.do(http.MethodGet, "/dashboard/leads/42", nil)
	assert.NotContains(t, w.Body.String(), "Lead created successfully")
}

func TestLeadHandler_UpdateRejected(t *testing.T) {
	env := newTestEnv(t, testUser)
	form := new(MockLeadForm)
	form.On("Submit", mock.Anything, "42", mock.Anything).
		Return(nil, apierrors.NewAPIError(http.StatusConflict, "Email already exists"))

	h := NewLeadHandler(form, new(MockLeadDetail), env.render)
	env.router.POST("/dashboard/leads/:id/edit", h.Update)

	w := env.do(http.MethodPost, "/dashboard/leads/42/edit", url.Values{
		"name":  {"Acme"},
		"email": {"ops@acme.test"},
		"stage": {"contacted"},
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")
	assert.Contains(t, w.Body.String(), `action="/dashboard/leads/42/edit"`)
}

func TestLeadsHandler_APIListAndFilter(t *testing.T) {
	env := newTestEnv(t, testUser)
	lister := new(MockLister)
	lister.On("List", mock.Anything, mock.Anything).
		Return(pageOf([]models.Lead{{ID: "1", Name: "Acme", Stage: models.StageNew}}, 1, 3, 21), nil)

	h := NewLeadsHandler(cache.NewViewStateCache(lister, 10, time.Minute), new(MockExporter), env.render)
	env.router.GET("/ui/api/leads", h.APIList)
	env.router.POST("/ui/api/leads/filter", h.APIFilter)

	w := env.do(http.MethodGet, "/ui/api/leads", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view services.ListView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Cursor.TotalPages)
	assert.True(t, view.HasNext)

	w = env.doJSON(http.MethodPost, "/ui/api/leads/filter", `{"search":"acme","stage":"new","source":"all"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "acme", view.Filter.Search)
}

func TestLeadsHandler_APIListUnauthorized(t *testing.T) {
	env := newTestEnv(t, testUser)
	lister := new(MockLister)
	lister.On("List", mock.Anything, mock.Anything).Return(nil, apierrors.ErrUnauthorized)

	h := NewLeadsHandler(cache.NewViewStateCache(lister, 10, time.Minute), new(MockExporter), env.render)
	env.router.GET("/ui/api/leads", h.APIList)

	w := env.do(http.MethodGet, "/ui/api/leads", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Session expired"}`, w.Body.String())
}

func TestLeadsHandler_APIListFailure(t *testing.T) {
	env := newTestEnv(t, testUser)
	lister := new(MockLister)
	lister.On("List", mock.Anything, mock.Anything).Return(nil, apierrors.NewAPIError(http.StatusInternalServerError, ""))

	h := NewLeadsHandler(cache.NewViewStateCache(lister, 10, time.Minute), new(MockExporter), env.render)
	env.router.GET("/ui/api/leads", h.APIList)

	w := env.do(http.MethodGet, "/ui/api/leads", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var view services.ListView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
	assert.Equal(t, "API request failed", view.Error)
}

func TestLeadsHandler_ListRendersEmptyState(t *testing.T) {
	env := newTestEnv(t, testUser)
	lister := new(MockLister)
	lister.On("List", mock.Anything, mock.Anything).Return(pageOf(nil, 1, 0, 0), nil)

	h := NewLeadsHandler(cache.NewViewStateCache(lister, 10, time.Minute), new(MockExporter), env.render)
	env.router.GET("/dashboard/leads", h.List)

	w := env.do(http.MethodGet, "/dashboard/leads?search=nobody", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No leads found")
	lister.AssertNumberOfCalls(t, "List", 1)
}

func TestLeadsHandler_ExportAttachment(t *testing.T) {
	env := newTestEnv(t, testUser)
	exporter := new(MockExporter)
	exporter.On("Export", mock.Anything, *testUser, models.LeadFilter{}).Return(&services.ExportResult{
		Filename:    "leads-20240305-101500.csv",
		ContentType: "text/csv",
		Data:        []byte("id,name\n1,Acme\n"),
		Rows:        1,
		Truncated:   true,
	}, nil)

	h := NewLeadsHandler(cache.NewViewStateCache(new(MockLister), 10, time.Minute), exporter, env.render)
	env.router.GET("/dashboard/leads/export", h.Export)

	w := env.do(http.MethodGet, "/dashboard/leads/export", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="leads-20240305-101500.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Export-Rows"))
	assert.Equal(t, "true", w.Header().Get("X-Export-Truncated"))
	assert.Equal(t, "id,name\n1,Acme\n", w.Body.String())
}

func TestLeadsHandler_ExportUploaded(t *testing.T) {
	env := newTestEnv(t, testUser)
	exporter := new(MockExporter)
	exporter.On("Export", mock.Anything, mock.Anything, mock.Anything).
		Return(&services.ExportResult{URL: "https://exports.example.com/leads.csv"}, nil)

	h := NewLeadsHandler(cache.NewViewStateCache(new(MockLister), 10, time.Minute), exporter, env.render)
	env.router.GET("/dashboard/leads/export", h.Export)

	w := env.do(http.MethodGet, "/dashboard/leads/export", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://exports.example.com/leads.csv", w.Header().Get("Location"))
}

func TestAnalyticsHandler_DashboardDegradesOnFailure(t *testing.T) {
	env := newTestEnv(t, testUser)
	analytics := new(MockAnalytics)
	analytics.On("Load", mock.Anything).Return(nil, apierrors.NewAPIError(http.StatusInternalServerError, "Analytics unavailable"))
	lister := new(MockLister)
	lister.On("List", mock.Anything, mock.Anything).
		Return(pageOf([]models.Lead{{ID: "1", Name: "Acme", Stage: models.StageNew}}, 1, 1, 1), nil)

	h := NewAnalyticsHandler(analytics, lister, env.render)
	env.router.GET("/dashboard", h.Dashboard)

	w := env.do(http.MethodGet, "/dashboard", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Analytics unavailable")
	assert.Contains(t, body, "Total Leads")
	assert.Contains(t, body, "Acme")
	lister.AssertCalled(t, "List", mock.Anything, repository.ListQuery{Page: 1, Limit: recentLeadsLimit})
}

func TestAnalyticsHandler_Show(t *testing.T) {
	env := newTestEnv(t, testUser)
	analytics := new(MockAnalytics)
	analytics.On("Load", mock.Anything).Return(services.BuildAnalyticsView(models.Analytics{TotalLeads: 4}), nil)

	h := NewAnalyticsHandler(analytics, new(MockLister), env.render)
	env.router.GET("/dashboard/analytics", h.Show)

	w := env.do(http.MethodGet, "/dashboard/analytics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "window.leaddeskCharts")
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		location string
		contains string
	}{
		{name: "success", status: http.StatusSeeOther, location: "/dashboard"},
		{name: "bad credentials", err: apierrors.NewAPIError(http.StatusUnauthorized, "Invalid credentials"), status: http.StatusUnauthorized, contains: "Invalid credentials"},
		{name: "captcha", err: services.ErrCaptchaFailed, status: http.StatusBadRequest, contains: "Captcha verification failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			auth := new(MockAuth)
			auth.On("CaptchaEnabled").Return(false)
			auth.On("Login", mock.Anything, mock.Anything, models.LoginRequest{Email: "ada@example.com", Password: "secret"}, "").
				Return(testUser, tt.err)

			viewState := cache.NewViewStateCache(new(MockLister), 10, time.Minute)
			h := NewAuthHandler(auth, viewState, env.render, "site-key")
			env.router.POST("/login", h.Login)

			w := env.do(http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})

			assert.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
				assert.Contains(t, w.Body.String(), "ada@example.com")
			}
		})
	}
}

func TestAuthHandler_LogoutForgetsViewState(t *testing.T) {
	env := newTestEnv(t, nil)
	auth := new(MockAuth)
	auth.On("CaptchaEnabled").Return(false)
	auth.On("Logout", mock.Anything).Return(nil)

	lister := new(MockLister)
	lister.On("List", mock.Anything, mock.Anything).Return(pageOf(nil, 1, 0, 0), nil)
	viewState := cache.NewViewStateCache(lister, 10, time.Minute)
	viewState.Controller(testVisitor)
	require.Equal(t, 1, viewState.Len())

	h := NewAuthHandler(auth, viewState, env.render, "")
	env.router.POST("/logout", h.Logout)

	w := env.do(http.MethodPost, "/logout", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	assert.Zero(t, viewState.Len())
	auth.AssertExpectations(t)
}

func TestAuthHandler_LandingRedirectsSignedIn(t *testing.T) {
	env := newTestEnv(t, nil)
	auth := new(MockAuth)
	auth.On("CaptchaEnabled").Return(false)
	auth.On("CurrentUser", "valid").Return(testUser, nil)

	h := NewAuthHandler(auth, cache.NewViewStateCache(new(MockLister), 10, time.Minute), env.render, "")
	env.router.GET("/", h.Landing)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: "valid"})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettingsHandler_SaveProfile(t *testing.T) {
	env := newTestEnv(t, testUser)
	current := models.DefaultUserSettings(*testUser)

	settings := new(MockSettings)
	settings.On("Get", mock.Anything, *testUser).Return(&current, nil)
	settings.On("SaveProfile", mock.Anything, *testUser, mock.Anything).Return(nil)

	h := NewSettingsHandler(settings, env.render)
	env.router.GET("/dashboard/settings", h.Show)
	env.router.POST("/dashboard/settings/profile", h.SaveProfile)

	w := env.do(http.MethodPost, "/dashboard/settings/profile", url.Values{
		"name":     {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"timezone": {"GMT+00:00"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/settings", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/dashboard/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), services.ProfileSavedMessage)
}

func TestSettingsHandler_SaveProfileInvalid(t *testing.T) {
	env := newTestEnv(t, testUser)
	current := models.DefaultUserSettings(*testUser)

	settings := new(MockSettings)
	settings.On("Get", mock.Anything, *testUser).Return(&current, nil)

	svc := services.NewSettingsService(nil, "US")
	invalid := svc.SaveProfile(context.Background(), *testUser, models.ProfileSettings{Name: "Ada", Email: "nope", Timezone: "GMT+00:00"})
	require.True(t, apierrors.Is(invalid, apierrors.ErrInvalidInput))
	settings.On("SaveProfile", mock.Anything, *testUser, mock.Anything).Return(invalid)

	h := NewSettingsHandler(settings, env.render)
	env.router.POST("/dashboard/settings/profile", h.SaveProfile)

	w := env.do(http.MethodPost, "/dashboard/settings/profile", url.Values{
		"name":     {"Ada"},
		"email":    {"nope"},
		"timezone": {"GMT+00:00"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format")
	assert.Contains(t, w.Body.String(), `value="nope"`)
}

func TestSettingsHandler_SaveNotifications(t *testing.T) {
	env := newTestEnv(t, testUser)
	settings := new(MockSettings)
	settings.On("SaveNotifications", mock.Anything, *testUser, models.NotificationSettings{Email: true, Push: false, SMS: true}).Return(nil)

	h := NewSettingsHandler(settings, env.render)
	env.router.POST("/dashboard/settings/notifications", h.SaveNotifications)

	w := env.do(http.MethodPost, "/dashboard/settings/notifications", url.Values{
		"email_notifications": {"true"},
		"sms_notifications":   {"true"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	settings.AssertExpectations(t)
	assert.Equal(t, []cache.Flash{{Kind: cache.FlashSuccess, Message: services.NotificationsSavedMessage}}, env.flashes.Pop(testVisitor))
}
