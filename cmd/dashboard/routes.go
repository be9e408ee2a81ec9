package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leaddesk/leaddesk-dashboard/config"
	"github.com/leaddesk/leaddesk-dashboard/internal/handlers"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// routeHandlers groups everything the router dispatches to
type routeHandlers struct {
	auth      *handlers.AuthHandler
	leads     *handlers.LeadsHandler
	lead      *handlers.LeadHandler
	analytics *handlers.AnalyticsHandler
	settings  *handlers.SettingsHandler
	health    *handlers.HealthHandler
}

func newRouter(cfg *config.Config, h routeHandlers, loginLimiter *middleware.RateLimiter) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	router.StaticFS("/static", http.FS(views.Static()))

	// Operational endpoints
	api := router.Group("/api")
	api.GET("/healthcheck", h.health.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	site := router.Group("/")
	site.Use(
		middleware.VisitorMiddleware(cfg.Session.VisitorCookieName, cfg.Session.CookieDomain, cfg.Session.CookieSecure),
		middleware.BindSession(middleware.CookieConfigFrom(cfg.Session)),
		middleware.BodySizeLimitMiddleware(middleware.DefaultMaxBodySize),
	)
	registerAuthRoutes(site, h.auth, loginLimiter)

	dashboard := site.Group("/dashboard", middleware.RequireAuth(time.Now))
	registerDashboardRoutes(dashboard, h)

	// JSON view API for the list page scripts
	ui := site.Group("/ui/api")
	ui.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for the session cookie
		MaxAge:           12 * time.Hour,
	}))
	ui.Use(middleware.RequireAuth(time.Now))
	ui.GET("/leads", h.leads.APIList)
	ui.POST("/leads/filter", h.leads.APIFilter)

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", views.Page{Title: "Page not found", Data: "The page you requested does not exist."})
	})

	return router, nil
}

func registerAuthRoutes(group *gin.RouterGroup, auth *handlers.AuthHandler, limiter *middleware.RateLimiter) {
	group.GET("/", auth.Landing)
	group.GET("/login", auth.LoginPage)
	group.POST("/login", limiter.Middleware(), auth.Login)
	group.GET("/signup", auth.SignupPage)
	group.POST("/signup", limiter.Middleware(), auth.Signup)
	group.POST("/logout", auth.Logout)
}

func registerDashboardRoutes(group *gin.RouterGroup, h routeHandlers) {
	group.GET("", h.analytics.Dashboard)
	group.GET("/analytics", h.analytics.Show)

	group.GET("/leads", h.leads.List)
	group.GET("/leads/page/:page", h.leads.Page)
	group.GET("/leads/export", h.leads.Export)
	group.GET("/leads/new", h.lead.New)
	group.POST("/leads/new", h.lead.Create)
	group.GET("/leads/:id", h.lead.Show)
	group.GET("/leads/:id/edit", h.lead.Edit)
	group.POST("/leads/:id/edit", h.lead.Update)

	group.GET("/settings", h.settings.Show)
	group.POST("/settings/profile", h.settings.SaveProfile)
	group.POST("/settings/notifications", h.settings.SaveNotifications)
}
