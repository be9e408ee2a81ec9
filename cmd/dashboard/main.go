package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leaddesk/leaddesk-dashboard/config"
	"github.com/leaddesk/leaddesk-dashboard/internal/cache"
	"github.com/leaddesk/leaddesk-dashboard/internal/database/postgres"
	"github.com/leaddesk/leaddesk-dashboard/internal/handlers"
	"github.com/leaddesk/leaddesk-dashboard/internal/middleware"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/pkg/db"
	"github.com/leaddesk/leaddesk-dashboard/pkg/httpclient"
	"github.com/leaddesk/leaddesk-dashboard/pkg/leadsapi"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"github.com/leaddesk/leaddesk-dashboard/pkg/profiling"
	"github.com/leaddesk/leaddesk-dashboard/pkg/recaptcha"
	"github.com/leaddesk/leaddesk-dashboard/pkg/storage"
	"github.com/leaddesk/leaddesk-dashboard/pkg/tracing"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting LeadDesk dashboard",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("leads_api", cfg.LeadsAPI.BaseURL),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Settings{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.AlloyEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Background workers stop when the server shuts down
	background, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	metrics.RecordInfrastructureMetrics(background.Done())

	checks := map[string]handlers.HealthCheck{}

	// Settings store: PostgreSQL when configured, in-memory otherwise
	var settingsSource repository.SettingsDataSource
	if cfg.Database.Enabled() {
		pool, poolErr := db.NewPool(context.Background(), db.PoolConfig{
			URL:        cfg.Database.URL,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
			CACertPath: cfg.Database.CACertPath,
		})
		if poolErr != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(poolErr))
		}
		pgClient := postgres.NewClient(pool)
		defer pgClient.Close()

		settingsSource = pgClient
		checks["database"] = pgClient.Ping
	} else {
		logger.Warn("DATABASE_URL not set: user settings are kept in memory")
		settingsSource = repository.NewMemorySettings()
	}

	// Export storage is optional; without it exports are streamed
	var exportStorage services.ExportStorage
	if cfg.Storage.Enabled() {
		storageClient, storageErr := storage.NewClient(storage.Config{
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.BucketName,
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			UsePathStyle:    cfg.Storage.UsePathStyle,
			LinkTTL:         time.Duration(cfg.Storage.LinkTTLMinutes) * time.Minute,
		})
		if storageErr != nil {
			logger.Fatal("Failed to initialize export storage", zap.Error(storageErr))
		}
		exportStorage = storageClient
	}

	// Leads API client; the session is bound per request
	httpClient := httpclient.NewStandardClient(cfg.LeadsAPI.Timeout())
	api := leadsapi.New(leadsapi.Config{
		BaseURL:    cfg.LeadsAPI.BaseURL,
		HTTPClient: httpClient,
	})

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(api)
	authRepo := repository.NewAuthRepository(api)
	settingsRepo := repository.NewSettingsRepository(settingsSource)

	// Initialize services
	captcha := recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient)
	authService := services.NewAuthService(authRepo, captcha)
	formService := services.NewLeadFormService(leadRepo, cfg.Dashboard.PhoneRegion)
	detailService := services.NewLeadDetailService(leadRepo, cfg.Dashboard.PhoneRegion)
	analyticsService := services.NewAnalyticsService(leadRepo)
	exportService := services.NewExportService(leadRepo, exportStorage, cfg.Export.PageSize, cfg.Export.MaxPages)
	settingsService := services.NewSettingsService(settingsRepo, cfg.Dashboard.PhoneRegion)

	// Per-visitor state
	viewState := cache.NewViewStateCache(leadRepo, cfg.Dashboard.PageSize, time.Duration(cfg.Cache.ViewStateTTLMinutes)*time.Minute)
	flashes := cache.NewFlashCache(time.Duration(cfg.Cache.FlashTTLSeconds) * time.Second)
	render := handlers.NewRenderer(flashes)

	// Initialize handlers
	routes := routeHandlers{
		auth:      handlers.NewAuthHandler(authService, viewState, render, cfg.ReCAPTCHA.SiteKey),
		leads:     handlers.NewLeadsHandler(viewState, exportService, render),
		lead:      handlers.NewLeadHandler(formService, detailService, render),
		analytics: handlers.NewAnalyticsHandler(analyticsService, leadRepo, render),
		settings:  handlers.NewSettingsHandler(settingsService, render),
		health:    handlers.NewHealthHandler(checks),
	}

	// SECURITY: throttle credential submissions per IP
	loginRate, loginBurst := middleware.PerMinute(cfg.Dashboard.LoginRatePerMinute)
	loginLimiter := middleware.NewRateLimiter(background, loginRate, loginBurst)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router, err := newRouter(cfg, routes, loginLimiter)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // exports page through the whole result set
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
