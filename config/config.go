package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	LeadsAPI      LeadsAPIConfig
	Session       SessionConfig
	Dashboard     DashboardConfig
	Database      DatabaseConfig
	Storage       StorageConfig
	ReCAPTCHA     ReCAPTCHAConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
	Export        ExportConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type LeadsAPIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// Timeout returns the leads API transport timeout
func (c LeadsAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SessionConfig struct {
	TokenCookieName   string
	VisitorCookieName string
	CookieDomain      string
	CookieSecure      bool
	TokenTTLHours     int
}

type DashboardConfig struct {
	PageSize           int
	PhoneRegion        string
	LoginRatePerMinute int
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

// Enabled reports whether the settings store should use PostgreSQL
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	UsePathStyle    bool
	LinkTTLMinutes  int
}

// Enabled reports whether exports are uploaded to object storage
func (c StorageConfig) Enabled() bool {
	return c.BucketName != ""
}

type ReCAPTCHAConfig struct {
	SecretKey string
	SiteKey   string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	ViewStateTTLMinutes int // Idle lifetime of a visitor's list state
	FlashTTLSeconds     int // Lifetime of an undelivered notice
}

type ExportConfig struct {
	MaxPages int
	PageSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "3000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LEADS_API_URL", "http://localhost:5000/api")
	v.SetDefault("LEADS_API_TIMEOUT_SECONDS", 30)
	v.SetDefault("TOKEN_COOKIE_NAME", "token")
	v.SetDefault("VISITOR_COOKIE_NAME", "leaddesk_visitor")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("LEADS_PAGE_SIZE", 10)
	v.SetDefault("PHONE_DEFAULT_REGION", "US")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("DATABASE_MIN_CONNS", 1)
	v.SetDefault("EXPORT_STORAGE_REGION", "us-east-1")
	v.SetDefault("EXPORT_LINK_TTL_MINUTES", 15)
	v.SetDefault("EXPORT_MAX_PAGES", 50)
	v.SetDefault("EXPORT_PAGE_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "") // OTLP over HTTP, disabled when empty
	v.SetDefault("O11Y_SERVICE_NAME", "leaddesk-dashboard")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "leaddesk")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "leaddesk-dashboard")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("VIEW_STATE_TTL_MINUTES", 30)
	v.SetDefault("FLASH_TTL_SECONDS", 60)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		LeadsAPI: LeadsAPIConfig{
			BaseURL:        strings.TrimRight(v.GetString("LEADS_API_URL"), "/"),
			TimeoutSeconds: v.GetInt("LEADS_API_TIMEOUT_SECONDS"),
		},
		Session: SessionConfig{
			TokenCookieName:   v.GetString("TOKEN_COOKIE_NAME"),
			VisitorCookieName: v.GetString("VISITOR_COOKIE_NAME"),
			CookieDomain:      v.GetString("COOKIE_DOMAIN"),
			CookieSecure:      v.GetBool("COOKIE_SECURE"),
			TokenTTLHours:     v.GetInt("TOKEN_TTL_HOURS"),
		},
		Dashboard: DashboardConfig{
			PageSize:           v.GetInt("LEADS_PAGE_SIZE"),
			PhoneRegion:        v.GetString("PHONE_DEFAULT_REGION"),
			LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DATABASE_MAX_CONNS"),
			MinConns:   v.GetInt32("DATABASE_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("EXPORT_STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("EXPORT_STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("EXPORT_STORAGE_BUCKET"),
			Endpoint:        v.GetString("EXPORT_STORAGE_ENDPOINT"),
			Region:          v.GetString("EXPORT_STORAGE_REGION"),
			UsePathStyle:    v.GetBool("EXPORT_STORAGE_PATH_STYLE"),
			LinkTTLMinutes:  v.GetInt("EXPORT_LINK_TTL_MINUTES"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_SECRET_KEY"),
			SiteKey:   v.GetString("RECAPTCHA_SITE_KEY"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			ViewStateTTLMinutes: v.GetInt("VIEW_STATE_TTL_MINUTES"),
			FlashTTLSeconds:     v.GetInt("FLASH_TTL_SECONDS"),
		},
		Export: ExportConfig{
			MaxPages: v.GetInt("EXPORT_MAX_PAGES"),
			PageSize: v.GetInt("EXPORT_PAGE_SIZE"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	// Leads API
	if c.LeadsAPI.BaseURL == "" {
		return fmt.Errorf("LEADS_API_URL is required")
	}
	if c.LeadsAPI.TimeoutSeconds <= 0 {
		return fmt.Errorf("LEADS_API_TIMEOUT_SECONDS must be positive")
	}

	if c.Session.TokenCookieName == "" {
		return fmt.Errorf("TOKEN_COOKIE_NAME is required")
	}

	if c.Dashboard.PageSize <= 0 {
		return fmt.Errorf("LEADS_PAGE_SIZE must be positive")
	}

	if c.Export.MaxPages <= 0 || c.Export.PageSize <= 0 {
		return fmt.Errorf("EXPORT_MAX_PAGES and EXPORT_PAGE_SIZE must be positive")
	}

	if c.Storage.Enabled() && (c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "") {
		return fmt.Errorf("EXPORT_STORAGE_ACCESS_KEY_ID and EXPORT_STORAGE_SECRET_ACCESS_KEY are required when EXPORT_STORAGE_BUCKET is set")
	}

	if c.ReCAPTCHA.SecretKey != "" && c.ReCAPTCHA.SiteKey == "" {
		return fmt.Errorf("RECAPTCHA_SITE_KEY is required when RECAPTCHA_SECRET_KEY is set")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
