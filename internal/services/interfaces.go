package services

import (
	"context"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
)

// LeadLister fetches a page of leads
type LeadLister interface {
	List(ctx context.Context, q repository.ListQuery) (*models.LeadEnvelope, error)
}

// LeadRepository is the lead data access used by the services
type LeadRepository interface {
	LeadLister
	Get(ctx context.Context, id string) (*models.Lead, error)
	Create(ctx context.Context, p models.LeadPayload) (*models.LeadEnvelope, error)
	Update(ctx context.Context, id string, p models.LeadPayload) (*models.LeadEnvelope, error)
	Delete(ctx context.Context, id string) error
	Analytics(ctx context.Context) (*models.Analytics, error)
}

// AuthRepository calls the unauthenticated auth endpoints
type AuthRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
}

// SettingsRepository stores per-user preferences
type SettingsRepository interface {
	Get(ctx context.Context, user models.User) (*models.UserSettings, error)
	SaveProfile(ctx context.Context, userID string, p models.ProfileSettings) error
	SaveNotifications(ctx context.Context, userID string, n models.NotificationSettings) error
}

// ExportStorage uploads export files and returns a download link
type ExportStorage interface {
	UploadExport(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// CaptchaVerifier checks a reCAPTCHA response token
type CaptchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token string) error
}

// LeadFormServiceInterface defines the create/edit form operations
type LeadFormServiceInterface interface {
	Load(ctx context.Context, id string) (models.LeadDraft, error)
	Submit(ctx context.Context, id string, draft models.LeadDraft) (*SubmitResult, error)
}

// LeadDetailServiceInterface defines the detail view operations
type LeadDetailServiceInterface interface {
	Detail(ctx context.Context, id string) (*LeadDetail, error)
}

// AnalyticsServiceInterface defines the analytics view operations
type AnalyticsServiceInterface interface {
	Load(ctx context.Context) (*AnalyticsView, error)
}

// AuthServiceInterface defines login, signup and logout
type AuthServiceInterface interface {
	Login(ctx context.Context, store session.Store, req models.LoginRequest, captcha string) (*models.User, error)
	Signup(ctx context.Context, store session.Store, req models.SignupRequest, captcha string) (*models.User, error)
	Logout(store session.Store) error
	CurrentUser(token string) (*models.User, error)
	CaptchaEnabled() bool
}

// ExportServiceInterface defines the CSV export
type ExportServiceInterface interface {
	Export(ctx context.Context, user models.User, filter models.LeadFilter) (*ExportResult, error)
}

// SettingsServiceInterface defines the settings view operations
type SettingsServiceInterface interface {
	Get(ctx context.Context, user models.User) (*models.UserSettings, error)
	SaveProfile(ctx context.Context, user models.User, p models.ProfileSettings) error
	SaveNotifications(ctx context.Context, user models.User, n models.NotificationSettings) error
}
