package repository

import (
	"context"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/pkg/leadsapi"
)

// API is the subset of the leads API client used by repositories.
type API interface {
	Get(ctx context.Context, path string, params leadsapi.Params, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	AuthPost(ctx context.Context, path string, body, out any) error
}

// SettingsDataSource defines storage for user settings
// This allows switching between PostgreSQL and in-memory implementations
type SettingsDataSource interface {
	// GetUserSettings returns ErrNotFound for users without saved settings
	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)

	UpsertProfile(ctx context.Context, userID string, p models.ProfileSettings) error

	UpsertNotifications(ctx context.Context, userID string, n models.NotificationSettings) error
}
