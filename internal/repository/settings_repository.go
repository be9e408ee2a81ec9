package repository

import (
	"context"
	"sync"
	"time"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
)

// SettingsRepository reads and writes user settings, filling in defaults
type SettingsRepository struct {
	source SettingsDataSource
}

func NewSettingsRepository(source SettingsDataSource) *SettingsRepository {
	return &SettingsRepository{source: source}
}

// Get returns stored settings, or defaults derived from user when none exist
func (r *SettingsRepository) Get(ctx context.Context, user models.User) (*models.UserSettings, error) {
	s, err := r.source.GetUserSettings(ctx, user.ID)
	if apierrors.Is(err, apierrors.ErrNotFound) {
		defaults := models.DefaultUserSettings(user)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	if s.Profile.Name == "" {
		s.Profile.Name = user.Name
	}
	if s.Profile.Email == "" {
		s.Profile.Email = user.Email
	}
	if s.Profile.Timezone == "" {
		s.Profile.Timezone = models.DefaultTimezone
	}
	return s, nil
}

func (r *SettingsRepository) SaveProfile(ctx context.Context, userID string, p models.ProfileSettings) error {
	return r.source.UpsertProfile(ctx, userID, p)
}

func (r *SettingsRepository) SaveNotifications(ctx context.Context, userID string, n models.NotificationSettings) error {
	return r.source.UpsertNotifications(ctx, userID, n)
}

// MemorySettings is the settings store used when no database is configured
type MemorySettings struct {
	mu    sync.RWMutex
	items map[string]models.UserSettings
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{items: make(map[string]models.UserSettings)}
}

func (m *MemorySettings) GetUserSettings(_ context.Context, userID string) (*models.UserSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.items[userID]
	if !ok {
		return nil, apierrors.NotFoundError("user settings")
	}
	return &s, nil
}

func (m *MemorySettings) UpsertProfile(_ context.Context, userID string, p models.ProfileSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrDefault(userID)
	s.Profile = p
	s.UpdatedAt = time.Now()
	m.items[userID] = s
	return nil
}

func (m *MemorySettings) UpsertNotifications(_ context.Context, userID string, n models.NotificationSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrDefault(userID)
	s.Notifications = n
	s.UpdatedAt = time.Now()
	m.items[userID] = s
	return nil
}

// getOrDefault mirrors the column defaults of the user_settings table
func (m *MemorySettings) getOrDefault(userID string) models.UserSettings {
	if s, ok := m.items[userID]; ok {
		return s
	}
	return models.DefaultUserSettings(models.User{ID: userID})
}
