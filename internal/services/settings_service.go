package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// Settings notices
const (
	ProfileSavedMessage       = "Profile updated successfully!"
	NotificationsSavedMessage = "Notification preferences updated!"
)

// SettingsService reads and saves per-user preferences
type SettingsService struct {
	repo     SettingsRepository
	validate *validator.Validate
}

func NewSettingsService(repo SettingsRepository, phoneRegion string) *SettingsService {
	return &SettingsService{
		repo:     repo,
		validate: models.NewValidator(phoneRegion),
	}
}

func (s *SettingsService) Get(ctx context.Context, user models.User) (*models.UserSettings, error) {
	settings, err := s.repo.Get(ctx, user)
	if err != nil {
		logger.Error("Failed to load user settings", zap.Error(err), zap.String("user_id", user.ID))
		return nil, err
	}
	return settings, nil
}

// SaveProfile validates and stores the profile section
func (s *SettingsService) SaveProfile(ctx context.Context, user models.User, p models.ProfileSettings) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", apierrors.ErrInvalidInput, err)
	}
	if err := s.repo.SaveProfile(ctx, user.ID, p); err != nil {
		logger.Error("Failed to save profile", zap.Error(err), zap.String("user_id", user.ID))
		return err
	}
	return nil
}

// SaveNotifications stores the notification preferences
func (s *SettingsService) SaveNotifications(ctx context.Context, user models.User, n models.NotificationSettings) error {
	if err := s.repo.SaveNotifications(ctx, user.ID, n); err != nil {
		logger.Error("Failed to save notification preferences", zap.Error(err), zap.String("user_id", user.ID))
		return err
	}
	return nil
}
