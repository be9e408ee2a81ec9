package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

// GetUserSettings loads the settings row of a user.
// Returns ErrNotFound when the user has never saved settings.
func (c *Client) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	start := time.Now()
	operation := "getUserSettings"

	query := `
		SELECT user_id, name, email, company, timezone,
			notify_email, notify_sms, notify_push, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var s models.UserSettings
	err := c.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.Profile.Name,
		&s.Profile.Email,
		&s.Profile.Company,
		&s.Profile.Timezone,
		&s.Notifications.Email,
		&s.Notifications.SMS,
		&s.Notifications.Push,
		&s.UpdatedAt,
	)

	duration := metrics.MeasureDuration(start)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordMetrics(operation, "not_found", duration)
			return nil, apierrors.NotFoundError("user settings")
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query user settings: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &s, nil
}

// UpsertProfile writes the profile columns, creating the row if needed.
func (c *Client) UpsertProfile(ctx context.Context, userID string, p models.ProfileSettings) error {
	query := `
		INSERT INTO user_settings (user_id, name, email, company, timezone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			company = EXCLUDED.company,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
	`
	return c.exec(ctx, "upsertProfile", query, userID, p.Name, p.Email, p.Company, p.Timezone)
}

// UpsertNotifications writes the notification columns, creating the row if needed.
func (c *Client) UpsertNotifications(ctx context.Context, userID string, n models.NotificationSettings) error {
	query := `
		INSERT INTO user_settings (user_id, notify_email, notify_sms, notify_push)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			notify_email = EXCLUDED.notify_email,
			notify_sms = EXCLUDED.notify_sms,
			notify_push = EXCLUDED.notify_push,
			updated_at = NOW()
	`
	return c.exec(ctx, "upsertNotifications", query, userID, n.Email, n.SMS, n.Push)
}

func (c *Client) exec(ctx context.Context, operation, query string, args ...any) error {
	start := time.Now()

	_, err := c.pool.Exec(ctx, query, args...)

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to %s: %w", operation, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration)
	return nil
}
