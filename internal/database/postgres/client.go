package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
)

// Client is the settings store backed by PostgreSQL.
// It implements repository.SettingsDataSource.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient wraps a pool created by pkg/db
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

func (c *Client) Close() {
	if c.pool == nil {
		return
	}
	c.pool.Close()
	logger.Info("Settings store connection pool closed")
}

// Ping is the settings store health check.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.pool.Ping(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	recordMetrics("ping", status, metrics.MeasureDuration(start))
	return err
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestDuration.WithLabelValues("settings_"+operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues("settings_"+operation, status).Inc()
}
