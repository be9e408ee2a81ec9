package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"github.com/leaddesk/leaddesk-dashboard/pkg/tracing"
	"go.uber.org/zap"
)

const (
	DefaultExportPageSize = 100
	DefaultExportMaxPages = 50
	exportContentType     = "text/csv"
)

// ExportColumns is the CSV header row.
var ExportColumns = []string{
	"id", "name", "email", "phone", "company", "stage", "source",
	"value", "notes", "created_at", "updated_at",
}

// ExportResult is a finished export. URL is set when the file was uploaded;
// otherwise Data holds the CSV for streaming.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	URL         string
	Rows        int
	Truncated   bool
}

// ExportService writes every lead matching a filter to CSV
type ExportService struct {
	lister   LeadLister
	storage  ExportStorage
	pageSize int
	maxPages int
	now      func() time.Time
}

// NewExportService creates an export service. storage may be nil, in which
// case exports are returned inline.
func NewExportService(lister LeadLister, storage ExportStorage, pageSize, maxPages int) *ExportService {
	if pageSize <= 0 {
		pageSize = DefaultExportPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultExportMaxPages
	}
	return &ExportService{
		lister:   lister,
		storage:  storage,
		pageSize: pageSize,
		maxPages: maxPages,
		now:      time.Now,
	}
}

// Export pages through the list endpoint until the last page or the page cap.
func (s *ExportService) Export(ctx context.Context, user models.User, filter models.LeadFilter) (*ExportResult, error) {
	ctx, span := tracing.StartSpan(ctx, "leads.export")
	defer span.End()

	destination := "inline"
	if s.storage != nil {
		destination = "storage"
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportColumns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	rows := 0
	truncated := false
	for page := 1; ; page++ {
		if page > s.maxPages {
			truncated = true
			break
		}

		env, err := s.lister.List(ctx, repository.ListQuery{Page: page, Limit: s.pageSize, Filter: filter})
		if err != nil {
			metrics.LeadExports.WithLabelValues(destination, "error").Inc()
			return nil, err
		}

		for i := range env.Leads {
			if err := w.Write(exportRow(&env.Leads[i])); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
			rows++
		}

		if env.Pagination == nil || page >= env.Pagination.TotalPages || len(env.Leads) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	result := &ExportResult{
		Filename:    fmt.Sprintf("leads-%s.csv", s.now().UTC().Format("20060102-150405")),
		ContentType: exportContentType,
		Rows:        rows,
		Truncated:   truncated,
	}

	if s.storage != nil {
		owner := user.ID
		if owner == "" {
			owner = "anonymous"
		}
		key := fmt.Sprintf("exports/%s/%s.csv", owner, uuid.NewString())

		link, err := s.storage.UploadExport(ctx, key, exportContentType, buf.Bytes())
		if err != nil {
			metrics.LeadExports.WithLabelValues(destination, "error").Inc()
			logger.Error("Failed to upload lead export", zap.Error(err), zap.String("key", key))
			return nil, err
		}
		result.URL = link
	} else {
		result.Data = buf.Bytes()
	}

	metrics.LeadExports.WithLabelValues(destination, "success").Inc()
	logger.Info("Lead export finished",
		zap.String("destination", destination),
		zap.Int("rows", rows),
		zap.Bool("truncated", truncated))
	return result, nil
}

func exportRow(l *models.Lead) []string {
	value := ""
	if l.Value != nil {
		value = strconv.FormatFloat(*l.Value, 'f', -1, 64)
	}
	return []string{
		l.ID, l.Name, l.Email, l.Phone, l.Company, string(l.Stage), l.Source,
		value, l.Notes, l.CreatedAt, l.UpdatedAt,
	}
}
