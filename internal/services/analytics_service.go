package services

import (
	"context"
	"fmt"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// Outcome bucket colors, in Open, Converted, Lost order.
var outcomeColors = []string{"#3b82f6", "#22c55e", "#ef4444"}

// Card is one counter on the analytics view.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ChartDataset is a Chart.js dataset.
type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
}

// ChartData is the data object handed to a Chart.js chart.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// AnalyticsView is the analytics page model.
type AnalyticsView struct {
	Snapshot models.Analytics `json:"snapshot"`
	Cards    []Card           `json:"cards"`
	Bar      ChartData        `json:"bar"`
	Pie      ChartData        `json:"pie"`
}

// AnalyticsService builds the analytics view from the aggregate snapshot
type AnalyticsService struct {
	repo LeadRepository
}

func NewAnalyticsService(repo LeadRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Load fetches the snapshot. A response without data renders zero cards.
func (s *AnalyticsService) Load(ctx context.Context) (*AnalyticsView, error) {
	snapshot, err := s.repo.Analytics(ctx)
	if apierrors.Is(err, repository.ErrNoAnalyticsData) {
		logger.Error("Analytics response without data, showing zero counters", zap.Error(err))
		return BuildAnalyticsView(models.Analytics{}), nil
	}
	if err != nil {
		if !apierrors.Is(err, apierrors.ErrUnauthorized) {
			logger.Error("Failed to fetch analytics", zap.Error(err))
		}
		return nil, err
	}
	return BuildAnalyticsView(*snapshot), nil
}

// BuildAnalyticsView derives cards and chart datasets from a snapshot.
func BuildAnalyticsView(a models.Analytics) *AnalyticsView {
	counts := []int{a.OpenLeads(), a.ConvertedLeads, a.LostLeads}
	labels := []string{"Open", "Converted", "Lost"}

	pieLabels := make([]string, len(labels))
	total := 0
	for _, c := range counts {
		total += c
	}
	for i, l := range labels {
		pieLabels[i] = fmt.Sprintf("%s (%s)", l, percent(counts[i], total))
	}

	return &AnalyticsView{
		Snapshot: a,
		Cards: []Card{
			{Title: "Total Leads", Value: fmt.Sprint(a.TotalLeads)},
			{Title: "Converted", Value: fmt.Sprint(a.ConvertedLeads)},
			{Title: "Lost", Value: fmt.Sprint(a.LostLeads)},
			{Title: "Avg Deal Value", Value: fmt.Sprintf("$%.2f", a.AvgDealValue)},
		},
		Bar: ChartData{
			Labels:   labels,
			Datasets: []ChartDataset{{Label: "Leads", Data: counts, BackgroundColor: outcomeColors}},
		},
		Pie: ChartData{
			Labels:   pieLabels,
			Datasets: []ChartDataset{{Label: "Leads", Data: counts, BackgroundColor: outcomeColors}},
		},
	}
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
