package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Load(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Analytics", mock.Anything).Return(&models.Analytics{
		TotalLeads: 10, ConvertedLeads: 3, LostLeads: 2, AvgDealValue: 1234.5,
	}, nil)

	svc := services.NewAnalyticsService(repo)
	v, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []services.Card{
		{Title: "Total Leads", Value: "10"},
		{Title: "Converted", Value: "3"},
		{Title: "Lost", Value: "2"},
		{Title: "Avg Deal Value", Value: "$1234.50"},
	}, v.Cards)
	assert.Equal(t, []string{"Open", "Converted", "Lost"}, v.Bar.Labels)
	assert.Equal(t, []int{5, 3, 2}, v.Bar.Datasets[0].Data)
	assert.Equal(t, []string{"Open (50.0%)", "Converted (30.0%)", "Lost (20.0%)"}, v.Pie.Labels)
}

func TestAnalyticsService_MissingDataShowsZeroCards(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Analytics", mock.Anything).Return(nil, repository.ErrNoAnalyticsData)

	svc := services.NewAnalyticsService(repo)
	v, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0", v.Cards[0].Value)
	assert.Equal(t, "$0.00", v.Cards[3].Value)
	assert.Equal(t, []string{"Open (0.0%)", "Converted (0.0%)", "Lost (0.0%)"}, v.Pie.Labels)
}

func TestAnalyticsService_UndecodableBodyIsFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Analytics", mock.Anything).Return(nil, fmt.Errorf("decode response: %w", apierrors.ErrMalformedResponse))

	svc := services.NewAnalyticsService(repo)
	v, err := svc.Load(context.Background())
	require.ErrorIs(t, err, apierrors.ErrMalformedResponse)
	assert.Nil(t, v)
}

func TestAnalyticsService_RequestFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Analytics", mock.Anything).Return(nil, apierrors.NewAPIError(500, ""))

	svc := services.NewAnalyticsService(repo)
	_, err := svc.Load(context.Background())
	require.ErrorIs(t, err, apierrors.ErrAPIRequestFailed)
}

func TestBuildAnalyticsView_OpenNeverNegative(t *testing.T) {
	v := services.BuildAnalyticsView(models.Analytics{TotalLeads: 2, ConvertedLeads: 2, LostLeads: 1})
	assert.Equal(t, []int{0, 2, 1}, v.Bar.Datasets[0].Data)
}
