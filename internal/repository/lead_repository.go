package repository

import (
	"context"
	"fmt"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/leadsapi"
)

// ListQuery is a single list page request.
type ListQuery struct {
	Page   int
	Limit  int
	Filter models.LeadFilter
}

// Params renders {page, search, limit, stage?, source?} in that order.
func (q ListQuery) Params() leadsapi.Params {
	return leadsapi.Params{}.
		Add("page", q.Page).
		Add("search", q.Filter.Search).
		Add("limit", q.Limit).
		Add("stage", q.Filter.Stage.Param()).
		Add("source", q.Filter.Source.Param())
}

// LeadRepository maps lead operations onto the remote API endpoints
type LeadRepository struct {
	api API
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(api API) *LeadRepository {
	return &LeadRepository{api: api}
}

// List fetches one page of leads
func (r *LeadRepository) List(ctx context.Context, q ListQuery) (*models.LeadEnvelope, error) {
	var env models.LeadEnvelope
	if err := r.api.Get(ctx, "/leads", q.Params(), &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Get fetches a single lead. A response without data is ErrNotFound.
func (r *LeadRepository) Get(ctx context.Context, id string) (*models.Lead, error) {
	var env models.LeadEnvelope
	if err := r.api.Get(ctx, leadsapi.LeadPath(id), nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, apierrors.NotFoundError("lead " + id)
	}
	return env.Data, nil
}

// Create posts a new lead
func (r *LeadRepository) Create(ctx context.Context, p models.LeadPayload) (*models.LeadEnvelope, error) {
	var env models.LeadEnvelope
	if err := r.api.Post(ctx, "/leads", p, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Update replaces the editable fields of a lead
func (r *LeadRepository) Update(ctx context.Context, id string, p models.LeadPayload) (*models.LeadEnvelope, error) {
	var env models.LeadEnvelope
	if err := r.api.Put(ctx, leadsapi.LeadPath(id), p, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Delete removes a lead
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	var env models.LeadEnvelope
	if err := r.api.Delete(ctx, leadsapi.LeadPath(id), &env); err != nil {
		return err
	}
	if !env.Success && env.Message != "" {
		return apierrors.NewAPIError(0, env.Message)
	}
	return nil
}

// ErrNoAnalyticsData is returned for a successful analytics response that carries no data object.
var ErrNoAnalyticsData = fmt.Errorf("analytics response without data: %w", apierrors.ErrMalformedResponse)

// Analytics fetches the aggregate snapshot
func (r *LeadRepository) Analytics(ctx context.Context) (*models.Analytics, error) {
	var env models.AnalyticsEnvelope
	if err := r.api.Get(ctx, "/leads/analytics", nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, ErrNoAnalyticsData
	}
	return env.Data, nil
}
