package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

// SubmitResult describes a successful create or update.
type SubmitResult struct {
	// LeadID is empty when a create response carried no lead.
	LeadID  string
	Message string
}

// LeadFormService hydrates and submits the lead create/edit form
type LeadFormService struct {
	repo     LeadRepository
	validate *validator.Validate
}

// NewLeadFormService creates a new lead form service instance
func NewLeadFormService(repo LeadRepository, phoneRegion string) *LeadFormService {
	return &LeadFormService{
		repo:     repo,
		validate: models.NewValidator(phoneRegion),
	}
}

// Load returns the empty create draft for id == "", otherwise a draft
// hydrated from the stored lead.
func (s *LeadFormService) Load(ctx context.Context, id string) (models.LeadDraft, error) {
	if id == "" {
		return models.NewLeadDraft(), nil
	}

	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.LeadDraft{}, err
	}
	return models.DraftFromLead(lead), nil
}

// Submit validates the draft and creates (id == "") or updates the lead.
// Validation failures wrap ErrInvalidInput together with the
// validator.ValidationErrors.
func (s *LeadFormService) Submit(ctx context.Context, id string, draft models.LeadDraft) (*SubmitResult, error) {
	mode := "update"
	if id == "" {
		mode = "create"
	}

	if err := s.validate.Struct(draft); err != nil {
		if mode == "update" {
			err = s.dropUnchangedPhone(ctx, id, draft, err)
		}
		if err != nil {
			metrics.LeadFormSubmissions.WithLabelValues(mode, "invalid").Inc()
			return nil, fmt.Errorf("%w: %w", apierrors.ErrInvalidInput, err)
		}
	}

	payload, err := draft.Payload()
	if err != nil {
		metrics.LeadFormSubmissions.WithLabelValues(mode, "invalid").Inc()
		return nil, apierrors.InvalidInputError("value", err.Error())
	}

	var env *models.LeadEnvelope
	if mode == "create" {
		env, err = s.repo.Create(ctx, payload)
	} else {
		env, err = s.repo.Update(ctx, id, payload)
	}
	if err != nil {
		metrics.LeadFormSubmissions.WithLabelValues(mode, "error").Inc()
		if !apierrors.Is(err, apierrors.ErrUnauthorized) {
			logger.Error("Failed to submit lead", zap.Error(err), zap.String("mode", mode), zap.String("lead_id", id))
		}
		return nil, err
	}

	if !env.Success {
		metrics.LeadFormSubmissions.WithLabelValues(mode, "rejected").Inc()
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("Failed to %s lead", mode)
		}
		logger.Warn("Lead submission rejected", zap.String("mode", mode), zap.String("message", message))
		return nil, apierrors.NewAPIError(0, message)
	}

	result := &SubmitResult{LeadID: id, Message: "Lead updated successfully"}
	if mode == "create" {
		result.Message = "Lead created successfully"
		result.LeadID = ""
		if env.Data != nil {
			result.LeadID = env.Data.ID
		}
	}

	metrics.LeadFormSubmissions.WithLabelValues(mode, "success").Inc()
	logger.Info("Lead submitted", zap.String("mode", mode), zap.String("lead_id", result.LeadID))
	return result, nil
}

// dropUnchangedPhone removes the phone error when the submitted phone equals
// the stored one, so a lead saved with a number the parser rejects can still
// be edited without retyping it. Returns nil when no other errors remain.
func (s *LeadFormService) dropUnchangedPhone(ctx context.Context, id string, draft models.LeadDraft, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	rest := make(validator.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Field() != "Phone" {
			rest = append(rest, fe)
		}
	}
	if len(rest) == len(verrs) {
		return err
	}

	lead, getErr := s.repo.Get(ctx, id)
	if getErr != nil {
		logger.Warn("Could not load stored lead for phone comparison", zap.Error(getErr), zap.String("lead_id", id))
		return err
	}
	if models.DraftFromLead(lead).Phone != draft.Phone {
		return err
	}

	if len(rest) == 0 {
		return nil
	}
	return rest
}
