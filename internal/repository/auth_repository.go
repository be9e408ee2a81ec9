package repository

import (
	"context"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
)

// AuthRepository calls the unauthenticated auth endpoints
type AuthRepository struct {
	api API
}

func NewAuthRepository(api API) *AuthRepository {
	return &AuthRepository{api: api}
}

func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := r.api.AuthPost(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *AuthRepository) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := r.api.AuthPost(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
