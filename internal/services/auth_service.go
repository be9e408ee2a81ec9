package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/jwt"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

// ErrCaptchaFailed is returned when the reCAPTCHA check rejects a login or signup.
var ErrCaptchaFailed = errors.New("captcha verification failed")

// AuthService handles login, signup and logout against the leads API
type AuthService struct {
	repo     AuthRepository
	captcha  CaptchaVerifier
	validate *validator.Validate
	now      func() time.Time
}

// NewAuthService creates a new auth service. captcha may be nil.
func NewAuthService(repo AuthRepository, captcha CaptchaVerifier) *AuthService {
	return &AuthService{
		repo:     repo,
		captcha:  captcha,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// CaptchaEnabled reports whether login and signup require a reCAPTCHA token
func (s *AuthService) CaptchaEnabled() bool {
	return s.captcha != nil && s.captcha.Enabled()
}

// Login authenticates and stores the bearer token in store
func (s *AuthService) Login(ctx context.Context, store session.Store, req models.LoginRequest, captcha string) (*models.User, error) {
	if err := s.precheck(ctx, "login", req, captcha); err != nil {
		return nil, err
	}

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		metrics.Logins.WithLabelValues("login", "error").Inc()
		logger.Warn("Login failed", zap.Error(err))
		return nil, err
	}
	return s.complete(store, "login", resp, "Login failed")
}

// Signup creates an account and stores the bearer token in store
func (s *AuthService) Signup(ctx context.Context, store session.Store, req models.SignupRequest, captcha string) (*models.User, error) {
	if err := s.precheck(ctx, "signup", req, captcha); err != nil {
		return nil, err
	}

	resp, err := s.repo.Signup(ctx, req)
	if err != nil {
		metrics.Logins.WithLabelValues("signup", "error").Inc()
		logger.Warn("Signup failed", zap.Error(err))
		return nil, err
	}
	return s.complete(store, "signup", resp, "Signup failed")
}

// Logout removes the bearer token
func (s *AuthService) Logout(store session.Store) error {
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser decodes the user from a stored token. Expired or undecodable
// tokens are rejected.
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	claims, err := jwt.Validate(token, s.now())
	if err != nil {
		return nil, err
	}
	return &models.User{ID: claims.ID(), Name: claims.Name, Email: claims.Email}, nil
}

func (s *AuthService) precheck(ctx context.Context, kind string, req any, captcha string) error {
	if err := s.validate.Struct(req); err != nil {
		metrics.Logins.WithLabelValues(kind, "invalid").Inc()
		return fmt.Errorf("%w: %w", apierrors.ErrInvalidInput, err)
	}

	if s.CaptchaEnabled() {
		if err := s.captcha.Verify(ctx, captcha); err != nil {
			metrics.Logins.WithLabelValues(kind, "captcha_failed").Inc()
			logger.Warn("ReCAPTCHA verification failed", zap.String("kind", kind), zap.Error(err))
			return fmt.Errorf("%w: %w", ErrCaptchaFailed, err)
		}
	}
	return nil
}

func (s *AuthService) complete(store session.Store, kind string, resp *models.AuthResponse, fallback string) (*models.User, error) {
	if !resp.Success || resp.Token == "" {
		metrics.Logins.WithLabelValues(kind, "rejected").Inc()
		message := resp.Message
		if message == "" {
			message = fallback
		}
		return nil, apierrors.NewAPIError(0, message)
	}

	if err := store.SetToken(resp.Token); err != nil {
		metrics.Logins.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	user := resp.User
	if user == nil {
		// fall back to the token claims
		if u, err := s.CurrentUser(resp.Token); err == nil {
			user = u
		} else {
			user = &models.User{}
		}
	}

	metrics.Logins.WithLabelValues(kind, "success").Inc()
	logger.Info("User authenticated", zap.String("kind", kind), zap.String("user_id", user.ID))
	return user, nil
}
