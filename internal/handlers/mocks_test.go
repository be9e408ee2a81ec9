package handlers

import (
	"context"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
	"github.com/stretchr/testify/mock"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) List(ctx context.Context, q repository.ListQuery) (*models.LeadEnvelope, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeadEnvelope), args.Error(1)
}

type MockLeadForm struct {
	mock.Mock
}

func (m *MockLeadForm) Load(ctx context.Context, id string) (models.LeadDraft, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.LeadDraft), args.Error(1)
}

func (m *MockLeadForm) Submit(ctx context.Context, id string, draft models.LeadDraft) (*services.SubmitResult, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmitResult), args.Error(1)
}

type MockLeadDetail struct {
	mock.Mock
}

func (m *MockLeadDetail) Detail(ctx context.Context, id string) (*services.LeadDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LeadDetail), args.Error(1)
}

type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) Load(ctx context.Context) (*services.AnalyticsView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalyticsView), args.Error(1)
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Login(ctx context.Context, store session.Store, req models.LoginRequest, captcha string) (*models.User, error) {
	args := m.Called(ctx, store, req, captcha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuth) Signup(ctx context.Context, store session.Store, req models.SignupRequest, captcha string) (*models.User, error) {
	args := m.Called(ctx, store, req, captcha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuth) Logout(store session.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func (m *MockAuth) CurrentUser(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuth) CaptchaEnabled() bool {
	return m.Called().Bool(0)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, user models.User, filter models.LeadFilter) (*services.ExportResult, error) {
	args := m.Called(ctx, user, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) Get(ctx context.Context, user models.User) (*models.UserSettings, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}

func (m *MockSettings) SaveProfile(ctx context.Context, user models.User, p models.ProfileSettings) error {
	return m.Called(ctx, user, p).Error(0)
}

func (m *MockSettings) SaveNotifications(ctx context.Context, user models.User, n models.NotificationSettings) error {
	return m.Called(ctx, user, n).Error(0)
}
