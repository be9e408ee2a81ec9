package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/httpclient"
	"github.com/leaddesk/leaddesk-dashboard/pkg/leadsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *leadsapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return leadsapi.New(leadsapi.Config{
		BaseURL:    server.URL + "/api",
		HTTPClient: httpclient.NewStandardClient(5 * time.Second),
		Session:    session.NewMemoryStore("tok"),
	})
}

func TestListQuery_Params(t *testing.T) {
	q := ListQuery{Page: 3, Limit: 10, Filter: models.ParseLeadFilter("", "all", "all")}
	assert.Equal(t, "page=3&search=&limit=10", q.Params().Encode())

	q.Filter = models.ParseLeadFilter("jane doe", "new", "social_media")
	assert.Equal(t, "page=3&search=jane+doe&limit=10&stage=new&source=social_media", q.Params().Encode())
}

func TestLeadRepository_List(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leads", r.URL.Path)
		assert.Equal(t, "page=1&search=&limit=10&stage=lost", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"success":true,"leads":[{"_id":"a","name":"A","email":"a@x.co","stage":"lost"}],"pagination":{"page":1,"totalPages":4,"totalItems":31}}`))
	})

	env, err := NewLeadRepository(api).List(context.Background(), ListQuery{
		Page:   1,
		Limit:  10,
		Filter: models.LeadFilter{Stage: models.StageEquals(models.StageLost)},
	})
	require.NoError(t, err)

	require.Len(t, env.Leads, 1)
	assert.Equal(t, "a", env.Leads[0].ID)
	assert.Equal(t, &models.Pagination{Page: 1, TotalPages: 4, TotalItems: 31}, env.Pagination)
}

func TestLeadRepository_Get(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/leads/found":
			_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"found","name":"F","email":"f@x.co","stage":"new","value":1200}}`))
		default:
			_, _ = w.Write([]byte(`{"success":true}`))
		}
	})
	repo := NewLeadRepository(api)

	lead, err := repo.Get(context.Background(), "found")
	require.NoError(t, err)
	assert.Equal(t, "F", lead.Name)
	require.NotNil(t, lead.Value)
	assert.Equal(t, 1200.0, *lead.Value)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestLeadRepository_CreateUpdateDelete(t *testing.T) {
	var calls []string
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"n1","name":"N","email":"n@x.co","stage":"new"}}`))
		}
	})
	repo := NewLeadRepository(api)
	payload := models.LeadPayload{Name: "N", Email: "n@x.co", Stage: models.StageNew}

	created, err := repo.Create(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "n1", created.Data.ID)

	_, err = repo.Update(context.Background(), "n1", payload)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), "n1"))

	assert.Equal(t, []string{"POST /api/leads", "PUT /api/leads/n1", "DELETE /api/leads/n1"}, calls)
}

func TestLeadRepository_Analytics(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"totalLeads":40,"convertedLeads":10,"lostLeads":5,"avgDealValue":1234.5}}`))
	})

	a, err := NewLeadRepository(api).Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Analytics{TotalLeads: 40, ConvertedLeads: 10, LostLeads: 5, AvgDealValue: 1234.5}, *a)
}

func TestLeadRepository_AnalyticsWithoutData(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	_, err := NewLeadRepository(api).Analytics(context.Background())
	assert.ErrorIs(t, err, ErrNoAnalyticsData)
	assert.ErrorIs(t, err, apierrors.ErrMalformedResponse)
}

func TestLeadRepository_AnalyticsNotJSON(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	})

	_, err := NewLeadRepository(api).Analytics(context.Background())
	assert.ErrorIs(t, err, apierrors.ErrMalformedResponse)
	assert.NotErrorIs(t, err, ErrNoAnalyticsData)
}

func TestAuthRepository_Login(t *testing.T) {
	api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"token":"jwt","user":{"id":"u1","name":"Jane","email":"jane@x.co"}}`))
	})

	resp, err := NewAuthRepository(api).Login(context.Background(), models.LoginRequest{Email: "jane@x.co", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}
