package leadsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu     sync.Mutex
	token  string
	clears int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.clears++
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, session *fakeSession, onUnauthorized UnauthorizedFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		BaseURL:        server.URL + "/api",
		HTTPClient:     httpclient.NewStandardClient(5 * time.Second),
		Session:        session,
		OnUnauthorized: onUnauthorized,
	})
}

func TestClient_Get_SendsBearerAndOrderedQuery(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	session := &fakeSession{token: "abc"}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}, session, nil)

	var stage *string
	params := Params{}.
		Add("page", 2).
		Add("search", "acme corp").
		Add("limit", 10).
		Add("stage", stage).
		Add("source", nil)

	var out envelope
	err := client.Get(context.Background(), "/leads", params, &out)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "/api/leads", gotPath)
	assert.Equal(t, "page=2&search=acme+corp&limit=10", gotQuery)
}

func TestClient_Get_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"success":true}`))
	}, &fakeSession{}, nil)

	err := client.Get(context.Background(), "/leads", nil, &envelope{})
	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func TestClient_Unauthorized_ClearsSessionAndNavigates(t *testing.T) {
	session := &fakeSession{token: "expired"}
	navigations := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("<html>login required</html>"))
	}, session, func(context.Context) { navigations++ })

	err := client.Get(context.Background(), "/leads/analytics", nil, &envelope{})

	require.ErrorIs(t, err, apierrors.ErrUnauthorized)
	assert.Equal(t, "", session.Token())
	assert.Equal(t, 1, session.clears)
	assert.Equal(t, 1, navigations)
}

func TestClient_AuthPost_UnauthorizedKeepsSession(t *testing.T) {
	session := &fakeSession{token: "still-valid"}
	var hadAuth bool
	navigations := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	}, session, func(context.Context) { navigations++ })

	err := client.AuthPost(context.Background(), "/auth/login", map[string]string{"email": "a@b.co"}, &envelope{})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, hadAuth)
	assert.Equal(t, "still-valid", session.Token())
	assert.Zero(t, navigations)
}

func TestClient_ContextSessionOverridesConfigured(t *testing.T) {
	configured := &fakeSession{token: "configured"}
	perRequest := &fakeSession{token: "per-request"}
	var gotAuth string
	var hookRan bool

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}, configured, func(context.Context) { t.Fatal("configured hook must not run") })

	ctx := ContextWithSession(context.Background(), perRequest, func(context.Context) { hookRan = true })
	err := client.Get(ctx, "/leads", nil, &envelope{})

	require.ErrorIs(t, err, apierrors.ErrUnauthorized)
	assert.Equal(t, "Bearer per-request", gotAuth)
	assert.True(t, hookRan)
	assert.Equal(t, "", perRequest.Token())
	assert.Equal(t, "configured", configured.Token())
}

func TestClient_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server message", status: http.StatusBadRequest, body: `{"success":false,"message":"Email already exists"}`, message: "Email already exists"},
		{name: "no message", status: http.StatusInternalServerError, body: `{"success":false}`, message: "API request failed"},
		{name: "non-JSON body", status: http.StatusBadGateway, body: "Bad Gateway", message: "API request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, &fakeSession{token: "abc"}, nil)

			err := client.Post(context.Background(), "/leads", map[string]string{"name": "x"}, &envelope{})

			require.ErrorIs(t, err, apierrors.ErrAPIRequestFailed)
			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, &fakeSession{token: "abc"}, nil)

	err := client.Get(context.Background(), "/leads", nil, &envelope{})
	require.ErrorIs(t, err, apierrors.ErrMalformedResponse)
}

func TestClient_PutSendsJSONBody(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"success":true}`))
	}, &fakeSession{token: "abc"}, nil)

	err := client.Put(context.Background(), LeadPath("42"), map[string]any{"value": 1500.5}, &envelope{})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{"value": 1500.5}, gotBody)
}

func TestClient_DeleteEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, &fakeSession{token: "abc"}, nil)

	err := client.Delete(context.Background(), LeadPath("42"), &envelope{})
	require.NoError(t, err)
}

func TestClient_TransportFailure(t *testing.T) {
	client := New(Config{
		BaseURL:    "http://127.0.0.1:1/api",
		HTTPClient: httpclient.NewStandardClient(time.Second),
		Session:    &fakeSession{token: "abc"},
	})

	err := client.Get(context.Background(), "/leads", nil, &envelope{})
	require.ErrorIs(t, err, apierrors.ErrAPIRequestFailed)
	assert.Equal(t, "API request failed", apierrors.UserMessage(err, "fallback"))
}

func TestParams_Encode(t *testing.T) {
	stage := "new"
	var missing *string

	got := Params{}.
		Add("page", 1).
		Add("search", "").
		Add("limit", 10).
		Add("stage", &stage).
		Add("source", missing).
		Encode()

	assert.Equal(t, "page=1&search=&limit=10&stage=new", got)
}

func TestOperationName(t *testing.T) {
	assert.Equal(t, "GET /leads", operationName(http.MethodGet, "/leads"))
	assert.Equal(t, "GET /leads/:id", operationName(http.MethodGet, "/leads/665f1"))
	assert.Equal(t, "GET /leads/analytics", operationName(http.MethodGet, "/leads/analytics"))
	assert.Equal(t, "POST /auth/login", operationName(http.MethodPost, "/auth/login"))
}
