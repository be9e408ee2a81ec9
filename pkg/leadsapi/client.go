package leadsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/httpclient"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
	"github.com/leaddesk/leaddesk-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

const serviceName = "leads_api"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 10 << 20

// Session is the token store the client reads the bearer token from.
type Session interface {
	Token() string
	Clear() error
}

// UnauthorizedFunc is invoked after a 401 cleared the session. Browser
// surfaces redirect to the login view from it; the CLI prints a notice.
type UnauthorizedFunc func(ctx context.Context)

// Config configures a Client.
type Config struct {
	BaseURL        string
	HTTPClient     httpclient.Client
	Session        Session
	OnUnauthorized UnauthorizedFunc
}

// Client talks JSON to the remote leads API.
type Client struct {
	baseURL        string
	httpClient     httpclient.Client
	session        Session
	onUnauthorized UnauthorizedFunc
}

// New creates a Client. A nil HTTPClient gets the standard client with the
// default timeout.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.NewStandardClient(httpclient.DefaultTimeout)
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     httpClient,
		session:        cfg.Session,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

type requestSessionKey struct{}

type requestSession struct {
	session        Session
	onUnauthorized UnauthorizedFunc
}

// ContextWithSession binds a session and unauthorized hook to a single
// request. It takes precedence over the session the client was built with,
// so one client can serve many browser sessions.
func ContextWithSession(ctx context.Context, session Session, onUnauthorized UnauthorizedFunc) context.Context {
	return context.WithValue(ctx, requestSessionKey{}, requestSession{session: session, onUnauthorized: onUnauthorized})
}

func (c *Client) sessionFor(ctx context.Context) (Session, UnauthorizedFunc) {
	if rs, ok := ctx.Value(requestSessionKey{}).(requestSession); ok {
		return rs.session, rs.onUnauthorized
	}
	return c.session, c.onUnauthorized
}

// Get issues an authenticated GET with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, params Params, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out, true)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}

// AuthPost issues a POST without the bearer token. A 401 here means bad
// credentials and leaves the session alone.
func (c *Client) AuthPost(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, params Params, body, out any, authenticated bool) error {
	start := time.Now()
	operation := operationName(method, path)

	requestURL := c.baseURL + path
	if query := params.Encode(); query != "" {
		requestURL += "?" + query
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	session, onUnauthorized := c.sessionFor(ctx)
	if authenticated && session != nil {
		if token := session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, operation, "error", start, zap.Error(err))
		return fmt.Errorf("%w: %v", apierrors.NewAPIError(0, ""), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.record(ctx, operation, "error", start, zap.Int("status_code", resp.StatusCode), zap.Error(err))
		return fmt.Errorf("%w: %v", apierrors.NewAPIError(resp.StatusCode, ""), err)
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.record(ctx, operation, "unauthorized", start, zap.Int("status_code", resp.StatusCode))
		handleUnauthorized(ctx, session, onUnauthorized)
		return apierrors.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(ctx, operation, "error", start, zap.Int("status_code", resp.StatusCode))
		return apierrors.NewAPIError(resp.StatusCode, errorMessage(raw))
	}

	if len(bytes.TrimSpace(raw)) == 0 || out == nil {
		c.record(ctx, operation, "success", start, zap.Int("status_code", resp.StatusCode))
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.record(ctx, operation, "error", start, zap.Int("status_code", resp.StatusCode), zap.Error(err))
		return apierrors.MalformedResponseError(operation, err)
	}

	c.record(ctx, operation, "success", start, zap.Int("status_code", resp.StatusCode))
	return nil
}

// handleUnauthorized clears the token and runs the hook. Concurrent 401s
// for the same session clear it once.
func handleUnauthorized(ctx context.Context, session Session, onUnauthorized UnauthorizedFunc) {
	metrics.LeadsAPIUnauthorized.Inc()

	if session != nil {
		if err := clearOnce(session); err != nil {
			logger.Warn("Failed to clear session after 401", zap.Error(err))
		}
	}
	if onUnauthorized != nil {
		onUnauthorized(ctx)
	}
}

var clearMu sync.Mutex

func clearOnce(session Session) error {
	clearMu.Lock()
	defer clearMu.Unlock()
	if session.Token() == "" {
		return nil
	}
	return session.Clear()
}

func (c *Client) record(ctx context.Context, operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.LeadsAPIRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.LeadsAPIRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall(ctx, serviceName, operation, status, duration, fields...)
}

// errorMessage pulls the server-supplied message out of an error body.
// Non-JSON bodies yield "" so the caller falls back to the default text.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}

// LeadPath returns the resource path of a single lead.
func LeadPath(id string) string {
	return "/leads/" + url.PathEscape(id)
}

// operationName collapses lead ids so metric labels stay bounded.
func operationName(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 2 && segments[0] == "leads" && segments[1] != "analytics" {
		segments[1] = ":id"
	}
	return method + " /" + strings.Join(segments, "/")
}
