package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
)

// HTTPClient implements DataSource by calling the pintrack REST API.
// Used when the MCP binary runs locally (stdio) against a remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return session.ErrWorkoutNotFound
	case resp.StatusCode == http.StatusServiceUnavailable:
		return session.ErrStorageUnavailable
	case resp.StatusCode == http.StatusBadRequest:
		var e struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.Unmarshal(data, &e) == nil && e.Field != "" {
			return &models.ValidationError{Field: e.Field, Reason: e.Error}
		}
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	case resp.StatusCode >= 300:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context) ([]view.WorkoutDetail, error) {
	var out []view.WorkoutDetail
	if err := c.do(ctx, http.MethodGet, "/api/v1/workouts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (view.WorkoutDetail, error) {
	var out view.WorkoutDetail
	err := c.do(ctx, http.MethodGet, "/api/v1/workouts/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *HTTPClient) LogWorkout(ctx context.Context, at models.Coordinates, v session.FormValues) (view.WorkoutDetail, error) {
	if err := c.do(ctx, http.MethodPost, "/api/v1/map/click", at, nil); err != nil {
		return view.WorkoutDetail{}, err
	}
	var out view.WorkoutDetail
	err := c.do(ctx, http.MethodPost, "/api/v1/workouts", v, &out)
	return out, err
}

func (c *HTTPClient) SelectWorkout(ctx context.Context, id string) (view.WorkoutDetail, error) {
	var out view.WorkoutDetail
	err := c.do(ctx, http.MethodPost, "/api/v1/workouts/"+url.PathEscape(id)+"/select", nil, &out)
	return out, err
}
