// Package client fetches dashboard metrics from an edupulse server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/edupulse/internal/metrics"
	"github.com/theirongolddev/edupulse/internal/model"
	"github.com/theirongolddev/edupulse/internal/web"
)

const (
	requestTimeout = 15 * time.Second
	maxBodySize    = 8 << 20 // 8 MB
	metricsPath    = "/api/metrics"
	statusPath     = "/v1/status"
)

// ErrStatus indicates the server answered with a non-2xx status.
var ErrStatus = errors.New("client: unexpected status")

// StatusError carries the HTTP status of a failed request.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: unexpected status %d", e.Code)
}

// Is lets errors.Is match any StatusError against ErrStatus.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Client talks to the metrics API of one server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g. "http://127.0.0.1:8080").
// A nil httpClient uses a default one.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

// Fetch loads the complete metrics for a period.
func (c *Client) Fetch(ctx context.Context, p metrics.Period) (*model.CompleteMetrics, error) {
	q := url.Values{"period": {string(p)}}
	body, err := c.get(ctx, metricsPath+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var m model.CompleteMetrics
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("client: parsing metrics: %w", err)
	}
	return &m, nil
}

// Status reports the runtime counters of the server.
func (c *Client) Status(ctx context.Context) (web.Status, error) {
	var st web.Status
	body, err := c.get(ctx, statusPath)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("client: parsing status: %w", err)
	}
	return st, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/edupulse/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("client: reading response: %w", err)
	}
	return body, nil
}
