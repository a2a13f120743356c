// Package portalapi is the HTTP client of the portal's upstream REST API.
package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/repository"
	"portal/internal/errors"
	"portal/internal/infra/metrics"

	"go.uber.org/fx"
)

const maxErrorBodySize = 2048

// ClientParams holds dependencies for Client, injected by Fx.
type ClientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// Client performs JSON requests against the upstream API.
// Every request carries the portal referer and the configured timeout.
type Client struct {
	baseURL    *url.URL
	referer    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client from configuration
func NewClient(params ClientParams) (*Client, error) {
	cfg := params.Config.PortalAPI

	return NewClientWithHTTP(cfg.BaseURL, cfg.PortalReferer, &http.Client{Timeout: cfg.Timeout}, params.Logger)
}

// NewClientWithHTTP creates a client around an existing http.Client
func NewClientWithHTTP(baseURL, referer string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid portal API base URL %q", baseURL)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("portal API base URL must be absolute: %q", baseURL)
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    parsed,
		referer:    referer,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Referer returns the portal referer forwarded to the API.
func (c *Client) Referer() string {
	return c.referer
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		if c.referer != "" {
			query.Set("portalReferer", c.referer)
		}
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// GetJSON issues a GET and decodes the JSON response into out.
// It returns the response status so callers can map 404s.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) (int, error) {
	if query == nil {
		query = url.Values{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return c.do(ctx, req, out)
}

// PostJSON sends body as JSON. The response body is discarded.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, url.Values{}), bytes.NewReader(payload))
	if err != nil {
		return 0, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req, nil)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) (int, error) {
	req.Header.Set("Accept", "application/json")
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, c.logger)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	status := "error"
	switch {
	case err == nil:
		status = strconv.Itoa(resp.StatusCode)
	case errors.IsTimeout(err):
		status = "timeout"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(req.Method, status).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Warn("Portal API request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Any("error", err),
		)

		if status == "timeout" {
			return 0, errors.Wrapf(repository.ErrUpstream, "%s %s: timed out: %v", req.Method, req.URL.Path, err)
		}

		return 0, errors.Wrapf(repository.ErrUpstream, "%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	logger.Debug("Portal API request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

		return resp.StatusCode, errors.Wrapf(repository.ErrUpstream, "%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.Wrapf(repository.ErrUpstream, "decode %s: %v", req.URL.Path, err)
	}

	return resp.StatusCode, nil
}
