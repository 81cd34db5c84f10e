package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/fleettrack/internal/platform/timeouts"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
)

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL    = "http://localhost:8080/api"
	antiForgeryHeader = "X-XSRF-TOKEN"
	maxResponseBytes  = 8 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// Transport is the innermost round tripper. Defaults to
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// Client calls the fleet REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New builds a Client. The transport chain is
// otelhttp -> bearer credentials -> cfg.Transport.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", raw)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.BackendRequest
	}
	inner := cfg.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(&bearerTransport{source: cfg.Tokens, next: inner}),
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// response is a decoded API reply.
type response struct {
	status int
	header http.Header
	body   gjson.Result
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

func (c *Client) sendJSON(ctx context.Context, method string, path string, payload any) (response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(encoded), "application/json")
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body io.Reader, contentType string) (response, error) {
	if c == nil {
		return response{}, apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "backend client is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return response{}, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, transportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{}, transportError(ctx, err)
	}
	out := response{status: resp.StatusCode, header: resp.Header}
	if len(bytes.TrimSpace(raw)) > 0 {
		if !gjson.ValidBytes(raw) {
			if resp.StatusCode >= http.StatusBadRequest {
				return response{}, statusError(resp.StatusCode, gjson.Result{}, string(raw))
			}
			return response{}, apperrors.Backend(resp.StatusCode, "unexpected response from server")
		}
		out.body = gjson.ParseBytes(raw)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return response{}, statusError(resp.StatusCode, out.body, "")
	}
	// Several endpoints answer 200 with {success:false, message}.
	if success := out.body.Get("success"); success.Exists() && success.Type == gjson.False {
		return response{}, apperrors.Backend(resp.StatusCode, messageOf(out.body, "request failed"))
	}
	return out, nil
}

// transportError maps a failed send. Caller cancellation passes through
// unchanged; everything else means the backend could not be reached.
func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, context.Canceled) {
		return ctxErr
	}
	return apperrors.Error{
		Kind:    apperrors.KindUnavailable,
		Key:     "web.error.backend_unavailable",
		Message: "could not reach the server, try again",
		Err:     err,
	}
}

func statusError(status int, body gjson.Result, rawText string) error {
	fallback := strings.TrimSpace(rawText)
	if fallback == "" || len(fallback) > 200 {
		fallback = http.StatusText(status)
	}
	message := messageOf(body, fallback)
	switch status {
	case http.StatusUnauthorized:
		return apperrors.Error{Kind: apperrors.KindUnauthorized, Key: "web.session.notice_expired", Message: message, Status: status}
	case http.StatusForbidden:
		return apperrors.Error{Kind: apperrors.KindForbidden, Key: "web.session.notice_expired", Message: message, Status: status}
	default:
		return apperrors.Backend(status, message)
	}
}

// messageOf extracts the human message from an error payload.
func messageOf(body gjson.Result, fallback string) string {
	for _, path := range []string{"message", "error", "detail"} {
		if value := strings.TrimSpace(body.Get(path).String()); value != "" {
			return value
		}
	}
	return fallback
}
