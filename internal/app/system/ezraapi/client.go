// Package ezraapi is the portal's client for the external EZRA REST API.
//
// Every tenant and admin operation is one authenticated request against a
// fixed path under the configured base URL. The client does no caching and
// no retrying; both belong to the query cache that sits in front of it.
package ezraapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/metrics"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is used when no API base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// Resource names, as shown to tenants when a load fails.
const (
	ResourceComplaints  = "complaints"
	ResourceWorkOrders  = "work orders"
	ResourceLockers     = "package information"
	ResourceParking     = "parking permits"
	ResourceLeaseStatus = "lease status"
	ResourceLeases      = "leases"
	ResourceChat        = "chat"
)

// Client talks to the EZRA API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

// NewClient returns a client for baseURL with one trailing slash removed.
// A nil httpClient gets a client with a 30s overall timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: NormalizeBaseURL(baseURL),
		HTTP:    httpClient,
		Log:     logger,
	}
}

// NormalizeBaseURL trims whitespace and a trailing slash, falling back to
// DefaultBaseURL when empty.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

type call struct {
	resource string
	method   string
	path     string
	body     any
	out      any
	public   bool // no bearer token
}

func (c *Client) do(ctx context.Context, ts oauth2.TokenSource, cl call) error {
	start := time.Now()
	err := c.send(ctx, ts, cl)
	metrics.ObserveUpstream(cl.resource, outcome(err), time.Since(start))
	if err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("ezra api call failed",
			zap.String("resource", cl.resource),
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Int("status", StatusCode(err)),
			zap.Error(err))
	}
	return err
}

func (c *Client) send(ctx context.Context, ts oauth2.TokenSource, cl call) error {
	var token string
	if !cl.public {
		t, err := bearer(ts)
		if err != nil {
			return err
		}
		token = t
	}

	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("ezraapi: encode %s body: %w", cl.resource, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.BaseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("ezraapi: build %s request: %w", cl.resource, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Resource: cl.resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &RequestFailedError{
			Resource:   cl.resource,
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: resp.StatusCode,
		}
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return &RequestFailedError{
			Resource:   cl.resource,
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode body: %w", err),
		}
	}
	return nil
}

// Ping checks that the API origin answers at all. Any response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Resource: "ping", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode >= 500 {
		return &RequestFailedError{Resource: "ping", Method: http.MethodGet, Path: "/", StatusCode: resp.StatusCode}
	}
	return nil
}

func bearer(ts oauth2.TokenSource) (string, error) {
	if ts == nil {
		return "", ErrUnauthorized
	}
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if tok == nil || !tok.Valid() {
		return "", ErrUnauthorized
	}
	return tok.AccessToken, nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrUnauthorized):
		return metrics.OutcomeUnauthorized
	case IsNetwork(err):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeFailed
	}
}
