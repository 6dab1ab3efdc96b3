// Package ghl is a thin client for the GoHighLevel (LeadConnector) REST API.
// It speaks the CRM's wire format and normalizes its loosely shaped payloads;
// domain modules reach it only through the adapters package.
package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ksquared-16/alloy/internal/telemetry"
	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/logger"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ghl %s returned %d: %s", e.Operation, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

type Client struct {
	baseURL        string
	apiKey         string
	locationID     string
	apiVersion     string
	directoryLimit int
	http           *http.Client
	limiter        *rate.Limiter
	directory      singleflight.Group
	log            *logger.Logger
}

func NewClient(cfg config.CRMConfig, log *logger.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if rps := cfg.GetGHLRequestsPerSecond(); rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}

	directoryLimit := cfg.GetGHLDirectoryLimit()
	if directoryLimit <= 0 {
		directoryLimit = 50
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.GetGHLBaseURL(), "/"),
		apiKey:         cfg.GetGHLAPIKey(),
		locationID:     cfg.GetGHLLocationID(),
		apiVersion:     cfg.GetGHLAPIVersion(),
		directoryLimit: directoryLimit,
		http:           &http.Client{Timeout: cfg.GetGHLTimeout()},
		limiter:        rate.NewLimiter(limit, burst),
		log:            log,
	}
}

// LocationID returns the sub-account the client is scoped to.
func (c *Client) LocationID() string {
	return c.locationID
}

// do sends one request and decodes a 2xx JSON body into out (when non-nil).
// The raw body is returned so debug callers can show it.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, payload any, out any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ghl %s: rate limiter: %w", operation, err)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal ghl %s payload: %w", operation, err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		telemetry.CRMRequests.WithLabelValues(operation, "error").Observe(time.Since(start).Seconds())
		c.log.CRMError(operation, 0, err)
		return nil, fmt.Errorf("ghl %s request failed: %w", operation, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	telemetry.CRMRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ghl %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		c.log.CRMError(operation, resp.StatusCode, statusErr)
		return data, statusErr
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return data, fmt.Errorf("decode ghl %s response: %w", operation, err)
		}
	}
	return data, nil
}
