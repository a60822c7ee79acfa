// Package netprofiler is a small REST client for the NetProfiler
// reporting API.
package netprofiler

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitdogg/EOC-NetProfiler/internal/cache"
	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

const (
	apiPrefix      = "/api/profiler/1.12"
	commonPrefix   = "/api/common/1.0"
	requestTimeout = 30 * time.Second
)

// Compile-time check that Client satisfies domain.ReportClient.
var _ domain.ReportClient = (*Client)(nil)

// Client talks to one NetProfiler appliance using HTTP basic auth.
// Report calls are not retried; metadata lookups are retried and cached.
type Client struct {
	device   domain.Device
	username string
	password string
	baseURL  string
	client   *http.Client
	cache    *cache.Cache

	mu       sync.Mutex
	groupbys map[string]string
}

// Option customises a Client.
type Option func(*Client)

// WithCache enables on-disk caching of appliance metadata.
func WithCache(c *cache.Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.client = hc }
}

// WithBaseURL points the client at a different scheme and host, e.g. a
// plain-HTTP lab appliance.
func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = strings.TrimRight(u, "/") }
}

// NewClient creates a client for dev authenticating as dev.Username.
func NewClient(dev domain.Device, password string, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if dev.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in per device
	}
	c := &Client{
		device:   dev,
		username: dev.Username,
		password: password,
		baseURL:  "https://" + dev.Address(),
		client:   &http.Client{Timeout: requestTimeout, Transport: transport},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Device returns the appliance this client talks to.
func (c *Client) Device() domain.Device { return c.device }

// apiError is the error body returned by the appliance.
type apiError struct {
	ErrorID   string `json:"error_id"`
	ErrorText string `json:"error_text"`
}

// statusError maps an HTTP status and error body to a domain sentinel.
func statusError(status int, body []byte) error {
	var e apiError
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &e) == nil && e.ErrorText != "" {
		msg = e.ErrorText
		if e.ErrorID != "" {
			msg = e.ErrorID + ": " + msg
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	}
	return fmt.Errorf("netprofiler: HTTP %d: %s", status, msg)
}

// doJSON performs a request and decodes a JSON response into out (which
// may be nil). Non-2xx responses are mapped through statusError.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("netprofiler: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("netprofiler: failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("netprofiler: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return resp, statusError(resp.StatusCode, data)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(out); err != nil && err != io.EOF {
			return resp, fmt.Errorf("netprofiler: failed to decode response: %w", err)
		}
	}
	return resp, nil
}
