package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Common errors.
var (
	ErrNotFound     = errors.New("http: resource not found")
	ErrForbidden    = errors.New("http: access forbidden")
	ErrUnauthorized = errors.New("http: unauthorized")
	ErrServerError  = errors.New("http: server error")
)

// Options configures the HTTP client.
type Options struct {
	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int

	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// RetryAttempts is the maximum number of retry attempts.
	// Default: 3
	RetryAttempts int

	// RetryBackoff is the initial backoff duration.
	// Default: 1s
	RetryBackoff time.Duration

	// RetryMaxBackoff is the maximum backoff duration.
	// Default: 15s
	RetryMaxBackoff time.Duration

	// UserAgent is sent with every request.
	// Default: "bins"
	UserAgent string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 10,
		Timeout:             30 * time.Second,
		RetryAttempts:       3,
		RetryBackoff:        time.Second,
		RetryMaxBackoff:     15 * time.Second,
		UserAgent:           "bins",
	}
}

// Header is a request header applied to an outgoing call.
type Header struct {
	Key   string
	Value string
}

// basicAuthKey marks a Header as basic-auth credentials rather than a
// literal header line.
const basicAuthKey = "-basic-auth"

// BasicAuth returns a Header carrying credentials for HTTP basic auth.
func BasicAuth(username, password string) Header {
	return Header{Key: basicAuthKey, Value: username + ":" + password}
}

// Client is an HTTP client for small request/response exchanges with
// paste services. All request methods retry transport errors and 5xx
// responses with exponential backoff.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "bins"
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// PostForm performs a POST request with form-encoded values.
func (c *Client) PostForm(ctx context.Context, rawurl string, values url.Values, headers ...Header) ([]byte, error) {
	body := []byte(values.Encode())
	return c.do(ctx, http.MethodPost, rawurl, "application/x-www-form-urlencoded", body, headers)
}

// PostJSON performs a POST request with a JSON-encoded payload.
func (c *Client) PostJSON(ctx context.Context, rawurl string, payload any, headers ...Header) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, rawurl, "application/json", body, headers)
}

// PostRaw performs a POST request with an opaque body.
func (c *Client) PostRaw(ctx context.Context, rawurl, contentType string, body []byte, headers ...Header) ([]byte, error) {
	return c.do(ctx, http.MethodPost, rawurl, contentType, body, headers)
}

func (c *Client) do(ctx context.Context, method, rawurl, contentType string, body []byte, headers []Header) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawurl, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		for _, h := range headers {
			if h.Key == basicAuthKey {
				user, pass, _ := strings.Cut(h.Value, ":")
				req.SetBasicAuth(user, pass)
				continue
			}
			req.Header.Set(h.Key, h.Value)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Server errors are retryable
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("%w: %d %s", ErrServerError, resp.StatusCode, resp.Status)
			continue
		}

		if err := checkStatusCode(resp.StatusCode); err != nil {
			return nil, err
		}

		return data, nil
	}

	return nil, fmt.Errorf("%s %s failed after %d attempts: %w", method, rawurl, c.opts.RetryAttempts+1, lastErr)
}

// backoff waits for an exponentially increasing duration with jitter.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.opts.RetryBackoff
	if backoff == 0 {
		backoff = time.Second
	}
	backoff *= time.Duration(1 << uint(attempt-1))
	if max := c.opts.RetryMaxBackoff; max > 0 && backoff > max {
		backoff = max
	}

	// Add jitter: 0.5 to 1.5 of backoff
	jitter := time.Duration(float64(backoff) * (0.5 + rand.Float64()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
		return nil
	}
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}
