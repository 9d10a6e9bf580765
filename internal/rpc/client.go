package rpc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client issues blocking request/reply calls to one service endpoint.
// Exactly one request is outstanding per call: the client sends and
// waits for the reply before returning. Every call is bounded by the
// configured timeout; transport failures are retried with backoff,
// reusing the same idempotency key so the server can replay a cached
// reply instead of executing the operation twice.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds each individual request attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries sets how many times a failed attempt is retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1)
	}
}

// NewClient targets a service's /rpc endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		limiter:    rate.NewLimiter(rate.Every(time.Second/50), 1),
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends [op, data] and decodes the reply into out. A nil data
// marshals as null for parameterless operations; a nil out discards
// the reply.
func (c *Client) Call(ctx context.Context, op string, data any, out any) error {
	return c.do(ctx, Request{Op: op}, data, out)
}

// CallFlag sends a flag-object operation such as {"sign_in": true}.
func (c *Client) CallFlag(ctx context.Context, flag string, data any, out any) error {
	return c.do(ctx, Request{Flag: flag}, data, out)
}

func (c *Client) do(ctx context.Context, req Request, data any, out any) error {
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode request data: %w", err)
		}
		req.Data = raw
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	// One key for the whole logical call, stable across retries.
	idemKey := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryable, err := c.once(ctx, idemKey, body, out)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("calling %s after %d retries: %w", c.endpoint, c.maxRetries, lastErr)
}

func (c *Client) once(ctx context.Context, idemKey string, body []byte, out any) (retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(IdempotencyKeyHeader, idemKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode reply: %w", err)
	}
	return false, nil
}
