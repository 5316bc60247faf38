package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// Defaults for the outbound proxy client.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
	GeneratePath       = "/api/ai/generate"
)

// Options configures the proxy client.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	Token       string // optional bearer token
	HTTPClient  *http.Client
}

// DefaultOptions returns the production retry policy.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Client calls the AI proxy endpoint with bounded exponential-backoff retry.
// A Client holds no per-request state and is safe to call repeatedly.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
	token       string
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client for the proxy at baseURL (e.g. http://localhost:5000).
func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	baseDelay := opts.BaseDelay
	if baseDelay < 0 {
		baseDelay = 0
	}

	return &Client{
		endpoint:    strings.TrimRight(baseURL, "/") + GeneratePath,
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		token:       opts.Token,
		sleep:       sleepContext,
	}
}

// Generate builds the prompt for req, sends it to the proxy, and returns the
// cleaned text (trimmed, whitespace-collapsed, truncated to MaxWords words).
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	text, err := c.Complete(ctx, BuildPrompt(req), req.Model)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}

// Complete posts a raw prompt to the proxy and returns the uncleaned text.
// Transport failures, 429 and 5xx responses are retried up to the attempt
// limit with a delay of baseDelay * 2^attempt between attempts. Other 4xx
// responses fail immediately.
func (c *Client) Complete(ctx context.Context, prompt string, model string) (string, error) {
	body, err := json.Marshal(types.GenerateRequest{Prompt: prompt, Model: model})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	var lastErr *RequestError
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<(attempt-1))
			if err := c.sleep(ctx, delay); err != nil {
				return "", &RequestError{Attempts: attempt, Message: "cancelled while waiting to retry", Cause: err}
			}
		}

		text, reqErr, retryable := c.post(ctx, body)
		if reqErr == nil {
			return text, nil
		}
		reqErr.Attempts = attempt + 1
		lastErr = reqErr
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

// post performs a single proxy call. The bool reports whether a failure is retryable.
func (c *Client) post(ctx context.Context, body []byte) (string, *RequestError, bool) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Message: "failed to create request", Cause: err}, false
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &RequestError{Message: "request failed", Cause: err}, true
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &RequestError{StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}, true
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(data)}, retryable
	}

	var out types.GenerateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &RequestError{StatusCode: resp.StatusCode, Message: "invalid response body", Cause: err}, true
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", &RequestError{StatusCode: resp.StatusCode, Message: "empty response text"}, true
	}
	return out.Text, nil, false
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty error response"
	}
	return msg
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

