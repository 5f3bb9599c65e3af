package loops

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/entity"
)

const (
	// MaxRetries is how many extra attempts a rate-limited call gets.
	MaxRetries = 3

	maxBodyBytes = 1 << 20
)

var ErrNotConfigured = errors.New("loops: api key is not configured")

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	maxRetries int
	backoff    func(retry int) time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

// WithBackoff replaces the delay schedule between rate-limited attempts.
func WithBackoff(fn func(retry int) time.Duration) Option {
	return func(c *Client) { c.backoff = fn }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		http:       &http.Client{Timeout: timeout},
		logger:     logger.Named("loops"),
		maxRetries: MaxRetries,
		backoff:    Backoff,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backoff returns 1s, 2s, 4s... for retry 0, 1, 2...
func Backoff(retry int) time.Duration {
	return time.Duration(1<<retry) * time.Second
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// CreateContact posts the contact, retrying only while the API answers 429.
// Transport errors end the call immediately.
func (c *Client) CreateContact(ctx context.Context, contact entity.Contact) (*ContactResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(contact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contact: %w", err)
	}

	for retry := 0; ; retry++ {
		resp, err := c.post(ctx, "/contacts/create", payload)
		if err != nil {
			return nil, err
		}
		resp.Attempts = retry + 1

		if resp.StatusCode != http.StatusTooManyRequests || retry >= c.maxRetries {
			return resp, nil
		}

		delay := c.backoff(retry)
		c.logger.Warn("rate limited, backing off",
			zap.Int("attempt", resp.Attempts),
			zap.Duration("delay", delay),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("backoff interrupted: %w", err)
		}
	}
}

func (c *Client) post(ctx context.Context, path string, payload []byte) (*ContactResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loops request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read loops response: %w", err)
	}

	return &ContactResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
