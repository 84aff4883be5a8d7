package genderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production origin of the service
	DefaultBaseURL = "https://api.genderapi.io"

	defaultUserAgent = "genderapi-go"

	pathName     = "/api"
	pathEmail    = "/api/email"
	pathUsername = "/api/username"
)

// Client is a GenderAPI.io client. It is immutable after construction and
// safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new client. It fails without touching the network
// when apiKey is empty or the base URL is not an absolute http(s) URL.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ArgumentError{Field: "baseURL", Reason: fmt.Sprintf("%q is not an absolute http(s) URL", c.baseURL)}
	}

	return c, nil
}

// BaseURL returns the service origin requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LookupByName infers a gender from a personal name
func (c *Client) LookupByName(ctx context.Context, q NameQuery) (Result, error) {
	if strings.TrimSpace(q.Name) == "" {
		return nil, requiredArgument("name")
	}
	return c.send(ctx, pathName, q)
}

// LookupByEmail infers a gender from an email address
func (c *Client) LookupByEmail(ctx context.Context, q EmailQuery) (Result, error) {
	if strings.TrimSpace(q.Email) == "" {
		return nil, requiredArgument("email")
	}
	return c.send(ctx, pathEmail, q)
}

// LookupByUsername infers a gender from a social media username
func (c *Client) LookupByUsername(ctx context.Context, q UsernameQuery) (Result, error) {
	if strings.TrimSpace(q.Username) == "" {
		return nil, requiredArgument("username")
	}
	return c.send(ctx, pathUsername, q)
}

// send performs one authenticated POST and classifies the outcome
func (c *Client) send(ctx context.Context, path string, payload any) (Result, error) {
	endpoint := c.baseURL + path

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", URL: endpoint, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "POST", URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("GenderAPI request completed")

	if isServerStatus(resp.StatusCode) {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", URL: endpoint, Err: err}
	}

	result, err := decodeResult(data)
	if err != nil {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Err: err}
	}

	return result, nil
}
