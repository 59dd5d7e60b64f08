package clientcli

import (
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
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a secure URL server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	// Normalize endpoint URL (remove trailing slash)
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config:     &Config{Endpoint: endpoint},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetURL requests a signed download URL for the named object.
func (c *Client) GetURL(ctx context.Context, opts GetURLOptions) (*GetURLResult, error) {
	if opts.Filename == "" {
		return nil, fmt.Errorf("get url: %w", ErrEmptyFilename)
	}

	query := url.Values{}
	query.Set("filename", opts.Filename)
	if opts.ExpiresIn > 0 {
		query.Set("expires_in", strconv.Itoa(opts.ExpiresIn))
	}

	requestURL := c.config.Endpoint + "/v1/url/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	var serverResp serverURLResponse
	if err := json.Unmarshal(body, &serverResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &GetURLResult{
		Filename:  opts.Filename,
		URL:       serverResp.URL,
		ExpiresIn: opts.ExpiresIn,
	}, nil
}

// Echo fetches the server's diagnostic echo endpoint.
// Useful for checking reachability and which bucket the server serves.
func (c *Client) Echo(ctx context.Context) (*EchoResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/echo/", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	var result EchoResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &result, nil
}

// parseServerError extracts the error envelope from a server response.
// Falls back to the raw body when the envelope does not parse.
func parseServerError(statusCode int, body []byte) error {
	var serverErr serverErrorResponse
	if err := json.Unmarshal(body, &serverErr); err == nil && serverErr.Code != "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       serverErr.Code,
			Message:    serverErr.Message,
			ErrorType:  serverErr.Details.ErrorType,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    string(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	ErrorType  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " " + e.Code + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested object does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrValidation is returned when the server rejects request parameters (422).
	ErrValidation = &APIError{StatusCode: http.StatusUnprocessableEntity}
)
