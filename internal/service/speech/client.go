package speech

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

	"github.com/zhouzirui/voice-companion/backend/internal/metrics"
	speechmodel "github.com/zhouzirui/voice-companion/backend/internal/model/speech"
)

const (
	defaultBaseURL = "https://api.deepgram.com"
	grantPath      = "/v1/auth/grant"
	providerName   = "deepgram"
)

// ErrMissingAPIKey is returned by NewClient without a server secret.
var ErrMissingAPIKey = errors.New("speech: DEEPGRAM_API_KEY is not set")

// APIError captures a non-2xx answer from the grant endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// Client mints short-lived speech-API credentials.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the upstream request timeout; zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// NewClient creates a grant client authenticated with the server-held key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IssueGrant asks the upstream for a token limited to scope. One attempt is
// made; failures are returned as-is.
func (c *Client) IssueGrant(ctx context.Context, scope []string) (grant *speechmodel.GrantResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(providerName, "grant", start, err) }()

	body, err := json.Marshal(speechmodel.GrantRequest{Scope: scope})
	if err != nil {
		return nil, fmt.Errorf("marshal grant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+grantPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create grant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read grant response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, raw)
	}

	grant = &speechmodel.GrantResponse{}
	if err := json.Unmarshal(raw, grant); err != nil {
		return nil, fmt.Errorf("decode grant response: %w", err)
	}
	return grant, nil
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(raw)}
	var payload struct {
		Message string `json:"message"`
		ErrMsg  string `json:"err_msg"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.ErrMsg
		}
	}
	return apiErr
}
