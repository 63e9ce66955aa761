package ai

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
	"github.com/zhouzirui/voice-companion/backend/internal/model/chat"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	providerName   = "openai"
)

// ErrMissingAPIKey is returned by NewClient without a server secret.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// APIError captures a non-2xx upstream answer.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d status code (no body)", e.StatusCode)
}

// Client talks to an OpenAI-compatible API over plain REST.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, with or without the /v1 suffix.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = baseURL
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

// NewClient creates a client authenticated with the server-held key.
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

// CreateChatCompletion calls POST /chat/completions once.
func (c *Client) CreateChatCompletion(ctx context.Context, req *chat.CompletionRequest) (resp *chat.CompletionResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(providerName, "chat_completion", start, err) }()

	resp = &chat.CompletionResponse{}
	if err = c.post(ctx, endpointURL(c.baseURL, "/chat/completions"), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateResponse calls POST /responses once.
func (c *Client) CreateResponse(ctx context.Context, req *chat.ResponsesRequest) (resp *chat.ResponsesResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(providerName, "response", start, err) }()

	resp = &chat.ResponsesResponse{}
	if err = c.post(ctx, endpointURL(c.baseURL, "/responses"), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func endpointURL(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + path
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(raw)}
	var payload struct {
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.Error != nil:
			apiErr.Message = payload.Error.Message
			apiErr.Type = payload.Error.Type
		default:
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
