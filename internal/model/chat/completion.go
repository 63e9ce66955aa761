package chat

import (
	"encoding/json"
	"strings"
)

// CompletionRequest is the body forwarded to the chat-completions endpoint.
// MaxTokens is passed through verbatim when the client supplied it.
type CompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []Message       `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   json.RawMessage `json:"max_tokens,omitempty"`
}

// CompletionChoice is one generated alternative. The message is kept raw so
// tool calls and refusals reach the client untouched.
type CompletionChoice struct {
	Index        int             `json:"index"`
	Message      json.RawMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// CompletionResponse is the upstream chat-completions answer.
type CompletionResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object,omitempty"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   json.RawMessage    `json:"usage,omitempty"`
}

// FirstMessage returns the first choice's message, or nil when upstream
// produced no choices.
func (r *CompletionResponse) FirstMessage() json.RawMessage {
	if len(r.Choices) == 0 {
		return nil
	}
	return r.Choices[0].Message
}

// ResponsesRequest is the body forwarded to the responses endpoint.
type ResponsesRequest struct {
	Model           string          `json:"model"`
	Input           string          `json:"input"`
	Temperature     *float64        `json:"temperature,omitempty"`
	MaxOutputTokens json.RawMessage `json:"max_output_tokens,omitempty"`
}

// ResponsesResponse is the upstream responses answer.
type ResponsesResponse struct {
	ID         string          `json:"id"`
	Created    *int64          `json:"created,omitempty"`
	CreatedAt  *int64          `json:"created_at,omitempty"`
	Model      string          `json:"model"`
	Output     json.RawMessage `json:"output,omitempty"`
	OutputText *string         `json:"output_text,omitempty"`
}

// CreatedTime returns created, falling back to created_at.
func (r *ResponsesResponse) CreatedTime() *int64 {
	if r.Created != nil {
		return r.Created
	}
	return r.CreatedAt
}

// ReplyText returns output_text when upstream sent it, else the text of every
// output_text content part in order. ok is false when no text was found.
func (r *ResponsesResponse) ReplyText() (text string, ok bool) {
	if r.OutputText != nil {
		return *r.OutputText, true
	}
	if len(r.Output) == 0 {
		return "", false
	}

	var items []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(r.Output, &items); err != nil {
		return "", false
	}

	var builder strings.Builder
	for _, item := range items {
		for _, part := range item.Content {
			if part.Type == "output_text" {
				builder.WriteString(part.Text)
				ok = true
			}
		}
	}
	return builder.String(), ok
}
