package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRequestOmitsMissingMaxTokens(t *testing.T) {
	out, err := json.Marshal(CompletionRequest{
		Model:       "gpt-4o-mini",
		Messages:    []Message{TextMessage(RoleUser, "hi")},
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"gpt-4o-mini","messages":[{"role":"user","content":"hi"}],"temperature":0.7}`, string(out))
}

func TestFirstMessage(t *testing.T) {
	resp := CompletionResponse{}
	assert.Nil(t, resp.FirstMessage())

	resp.Choices = []CompletionChoice{{Message: json.RawMessage(`{"role":"assistant","content":"yo"}`)}}
	assert.JSONEq(t, `{"role":"assistant","content":"yo"}`, string(resp.FirstMessage()))
}

func TestResponsesReplyText(t *testing.T) {
	var resp ResponsesResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"resp_1","created_at":1700000000,"model":"gpt-4o-mini",
		"output":[
			{"type":"reasoning","content":[]},
			{"type":"message","content":[{"type":"output_text","text":"Hello"},{"type":"output_text","text":" there"}]}
		]
	}`), &resp))

	text, ok := resp.ReplyText()
	assert.True(t, ok)
	assert.Equal(t, "Hello there", text)
	require.NotNil(t, resp.CreatedTime())
	assert.Equal(t, int64(1700000000), *resp.CreatedTime())
}

func TestResponsesReplyTextPrefersOutputText(t *testing.T) {
	helper := "short"
	resp := ResponsesResponse{OutputText: &helper, Output: json.RawMessage(`[{"content":[{"type":"output_text","text":"long"}]}]`)}
	text, ok := resp.ReplyText()
	assert.True(t, ok)
	assert.Equal(t, "short", text)
}

func TestResponsesReplyTextMissing(t *testing.T) {
	_, ok := (&ResponsesResponse{}).ReplyText()
	assert.False(t, ok)

	_, ok = (&ResponsesResponse{Output: json.RawMessage(`[{"content":[{"type":"refusal","refusal":"no"}]}]`)}).ReplyText()
	assert.False(t, ok)
}
