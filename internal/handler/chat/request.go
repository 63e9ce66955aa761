package chat

import (
	"encoding/json"

	"github.com/zhouzirui/voice-companion/backend/internal/model/chat"
)

// proxyRequest is the subset of an inbound body the proxy understands.
// Fields with the wrong JSON type are treated as absent.
type proxyRequest struct {
	Messages        []chat.Message
	Model           string
	Temperature     *float64
	MaxTokens       json.RawMessage
	MaxOutputTokens json.RawMessage
	Input           string
	PersonaID       string
	Context         *chat.Context
}

func parseProxyRequest(body map[string]json.RawMessage, personaAware bool) *proxyRequest {
	req := &proxyRequest{}
	if body == nil {
		return req
	}

	if !decodeField(body, "messages", &req.Messages) {
		req.Messages = nil
	}
	decodeField(body, "model", &req.Model)
	decodeField(body, "input", &req.Input)

	var temperature float64
	if decodeField(body, "temperature", &temperature) {
		req.Temperature = &temperature
	}
	req.MaxTokens = rawField(body, "max_tokens")
	req.MaxOutputTokens = rawField(body, "max_output_tokens")

	if !personaAware {
		return req
	}

	var meta map[string]json.RawMessage
	decodeField(body, "metadata", &meta)

	decodeField(body, "personaId", &req.PersonaID)
	if req.PersonaID == "" {
		decodeField(body, "persona_id", &req.PersonaID)
	}
	if req.PersonaID == "" {
		decodeField(meta, "personaId", &req.PersonaID)
	}

	var userCtx chat.Context
	if decodeField(body, "context", &userCtx) || decodeField(meta, "context", &userCtx) {
		req.Context = &userCtx
	}
	return req
}

// decodeField unmarshals body[key] into dst. It reports false when the key is
// missing, null or holds a value of another type.
func decodeField(body map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := body[key]
	if !ok || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func rawField(body map[string]json.RawMessage, key string) json.RawMessage {
	raw, ok := body[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	return raw
}

type completionReply struct {
	Reply   json.RawMessage `json:"reply"`
	Model   string          `json:"model"`
	Usage   json.RawMessage `json:"usage,omitempty"`
	ID      string          `json:"id"`
	Created int64           `json:"created"`
}

type personaCompletionReply struct {
	completionReply
	Persona *string `json:"persona"`
}

type responsesReply struct {
	Reply   *string         `json:"reply,omitempty"`
	ID      string          `json:"id"`
	Created *int64          `json:"created,omitempty"`
	Model   string          `json:"model"`
	Output  json.RawMessage `json:"output,omitempty"`
	Persona *string         `json:"persona"`
}
