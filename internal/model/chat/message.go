package chat

import (
	"encoding/json"
	"strings"
)

// Roles accepted by the language-model API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat-completion request. Content is kept as raw
// JSON because clients may send either a string or structured content parts,
// and both must reach the upstream unchanged. Fields the proxy does not read
// (tool_calls, tool_call_id, refusal, ...) are carried in Extra and written
// back verbatim.
type Message struct {
	Role    string
	Content json.RawMessage
	Name    string
	Extra   map[string]json.RawMessage
}

// TextMessage builds a message whose content is a plain string.
func TextMessage(role, text string) Message {
	content, _ := json.Marshal(text)
	return Message{Role: role, Content: content}
}

// Text renders the content as text: strings are unquoted, structured
// content is returned as its JSON encoding.
func (m Message) Text() string {
	if len(m.Content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(m.Content))
}

// UnmarshalJSON decodes a message object. role must be a string when present.
func (m *Message) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}

	decoded := Message{}
	for key, raw := range fields {
		switch key {
		case "role":
			if err := json.Unmarshal(raw, &decoded.Role); err != nil {
				return err
			}
		case "content":
			decoded.Content = raw
		case "name":
			if err := json.Unmarshal(raw, &decoded.Name); err == nil {
				continue
			}
			fallthrough
		default:
			if decoded.Extra == nil {
				decoded.Extra = make(map[string]json.RawMessage)
			}
			decoded.Extra[key] = raw
		}
	}
	*m = decoded
	return nil
}

// MarshalJSON writes role, content and name alongside every extra field.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+3)
	for key, raw := range m.Extra {
		out[key] = raw
	}
	out["role"] = m.Role
	if len(m.Content) > 0 {
		out["content"] = m.Content
	}
	if m.Name != "" {
		out["name"] = m.Name
	}
	return json.Marshal(out)
}
