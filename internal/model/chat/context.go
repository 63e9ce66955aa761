package chat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Context carries optional facts about the user for one request's prompt
// composition. Nothing here is stored.
type Context struct {
	UserName    string   `json:"userName,omitempty"`
	Goal        string   `json:"goal,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// Empty reports whether no field would render.
func (c *Context) Empty() bool {
	return c == nil || (c.UserName == "" && c.Goal == "" && len(c.Preferences) == 0)
}

// UnmarshalJSON decodes each field on its own so one oddly typed value does
// not discard the rest. Scalars render as text; falsy values count as absent.
// A preferences value that is not an array is ignored.
func (c *Context) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	decoded := Context{
		UserName: scalarText(fields["userName"]),
		Goal:     scalarText(fields["goal"]),
	}

	var prefs []json.RawMessage
	if raw, ok := fields["preferences"]; ok && json.Unmarshal(raw, &prefs) == nil && len(prefs) > 0 {
		decoded.Preferences = make([]string, 0, len(prefs))
		for _, item := range prefs {
			decoded.Preferences = append(decoded.Preferences, elementText(item))
		}
	}

	*c = decoded
	return nil
}

// scalarText renders a truthy JSON value as text and returns "" for null,
// false, 0 and "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return ""
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil && n == 0 {
		return ""
	}
	return elementText(raw)
}

// elementText renders one list element the way a comma join does: strings
// unquoted, null as empty, anything else as its JSON text.
func elementText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
