package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/voice-companion/backend/internal/model/chat"
	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
)

var (
	// ErrInvalidPersona is returned when a persona id is not in the registry.
	ErrInvalidPersona = errors.New("invalid persona id")
	// ErrEmptyInput is returned when a responses request has neither input text nor messages.
	ErrEmptyInput = errors.New("provide messages[] or input string")
)

// Composer merges a persona's base prompt with per-request user context.
// It performs no I/O; the same inputs always produce the same output.
type Composer struct {
	personas persona.Store
}

// NewComposer creates a composer backed by the given persona registry.
func NewComposer(personas persona.Store) *Composer {
	return &Composer{personas: personas}
}

// SystemPrompt returns the persona prompt followed by the rendered context
// block, if any context field is present.
func (c *Composer) SystemPrompt(personaID string, userCtx *chat.Context) (string, error) {
	p, err := c.resolve(personaID)
	if err != nil {
		return "", err
	}

	lines := ContextLines(userCtx)
	if len(lines) == 0 {
		return p.SystemPrompt, nil
	}

	var builder strings.Builder
	builder.WriteString(p.SystemPrompt)
	builder.WriteString("\n\nContext:\n- ")
	builder.WriteString(strings.Join(lines, "\n- "))
	return builder.String(), nil
}

// Compose prepends the composed system message to messages. Caller supplied
// system messages are dropped so the persona prompt is the only one; the
// remaining messages keep their order.
func (c *Composer) Compose(personaID string, userCtx *chat.Context, messages []chat.Message) ([]chat.Message, error) {
	system, err := c.SystemPrompt(personaID, userCtx)
	if err != nil {
		return nil, err
	}

	composed := make([]chat.Message, 0, len(messages)+1)
	composed = append(composed, chat.TextMessage(chat.RoleSystem, system))
	for _, msg := range messages {
		if msg.Role == chat.RoleSystem {
			continue
		}
		composed = append(composed, msg)
	}
	return composed, nil
}

// ResponsesInput flattens persona, context and conversation into the single
// text blob accepted by the responses endpoint. personaID may be empty; when
// set it is resolved before the input is checked.
func (c *Composer) ResponsesInput(personaID string, userCtx *chat.Context, input string, messages []chat.Message) (string, error) {
	parts := make([]string, 0, 3)
	if personaID != "" {
		p, err := c.resolve(personaID)
		if err != nil {
			return "", err
		}
		parts = append(parts, "SYSTEM: "+p.SystemPrompt)
		if lines := ContextLines(userCtx); len(lines) > 0 {
			parts = append(parts, "CONTEXT:\n- "+strings.Join(lines, "\n- "))
		}
	}

	switch {
	case strings.TrimSpace(input) != "":
		parts = append(parts, "USER: "+strings.TrimSpace(input))
	case len(messages) > 0:
		parts = append(parts, FlattenMessages(messages))
	default:
		return "", ErrEmptyInput
	}

	return strings.Join(parts, "\n\n"), nil
}

// ContextLines renders the present context fields in fixed order: user name,
// goal, preferences.
func ContextLines(userCtx *chat.Context) []string {
	if userCtx.Empty() {
		return nil
	}
	lines := make([]string, 0, 3)
	if userCtx.UserName != "" {
		lines = append(lines, "User name: "+userCtx.UserName)
	}
	if userCtx.Goal != "" {
		lines = append(lines, "Goal: "+userCtx.Goal)
	}
	if len(userCtx.Preferences) > 0 {
		lines = append(lines, "Preferences: "+strings.Join(userCtx.Preferences, ", "))
	}
	return lines
}

// FlattenMessages renders each message as "ROLE: content", one per line.
func FlattenMessages(messages []chat.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = chat.RoleUser
		}
		lines = append(lines, strings.ToUpper(role)+": "+msg.Text())
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) resolve(personaID string) (persona.Persona, error) {
	p, ok := c.personas.FindByID(personaID)
	if !ok {
		return persona.Persona{}, fmt.Errorf("%w: %s", ErrInvalidPersona, personaID)
	}
	return p, nil
}
