package persona

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var seedYAML []byte

// Persona captures a companion voice: listing metadata plus the system prompt
// that flavors every composed conversation.
type Persona struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	ShortDescription string   `json:"shortDescription" yaml:"shortDescription"`
	Tags             []string `json:"tags" yaml:"tags"`
	TTSVoiceHint     string   `json:"ttsVoiceHint" yaml:"ttsVoiceHint"`
	SystemPrompt     string   `json:"-" yaml:"systemPrompt"`
}

// Summary is the public view of a persona exposed to listing clients.
// The system prompt never leaves the server.
type Summary struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"shortDescription"`
	Tags             []string `json:"tags"`
	TTSVoiceHint     string   `json:"ttsVoiceHint"`
}

// Summary strips the persona down to its public fields.
func (p Persona) Summary() Summary {
	return Summary{
		ID:               p.ID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		Tags:             append([]string(nil), p.Tags...),
		TTSVoiceHint:     p.TTSVoiceHint,
	}
}

type document struct {
	Personas []Persona `yaml:"personas"`
}

// Seed returns the built-in companion personas.
func Seed() []Persona {
	items, err := Load(seedYAML)
	if err != nil {
		// embedded data is validated by tests; a failure here is a build defect
		panic(fmt.Sprintf("persona: invalid embedded seed: %v", err))
	}
	return items
}

// LoadFile reads a persona document from disk.
func LoadFile(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}
	return Load(data)
}

// Load parses a YAML persona document and validates every entry.
func Load(data []byte) ([]Persona, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse persona YAML: %w", err)
	}
	if len(doc.Personas) == 0 {
		return nil, errors.New("persona document defines no personas")
	}

	seen := make(map[string]struct{}, len(doc.Personas))
	for i, p := range doc.Personas {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("persona[%d]: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("persona[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return doc.Personas, nil
}

func (p Persona) validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("id is required")
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%s: name is required", p.ID)
	case strings.TrimSpace(p.SystemPrompt) == "":
		return fmt.Errorf("%s: systemPrompt is required", p.ID)
	}
	return nil
}
