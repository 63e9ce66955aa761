package persona_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
)

func TestSeedContainsCompanionPersonas(t *testing.T) {
	items := persona.Seed()
	require.Len(t, items, 6)

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{
		"guidance_counselor",
		"mindful_mentor",
		"pragmatic_coach",
		"creative_muse",
		"empathetic_friend",
		"stoic_companion",
	}, ids)
}

func TestSeedPromptsAreSingleLine(t *testing.T) {
	for _, p := range persona.Seed() {
		assert.NotContains(t, p.SystemPrompt, "\n", p.ID)
		assert.NotContains(t, p.ShortDescription, "\n", p.ID)
	}
}

func TestListNeverExposesSystemPrompt(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())

	payload, err := json.Marshal(store.List())
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "systemPrompt")

	for _, summary := range store.List() {
		full, ok := store.FindByID(summary.ID)
		require.True(t, ok, summary.ID)
		assert.NotEmpty(t, full.SystemPrompt, summary.ID)
	}
}

func TestPersonaJSONOmitsSystemPrompt(t *testing.T) {
	p, ok := persona.NewMemoryStore(persona.Seed()).FindByID("pragmatic_coach")
	require.True(t, ok)

	payload, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), p.SystemPrompt)
}

func TestFindByIDUnknown(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())
	_, ok := store.FindByID("missing")
	assert.False(t, ok)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())

	list := store.List()
	list[0].Tags[0] = "mutated"
	p, _ := store.FindByID(list[0].ID)
	p.Tags[1] = "mutated"

	again, _ := store.FindByID(list[0].ID)
	assert.Equal(t, []string{"supportive", "structured", "accountability"}, again.Tags)
}

func TestMemoryStoreKeepsFirstDuplicate(t *testing.T) {
	store := persona.NewMemoryStore([]persona.Persona{
		{ID: "a", Name: "First", SystemPrompt: "one"},
		{ID: "a", Name: "Second", SystemPrompt: "two"},
	})
	require.Len(t, store.List(), 1)
	p, _ := store.FindByID("a")
	assert.Equal(t, "First", p.Name)
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":          "personas: []",
		"missing id":     "personas:\n  - name: X\n    systemPrompt: p",
		"missing prompt": "personas:\n  - id: x\n    name: X",
		"duplicate":      "personas:\n  - {id: x, name: X, systemPrompt: p}\n  - {id: x, name: Y, systemPrompt: q}",
		"not yaml":       "personas: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := persona.Load([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	doc := strings.Join([]string{
		"personas:",
		"  - id: night_owl",
		"    name: Night Owl",
		"    tags: [late, calm]",
		"    systemPrompt: You keep people company at night.",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	items, err := persona.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "night_owl", items[0].ID)
	assert.Equal(t, []string{"late", "calm"}, items[0].Tags)

	_, err = persona.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
