package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
)

func TestLoadPersonasDefaultsToSeed(t *testing.T) {
	store, err := loadPersonas(config.PersonaConfig{})
	require.NoError(t, err)
	assert.Len(t, store.List(), 6)
}

func TestLoadPersonasFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
personas:
  - id: night_owl
    name: Night Owl
    systemPrompt: You keep people company late at night.
`), 0o600))

	store, err := loadPersonas(config.PersonaConfig{File: path})
	require.NoError(t, err)
	require.Len(t, store.List(), 1)
	assert.Equal(t, "night_owl", store.List()[0].ID)

	_, err = loadPersonas(config.PersonaConfig{File: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestPersonasCommandWithholdsPrompts(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PERSONAS_FILE", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"personas"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())

	assert.NotContains(t, out.String(), "systemPrompt")
	var body struct {
		Personas []map[string]any `json:"personas"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Len(t, body.Personas, 6)
}

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
