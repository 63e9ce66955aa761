package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/logging"
)

func TestReplyText(t *testing.T) {
	assert.Equal(t, "hey", replyText(json.RawMessage(`{"role":"assistant","content":"hey"}`)))
}

func TestReplyTextLogsDecodeFailure(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logging.Setup(config.LogConfig{Level: "info", Format: "json"}, &buf)

	assert.Empty(t, replyText(nil))
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	assert.Empty(t, replyText(json.RawMessage(`{"role":5}`)))
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
