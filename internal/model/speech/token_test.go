package speech

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenResponseFromAccessToken(t *testing.T) {
	var grant GrantResponse
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"abc","expires_at":"2025-01-01T00:00:00Z","expires_in":600}`), &grant))

	out, err := json.Marshal(NewTokenResponse(&grant))
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"abc","expires_at":"2025-01-01T00:00:00Z","scope":["listen","speak"],"expires_in":30}`, string(out))
}

func TestNewTokenResponseLegacyFieldsAndScope(t *testing.T) {
	grant := GrantResponse{Token: "legacy", Scope: []string{"listen"}}
	resp := NewTokenResponse(&grant)

	assert.Equal(t, "legacy", resp.Token)
	assert.Equal(t, []string{"listen"}, resp.Scope)
	assert.Equal(t, 30, resp.ExpiresIn)
	assert.Nil(t, resp.ExpiresAt)
}

func TestCredentialPrefersAccessToken(t *testing.T) {
	grant := GrantResponse{AccessToken: "new", Token: "old"}
	assert.Equal(t, "new", grant.Credential())
}
