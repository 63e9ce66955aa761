package speech

import "encoding/json"

// Capabilities requested for every client token.
const (
	ScopeListen = "listen"
	ScopeSpeak  = "speak"
)

// TokenTTLSeconds is the lifetime reported to clients. Upstream's own expiry
// report is not consulted.
const TokenTTLSeconds = 30

// DefaultScope returns the capability pair requested from the grant endpoint.
func DefaultScope() []string {
	return []string{ScopeListen, ScopeSpeak}
}

// GrantRequest is the body sent to the upstream grant endpoint.
type GrantRequest struct {
	Scope []string `json:"scope"`
}

// GrantResponse is what the upstream grant endpoint returns. Older API
// versions name the credential "token" instead of "access_token".
type GrantResponse struct {
	AccessToken string          `json:"access_token,omitempty"`
	Token       string          `json:"token,omitempty"`
	ExpiresAt   json.RawMessage `json:"expires_at,omitempty"`
	ExpiresIn   *float64        `json:"expires_in,omitempty"`
	Scope       []string        `json:"scope,omitempty"`
}

// Credential returns whichever token field upstream populated.
func (g *GrantResponse) Credential() string {
	if g.AccessToken != "" {
		return g.AccessToken
	}
	return g.Token
}

// TokenResponse is the client-facing token payload.
type TokenResponse struct {
	Token     string          `json:"token,omitempty"`
	ExpiresAt json.RawMessage `json:"expires_at,omitempty"`
	Scope     []string        `json:"scope"`
	ExpiresIn int             `json:"expires_in"`
}

// NewTokenResponse reshapes an upstream grant into the client schema.
func NewTokenResponse(g *GrantResponse) TokenResponse {
	scope := g.Scope
	if len(scope) == 0 {
		scope = DefaultScope()
	}
	return TokenResponse{
		Token:     g.Credential(),
		ExpiresAt: g.ExpiresAt,
		Scope:     scope,
		ExpiresIn: TokenTTLSeconds,
	}
}
