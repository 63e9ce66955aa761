package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/apierror"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// HeaderAPIKey is the alternative credential header for clients that cannot
// set Authorization.
const HeaderAPIKey = "X-API-Key"

const bearerPrefix = "Bearer "

// ExtractAPIKey returns the credential a client presented. A bearer token in
// Authorization wins over X-API-Key.
func ExtractAPIKey(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimPrefix(auth, bearerPrefix), true
	}
	if values, ok := r.Header[http.CanonicalHeaderKey(HeaderAPIKey)]; ok && len(values) > 0 {
		return values[0], true
	}
	return "", false
}

// RequireAPIKey gates requests on a shared secret. With no secret configured
// it lets everything through outside production and refuses everything in
// production.
func RequireAPIKey(expected string, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				if production {
					utils.RespondAPIError(w, apierror.New(apierror.ServerMisconfigured, "API key not configured"))
					return
				}
				log.Warn().Str("path", r.URL.Path).Msg("API_KEY not set, skipping API key auth in non-production")
				next.ServeHTTP(w, r)
				return
			}

			provided, ok := ExtractAPIKey(r)
			if !ok || provided == "" || provided != expected {
				utils.RespondAPIError(w, apierror.New(apierror.Unauthorized, "Invalid or missing API key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
