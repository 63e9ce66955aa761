package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/apierror"
)

// ErrorBody is the envelope every failed request answers with.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, label, message string) {
	RespondJSON(w, status, ErrorBody{Error: label, Message: message})
}

// RespondAPIError renders err as the error envelope, using its kind's status
// and label. Errors without a kind are reported as internal errors.
func RespondAPIError(w http.ResponseWriter, err error) {
	apiErr := apierror.From(err)
	RespondError(w, apiErr.Status(), apiErr.Kind.Label(), apiErr.Message)
}
