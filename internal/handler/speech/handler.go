package speech

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/apierror"
	"github.com/zhouzirui/voice-companion/backend/internal/middleware"
	"github.com/zhouzirui/voice-companion/backend/internal/model/speech"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// TokenIssuer 抽象语音 API 的临时凭证签发，便于测试与替换实现
type TokenIssuer interface {
	IssueGrant(ctx context.Context, scope []string) (*speech.GrantResponse, error)
}

// Handler 语音凭证的HTTP处理器
type Handler struct {
	issuer TokenIssuer
}

// New 创建语音凭证处理器。issuer 为 nil 表示服务端未配置语音 API 密钥。
func New(issuer TokenIssuer) *Handler {
	return &Handler{issuer: issuer}
}

// RegisterRoutes 注册语音凭证相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/deepgram/token", h.handleIssueToken)
	r.Get("/deepgram/token", h.handleIssueToken)
}

// handleIssueToken mints one short-lived token per call; nothing is cached.
func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if h.issuer == nil {
		utils.RespondAPIError(w, apierror.New(apierror.ServerMisconfigured, "DEEPGRAM_API_KEY is not set"))
		return
	}

	grant, err := h.issuer.IssueGrant(r.Context(), speech.DefaultScope())
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("deepgram token generation failed")
		utils.RespondAPIError(w, apierror.Wrap(apierror.TokenGenerationFailed, err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, speech.NewTokenResponse(grant))
}
