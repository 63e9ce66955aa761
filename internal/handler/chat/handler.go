package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/apierror"
	"github.com/zhouzirui/voice-companion/backend/internal/metrics"
	"github.com/zhouzirui/voice-companion/backend/internal/middleware"
	"github.com/zhouzirui/voice-companion/backend/internal/model/chat"
	"github.com/zhouzirui/voice-companion/backend/internal/service/ai"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

const defaultTemperature = 0.7

// CompletionClient 抽象大模型 API，便于测试时替换为假实现
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req *chat.CompletionRequest) (*chat.CompletionResponse, error)
	CreateResponse(ctx context.Context, req *chat.ResponsesRequest) (*chat.ResponsesResponse, error)
}

// Handler 聊天代理的HTTP处理器。所有路由共用同一套逻辑，差异由 Route 描述。
type Handler struct {
	client       CompletionClient
	composer     *ai.Composer
	defaultModel string
}

// New 创建聊天代理处理器。client 为 nil 表示服务端未配置大模型密钥。
func New(client CompletionClient, composer *ai.Composer, defaultModel string) *Handler {
	return &Handler{
		client:       client,
		composer:     composer,
		defaultModel: defaultModel,
	}
}

// RegisterRoutes 按路由表注册聊天代理路由
func (h *Handler) RegisterRoutes(r chi.Router, routes []Route) {
	for _, route := range routes {
		r.Post(route.Path, h.handle(route))
	}
}

func (h *Handler) handle(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.client == nil {
			utils.RespondAPIError(w, apierror.New(apierror.ServerMisconfigured, "OPENAI_API_KEY is not set"))
			return
		}

		req, err := h.decodeRequest(r, route)
		if err != nil {
			utils.RespondAPIError(w, err)
			return
		}

		var payload any
		switch route.Mode {
		case ModeResponses:
			payload, err = h.respond(r.Context(), route, req)
		default:
			payload, err = h.complete(r.Context(), route, req)
		}
		if err != nil {
			apiErr := apierror.From(err)
			if apiErr.Kind == apierror.UpstreamRequestFailed {
				log.Error().
					Err(apiErr.Err).
					Str("request_id", middleware.GetRequestID(r.Context())).
					Str("route", route.Path).
					Msg("openai request failed")
			}
			utils.RespondAPIError(w, apiErr)
			return
		}

		utils.RespondJSON(w, http.StatusOK, payload)
	}
}

// complete runs the chat-completions flow: validate, compose, forward, reshape.
func (h *Handler) complete(ctx context.Context, route Route, req *proxyRequest) (any, error) {
	if len(req.Messages) == 0 {
		return nil, apierror.New(apierror.InvalidRequest, "messages[] is required")
	}

	messages := req.Messages
	if req.PersonaID != "" {
		composed, err := h.composer.Compose(req.PersonaID, req.Context, messages)
		if err != nil {
			return nil, personaError(req.PersonaID, err)
		}
		metrics.PersonaCompositions.WithLabelValues(req.PersonaID).Inc()
		messages = composed
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	resp, err := h.client.CreateChatCompletion(ctx, &chat.CompletionRequest{
		Model:       h.model(req),
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, apierror.Wrap(apierror.UpstreamRequestFailed, err)
	}

	reply := completionReply{
		Reply:   resp.FirstMessage(),
		Model:   resp.Model,
		Usage:   resp.Usage,
		ID:      resp.ID,
		Created: resp.Created,
	}
	if !route.PersonaAware {
		return reply, nil
	}
	return personaCompletionReply{completionReply: reply, Persona: personaField(req.PersonaID)}, nil
}

// respond runs the responses flow: flatten persona, context and conversation
// into one input string and forward it.
func (h *Handler) respond(ctx context.Context, route Route, req *proxyRequest) (any, error) {
	input, err := h.composer.ResponsesInput(req.PersonaID, req.Context, req.Input, req.Messages)
	switch {
	case errors.Is(err, ai.ErrEmptyInput):
		return nil, apierror.New(apierror.InvalidRequest, "Provide messages[] or input string")
	case err != nil:
		return nil, personaError(req.PersonaID, err)
	}
	if req.PersonaID != "" {
		metrics.PersonaCompositions.WithLabelValues(req.PersonaID).Inc()
	}

	resp, err := h.client.CreateResponse(ctx, &chat.ResponsesRequest{
		Model:           h.model(req),
		Input:           input,
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	})
	if err != nil {
		return nil, apierror.Wrap(apierror.UpstreamRequestFailed, err)
	}

	reply := responsesReply{
		ID:      resp.ID,
		Created: resp.CreatedTime(),
		Model:   resp.Model,
		Output:  resp.Output,
		Persona: personaField(req.PersonaID),
	}
	if text, ok := resp.ReplyText(); ok {
		reply.Reply = &text
	}
	return reply, nil
}

// decodeRequest reads the body according to the route's parsing policy.
// Lenient routes never fail here: an unparseable body is treated as empty
// and rejected later by field validation.
func (h *Handler) decodeRequest(r *http.Request, route Route) (*proxyRequest, error) {
	data, err := utils.ReadBody(r)
	if err != nil {
		return nil, apierror.Wrap(apierror.InvalidRequest, err)
	}

	var body map[string]json.RawMessage
	switch {
	case route.Lenient:
		body, _ = utils.DecodeObjectLenient(data)
	case len(bytes.TrimSpace(data)) > 0:
		body, err = utils.DecodeObject(data)
		if err != nil {
			return nil, apierror.New(apierror.InvalidRequest, "request body must be a JSON object")
		}
	}

	return parseProxyRequest(body, route.PersonaAware), nil
}

func (h *Handler) model(req *proxyRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return h.defaultModel
}

func personaError(personaID string, err error) error {
	if errors.Is(err, ai.ErrInvalidPersona) {
		return apierror.Newf(apierror.InvalidPersona, "Unknown persona: %s", personaID)
	}
	return err
}

func personaField(personaID string) *string {
	if personaID == "" {
		return nil
	}
	return &personaID
}
