package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/voice-companion/backend/internal/apierror"
	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/chat"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/persona"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/speech"
	middlewarePkg "github.com/zhouzirui/voice-companion/backend/internal/middleware"
	personaModel "github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	aiService "github.com/zhouzirui/voice-companion/backend/internal/service/ai"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// Dependencies 汇总路由所需的服务。Speech 与 Chat 为 nil 表示对应的上游密钥未配置，
// 相关路由会返回 Server misconfiguration。
type Dependencies struct {
	Server   config.ServerConfig
	APIKey   string
	Personas personaModel.Store
	Speech   speech.TokenIssuer
	Chat     chat.CompletionClient
	Model    string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewarePkg.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarePkg.Logger)
	r.Use(middlewarePkg.Metrics)
	r.Use(middlewarePkg.Recoverer(deps.Server.ExposeErrors))
	r.Use(middlewarePkg.CORS(deps.Server.AllowedOrigins))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	r.Get("/health", handleHealth)
	if deps.Server.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Create handlers
	personaHandler := persona.New(deps.Personas)
	speechHandler := speech.New(deps.Speech)
	chatHandler := chat.New(deps.Chat, aiService.NewComposer(deps.Personas), deps.Model)

	r.Group(func(gated chi.Router) {
		gated.Use(middlewarePkg.RequireAPIKey(deps.APIKey, deps.Server.IsProduction()))

		gated.Route("/api", func(api chi.Router) {
			api.NotFound(handleNotFound)
			api.MethodNotAllowed(handleNotFound)

			personaHandler.RegisterRoutes(api)
			speechHandler.RegisterRoutes(api)
			chatHandler.RegisterRoutes(api, chat.APIRoutes)
		})

		// Aliases for clients configured against the upstream SDK paths
		chatHandler.RegisterRoutes(gated, chat.CompatRoutes)
	})

	return r
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	utils.RespondAPIError(w, apierror.New(apierror.NotFound, ""))
}
