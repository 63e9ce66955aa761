// Command upstreamcheck exercises the configured upstream APIs directly,
// bypassing the HTTP server: it mints a speech token or sends one chat turn.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/logging"
	"github.com/zhouzirui/voice-companion/backend/internal/model/chat"
	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	speechmodel "github.com/zhouzirui/voice-companion/backend/internal/model/speech"
	"github.com/zhouzirui/voice-companion/backend/internal/service/ai"
	"github.com/zhouzirui/voice-companion/backend/internal/service/speech"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("无法加载 .env，改用系统环境变量")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("配置加载失败")
	}
	logging.Setup(config.LogConfig{Level: "debug", Format: "console"}, os.Stderr)

	mode := flag.String("mode", "", "测试模式: token 或 chat")
	text := flag.String("text", "Hello!", "chat 模式发送的用户消息")
	personaID := flag.String("persona", "", "chat 模式使用的 persona id，留空则不注入")
	model := flag.String("model", "", "模型名称，默认使用 OPENAI_DEFAULT_MODEL")
	timeout := flag.Duration("timeout", 45*time.Second, "请求超时时间")

	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "token":
		runToken(ctx, cfg)
	case "chat":
		runChat(ctx, cfg, *text, *personaID, *model)
	default:
		flag.Usage()
		log.Fatal().Msg("请通过 -mode=token 或 -mode=chat 指定测试模式")
	}
}

func runToken(ctx context.Context, cfg *config.Config) {
	client, err := speech.NewClient(cfg.Deepgram.APIKey,
		speech.WithBaseURL(cfg.Deepgram.BaseURL),
		speech.WithTimeout(cfg.Deepgram.Timeout),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("语音服务未启用，请先配置 DEEPGRAM_API_KEY")
	}

	log.Info().Str("base_url", cfg.Deepgram.BaseURL).Msg("开始签发临时凭证")
	grant, err := client.IssueGrant(ctx, speechmodel.DefaultScope())
	if err != nil {
		log.Fatal().Err(err).Msg("凭证签发失败")
	}

	resp := speechmodel.NewTokenResponse(grant)
	log.Info().
		Bool("has_token", resp.Token != "").
		Strs("scope", resp.Scope).
		Int("expires_in", resp.ExpiresIn).
		Msg("凭证签发成功")
}

func runChat(ctx context.Context, cfg *config.Config, text, personaID, model string) {
	if strings.TrimSpace(text) == "" {
		log.Fatal().Msg("chat 模式需要通过 -text 提供消息")
	}

	client, err := ai.NewClient(cfg.OpenAI.APIKey,
		ai.WithBaseURL(cfg.OpenAI.BaseURL),
		ai.WithTimeout(cfg.OpenAI.Timeout),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("大模型服务未启用，请先配置 OPENAI_API_KEY")
	}

	messages := []chat.Message{chat.TextMessage(chat.RoleUser, text)}
	if personaID != "" {
		composer := ai.NewComposer(persona.NewMemoryStore(persona.Seed()))
		messages, err = composer.Compose(personaID, nil, messages)
		if err != nil {
			log.Fatal().Err(err).Msg("persona 组装失败")
		}
	}
	if model == "" {
		model = cfg.OpenAI.DefaultModel
	}

	log.Info().Str("model", model).Str("persona", personaID).Msg("开始发送对话请求")
	resp, err := client.CreateChatCompletion(ctx, &chat.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("对话请求失败")
	}

	log.Info().
		Str("id", resp.ID).
		Str("model", resp.Model).
		RawJSON("usage", rawOrNull(resp.Usage)).
		Str("reply", replyText(resp.FirstMessage())).
		Msg("对话请求成功")
}

// replyText extracts the text of a completion message, logging a warning
// when the message cannot be decoded.
func replyText(raw json.RawMessage) string {
	var reply chat.Message
	if err := json.Unmarshal(raw, &reply); err != nil {
		log.Warn().Err(err).Str("message", string(raw)).Msg("无法解析回复消息")
		return ""
	}
	return reply.Text()
}

func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
