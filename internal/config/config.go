package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment modes.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	defaultPort            = "3000"
	defaultDeepgramBaseURL = "https://api.deepgram.com"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultUpstreamTimeout = 30
)

var (
	productionOrigins  = []string{"https://your-app-domain.com"}
	developmentOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Deepgram DeepgramConfig
	OpenAI   OpenAIConfig
	Log      LogConfig
	Personas PersonaConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	timeout, err := loadUpstreamTimeout()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Auth: AuthConfig{
			APIKey: strings.TrimSpace(os.Getenv("API_KEY")),
		},
		Deepgram: DeepgramConfig{
			APIKey:  strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			BaseURL: getEnvOrDefault("DEEPGRAM_BASE_URL", defaultDeepgramBaseURL),
			Timeout: timeout,
		},
		OpenAI: OpenAIConfig{
			APIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:      getEnvOrDefault("OPENAI_BASE_URL", defaultOpenAIBaseURL),
			DefaultModel: getEnvOrDefault("OPENAI_DEFAULT_MODEL", defaultOpenAIModel),
			Timeout:      timeout,
		},
		Log:      loadLogConfig(server.Env),
		Personas: PersonaConfig{File: strings.TrimSpace(os.Getenv("PERSONAS_FILE"))},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
	Env  string
	// ExposeErrors puts panic details in responses. Only an explicit
	// development mode enables it.
	ExposeErrors   bool
	AllowedOrigins []string
	MetricsEnabled bool
}

// IsProduction reports whether the process runs in production mode.
func (c ServerConfig) IsProduction() bool { return c.Env == EnvProduction }

// IsDevelopment reports whether the process runs in development mode.
func (c ServerConfig) IsDevelopment() bool { return c.Env == EnvDevelopment }

// AuthConfig holds the shared secret clients must present.
type AuthConfig struct {
	APIKey string
}

// DeepgramConfig 描述语音 API 的凭证与地址。
type DeepgramConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Enabled 表示是否提供了必需的密钥。
func (c DeepgramConfig) Enabled() bool { return c.APIKey != "" }

// OpenAIConfig 描述大模型 API 的凭证与地址。
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// Enabled 表示是否提供了必需的密钥。
func (c OpenAIConfig) Enabled() bool { return c.APIKey != "" }

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Format string
}

// PersonaConfig points at an optional persona document overriding the built-in seed.
type PersonaConfig struct {
	File string
}

// loadServerConfig 解析服务器监听地址与运行模式。
func loadServerConfig() (ServerConfig, error) {
	port := getEnvOrDefault("PORT", defaultPort)

	var addr string
	switch {
	case strings.Contains(port, ":"):
		// 允许用户直接传入 ":3000" 或 "127.0.0.1:3000"。
		addr = port
	case strings.Contains(port, " "):
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	default:
		addr = ":" + port
	}

	env, explicit := loadEnvMode()

	metrics, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return ServerConfig{}, err
	}

	origins := parseListEnv("ALLOWED_ORIGINS")
	if len(origins) == 0 {
		if env == EnvProduction {
			origins = append(origins, productionOrigins...)
		} else {
			origins = append(origins, developmentOrigins...)
		}
	}

	return ServerConfig{
		Addr:           addr,
		Env:            env,
		ExposeErrors:   explicit && env == EnvDevelopment,
		AllowedOrigins: origins,
		MetricsEnabled: metrics,
	}, nil
}

// loadEnvMode returns the run mode and whether it was set explicitly. Any
// value is accepted; only "production" enables production behaviour.
func loadEnvMode() (string, bool) {
	env := strings.ToLower(strings.TrimSpace(getEnvOrDefault("APP_ENV", os.Getenv("NODE_ENV"))))
	if env == "" {
		return EnvDevelopment, false
	}
	return env, true
}

func loadUpstreamTimeout() (time.Duration, error) {
	seconds, err := parseOptionalIntEnv("UPSTREAM_TIMEOUT_SECONDS")
	if err != nil {
		return 0, err
	}
	timeout := defaultUpstreamTimeout
	if seconds != nil {
		if *seconds < 0 {
			return 0, fmt.Errorf("invalid UPSTREAM_TIMEOUT_SECONDS value %d", *seconds)
		}
		timeout = *seconds
	}
	return time.Duration(timeout) * time.Second, nil
}

func loadLogConfig(env string) LogConfig {
	level, format := "info", "json"
	if env == EnvDevelopment {
		level, format = "debug", "console"
	}
	return LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", level)),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", format)),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
