package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Name               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ChatEventTopic     string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret      string
	AnonCookieName string
	AnonCookieAge  time.Duration
}

type AIConfig struct {
	OpenRouterAPIKey    string
	OpenRouterModel     string
	OpenRouterAltModels []string
	OpenAIAPIKey        string
	OpenAIModel         string
	OpenAIProject       string
	RequestTimeout      time.Duration
}

type RateLimitConfig struct {
	Limit    int
	Window   time.Duration
	UseRedis bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Name:               getEnv("APP_NAME", "Career Counselor"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ChatEventTopic:     getEnv("CHAT_EVENT_TOPIC_NAME", "CHAT_MESSAGE_SENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:      getEnv("JWT_SECRET", ""),
			AnonCookieName: getEnv("ANON_COOKIE_NAME", "anon_user_id"),
			AnonCookieAge:  time.Hour * 24 * 730,
		},
		Ai: AIConfig{
			OpenRouterAPIKey:    getEnv("OPENROUTER_API_KEY", ""),
			OpenRouterModel:     getEnv("OPENROUTER_MODEL", "openai/gpt-oss-120b:free"),
			OpenRouterAltModels: getEnvAsList("OPENROUTER_ALT_MODELS", defaultAltModels),
			OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIProject:       getEnv("OPENAI_PROJECT", ""),
			RequestTimeout:      getEnvAsDuration("LLM_REQUEST_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Limit:    getEnvAsInt("RATE_LIMIT_MAX", 8),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", 10*time.Second),
			UseRedis: getEnv("RATE_LIMIT_REDIS", "false") == "true",
		},
	}
}

var defaultAltModels = []string{
	"deepseek/deepseek-chat",
	"meta-llama/llama-3.1-8b-instruct:free",
	"google/gemma-2-9b-it:free",
	"mistralai/mistral-7b-instruct:free",
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
