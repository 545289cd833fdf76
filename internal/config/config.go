package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	DefaultModel   string // e.g. "llama3", "gpt-4o-mini"
	FallbackModel  string // must differ from the default to be useful
	OllamaBaseURL  string
	OpenAIBaseURL  string
	OpenAIKey      string
	TimeoutSeconds int
}

type ChatConfig struct {
	HistoryLimit         int // messages kept in memory per session
	IdleTTLMinutes       int // sessions idle longer than this are evicted from memory
	RetrievalLimit       int // knowledge snippets per prompt
	SweepIntervalMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			DefaultModel:   getEnv("AI_DEFAULT_MODEL", "llama3"),
			FallbackModel:  getEnv("AI_FALLBACK_MODEL", "gpt-4o-mini"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("AI_TIMEOUT_SECONDS", 60),
		},
		Chat: ChatConfig{
			HistoryLimit:         getEnvAsInt("CHAT_HISTORY_LIMIT", 20),
			IdleTTLMinutes:       getEnvAsInt("CHAT_IDLE_TTL_MINUTES", 30),
			RetrievalLimit:       getEnvAsInt("CHAT_RETRIEVAL_LIMIT", 3),
			SweepIntervalMinutes: getEnvAsInt("CHAT_SWEEP_INTERVAL_MINUTES", 30),
		},
	}
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
