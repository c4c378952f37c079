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
	SMTP     SMTPConfig
	Auth     AuthConfig
	Ai       AIConfig
	Watch    WatchConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	// JWTSecret signs device tokens issued by the pairing endpoint.
	JWTSecret string
	// PairSecretHash is the bcrypt hash of the pairing code shown in
	// the extension options page. Empty disables pairing auth.
	PairSecretHash string
	TokenTTLHours  int
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL     string
	HuggingFaceKey    string
	EmbeddingProvider string // "ollama", "jina" or "gemini"
	EmbeddingModel    string
	JinaKey           string
	GeminiKey         string
	// EmbedTopic is the in-process queue topic between session saves
	// and the embedding worker.
	EmbedTopic string
}

type WatchConfig struct {
	// CheckIntervalMinutes is the cadence of the background price
	// watcher over recorded history.
	CheckIntervalMinutes int
	// DropThresholdPct is the default relative drop that raises an
	// alert when a product has no threshold of its own.
	DropThresholdPct float64
	// HistoryDays bounds how much history trend analysis reads.
	HistoryDays int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "chrome-extension://"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "TabSensei"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			PairSecretHash: getEnv("PAIR_SECRET_HASH", ""),
			TokenTTLHours:  getEnvAsInt("TOKEN_TTL_HOURS", 720),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceKey:    getEnv("HUGGINGFACE_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			JinaKey:           getEnv("JINA_API_KEY", ""),
			GeminiKey:         getEnv("GEMINI_API_KEY", ""),
			EmbedTopic:        getEnv("EMBED_TOPIC", "session_embed"),
		},
		Watch: WatchConfig{
			CheckIntervalMinutes: getEnvAsInt("WATCH_CHECK_INTERVAL_MINUTES", 30),
			DropThresholdPct:     getEnvAsFloat("WATCH_DROP_THRESHOLD_PCT", 0.10),
			HistoryDays:          getEnvAsInt("WATCH_HISTORY_DAYS", 30),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
