package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Sync     SyncConfig
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
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	BackendBaseURL string
	RequestTimeout time.Duration
}

type SyncConfig struct {
	TopicName          string
	StalenessThreshold time.Duration
	RetentionWindow    time.Duration
}

type ChatConfig struct {
	HistoryLimit        int
	SimilarityThreshold float64
	SourcesLimit        int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			BackendBaseURL: getEnv("AI_BACKEND_BASE_URL", "http://localhost:8001"),
			RequestTimeout: getEnvAsDuration("AI_BACKEND_TIMEOUT", 30*time.Second),
		},
		Sync: SyncConfig{
			TopicName:          getEnv("SYNC_NOTE_TOPIC_NAME", "SYNC_NOTE_EMBEDDING"),
			StalenessThreshold: getEnvAsDuration("SYNC_STALENESS_THRESHOLD", time.Hour),
			RetentionWindow:    getEnvAsDuration("SYNC_RETENTION_WINDOW", 30*24*time.Hour),
		},
		Chat: ChatConfig{
			HistoryLimit:        getEnvAsInt("CHAT_HISTORY_LIMIT", 10),
			SimilarityThreshold: getEnvAsFloat("CHAT_SIMILARITY_THRESHOLD", 0.3),
			SourcesLimit:        getEnvAsInt("CHAT_SOURCES_LIMIT", 5),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
