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
	Oracle   OracleConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type OracleConfig struct {
	Provider       string // "gemini" or "ollama"
	Model          string
	OllamaBaseURL  string
	GeminiAPIKey   string
	TimeoutSeconds int
}

type AuthConfig struct {
	TokenCacheTTLSeconds int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Oracle: OracleConfig{
			Provider:       getEnv("ORACLE_PROVIDER", "gemini"),
			Model:          getEnv("ORACLE_MODEL", "gemini-1.5-flash"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("ORACLE_TIMEOUT_SECONDS", 120),
		},
		Auth: AuthConfig{
			TokenCacheTTLSeconds: getEnvAsInt("TOKEN_CACHE_TTL_SECONDS", 300),
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
