package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	GeminiAPIKey   string
	GeminiModel    string
	StagePath      string
	ExtractTimeout time.Duration
	LogLevel       string
	LogFormat      string
	LogFile        string
}

func Load() *Config {
	// Best-effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":3000"),
		DBPath:         getEnv("DB_PATH", "/data/medidor.db"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		StagePath:      getEnv("STAGE_PATH", "/data/stage"),
		ExtractTimeout: time.Duration(getEnvInt("EXTRACT_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
