package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Memory store backend: "file", "redis", or "postgres".
	MemoryBackend string
	MemoryDir     string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// Engine tuning knobs. The defaults mirror the behavior the playbook was
	// calibrated against; override with care.
	ColdThreshold       int
	HistoryCap          int
	PhraseCap           int
	TopicsCap           int
	SimilarityThreshold float64

	// Simulator settings.
	WorkerCount   int
	MaxTurns      int
	Conversations int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MemoryBackend: getEnv("MEMORY_BACKEND", "file"),
		MemoryDir:     getEnv("MEMORY_DIR", "data/memories"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ColdThreshold:       getEnvAsInt("COLD_THRESHOLD", 4),
		HistoryCap:          getEnvAsInt("HISTORY_CAP", 100),
		PhraseCap:           getEnvAsInt("PHRASE_CAP", 50),
		TopicsCap:           getEnvAsInt("TOPICS_CAP", 10),
		SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.8),

		WorkerCount:   getEnvAsInt("WORKER_COUNT", 2),
		MaxTurns:      getEnvAsInt("MAX_TURNS", 20),
		Conversations: getEnvAsInt("CONVERSATIONS", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
