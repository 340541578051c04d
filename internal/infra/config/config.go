package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries process configuration resolved from the environment.
type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ConverterURL     string
	ConverterTimeout int // seconds

	EmbedderURL     string
	EmbeddingModel  string
	EmbedderTimeout int // seconds
	EmbedderRPS     float64

	RerankEnabled bool
	RerankURL     string
	RerankModel   string
	RerankTimeout int // seconds

	GeneratorURL     string
	GeneratorModel   string
	GeneratorTimeout int // seconds
	AnswerMaxTokens  int

	LexicalEnabled bool
	FanOutLimit    int
	CacheSize      int
	CacheTTL       int // minutes

	WorkerEnabled bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		DBHost:     getEnv("DB_HOST", "docqa-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "docqa_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "docqa_password"),
		DBName:     getEnv("DB_NAME", "docqa_db"),

		ConverterURL:     getEnv("CONVERTER_URL", "http://doc-converter:8020"),
		ConverterTimeout: getEnvInt("CONVERTER_TIMEOUT", 120),

		EmbedderURL:     getEnv("EMBEDDER_URL", "http://ollama:11434"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "embeddinggemma"),
		EmbedderTimeout: getEnvInt("EMBEDDER_TIMEOUT", 30),
		EmbedderRPS:     getEnvFloat("EMBEDDER_RPS", 0),

		RerankEnabled: getEnvBool("RERANK_ENABLED", true),
		RerankURL:     getEnv("RERANK_URL", "http://reranker:8001"),
		RerankModel:   getEnv("RERANK_MODEL", "bge-reranker-base"),
		RerankTimeout: getEnvInt("RERANK_TIMEOUT", 10),

		GeneratorURL:     getEnv("GENERATOR_URL", "http://ollama:11434"),
		GeneratorModel:   getEnv("GENERATOR_MODEL", "gemma3:4b"),
		GeneratorTimeout: getEnvInt("GENERATOR_TIMEOUT", 60),
		AnswerMaxTokens:  getEnvInt("ANSWER_MAX_TOKENS", 500),

		LexicalEnabled: getEnvBool("LEXICAL_ENABLED", true),
		FanOutLimit:    getEnvInt("QUERY_FANOUT_LIMIT", 4),
		CacheSize:      getEnvInt("ANSWER_CACHE_SIZE", 128),
		CacheTTL:       getEnvInt("ANSWER_CACHE_TTL_MINUTES", 10),

		WorkerEnabled: getEnvBool("INGEST_WORKER_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
