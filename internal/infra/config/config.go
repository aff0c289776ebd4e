package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Vector index backends.
const (
	BackendPinecone = "pinecone"
	BackendPostgres = "postgres"
)

type Config struct {
	Env  string
	Port string

	GoogleAPIKey  string
	GoogleBaseURL string

	PineconeAPIKey    string
	PineconeIndexHost string
	PineconeIndexName string

	VectorBackend string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string

	EmbeddingModel        string
	GenerationModel       string
	GenerationTemperature float64
	GenerationMaxTokens   int
	TopK                  int

	// Per-provider call timeouts in seconds.
	EmbedderTimeout  int
	IndexTimeout     int
	GeneratorTimeout int

	OTelLogs bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "5000"),

		GoogleAPIKey:  getSecret("GOOGLE_API_KEY", "GOOGLE_API_KEY_FILE", ""),
		GoogleBaseURL: getEnv("GOOGLE_API_BASE_URL", "https://generativelanguage.googleapis.com"),

		PineconeAPIKey:    getSecret("PINECONE_API_KEY", "PINECONE_API_KEY_FILE", ""),
		PineconeIndexHost: getEnv("PINECONE_INDEX_HOST", ""),
		PineconeIndexName: getEnv("PINECONE_INDEX_NAME", "ncai"),

		VectorBackend: getEnv("VECTOR_BACKEND", BackendPinecone),
		DBHost:        getEnv("DB_HOST", "rag-db"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "rag_user"),
		DBPassword:    getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "rag_password"),
		DBName:        getEnv("DB_NAME", "rag_db"),

		EmbeddingModel:        getEnv("EMBEDDING_MODEL", "embedding-001"),
		GenerationModel:       getEnv("GENERATION_MODEL", "gemini-1.5-flash"),
		GenerationTemperature: getEnvFloat("GENERATION_TEMPERATURE", 0.3),
		GenerationMaxTokens:   getEnvInt("GENERATION_MAX_TOKENS", 1000),
		TopK:                  getEnvInt("RAG_TOP_K", 6),

		EmbedderTimeout:  getEnvInt("EMBEDDER_TIMEOUT", 15),
		IndexTimeout:     getEnvInt("INDEX_TIMEOUT", 15),
		GeneratorTimeout: getEnvInt("GENERATOR_TIMEOUT", 60),

		OTelLogs: getEnvBool("LOG_OTEL", false),
	}
}

// Validate reports the configuration errors that must prevent the
// answer pipeline from initializing. The server still starts in
// degraded mode when this fails.
func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
	}
	switch c.VectorBackend {
	case BackendPinecone:
		if c.PineconeAPIKey == "" {
			return fmt.Errorf("PINECONE_API_KEY environment variable is not set")
		}
		if c.PineconeIndexHost == "" {
			return fmt.Errorf("PINECONE_INDEX_HOST environment variable is not set")
		}
	case BackendPostgres:
		// DB settings all have defaults; connectivity is checked at
		// pool construction.
	default:
		return fmt.Errorf("unknown vector backend %q", c.VectorBackend)
	}
	return nil
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
