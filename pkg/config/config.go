package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"mnemo/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// LLM (OpenAI-compatible endpoint, e.g. Groq)
	LLMBaseURL string
	LLMAPIKey  string
	ModelID    string

	// Embeddings
	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Episodic store (Postgres + pgvector)
	PostgresDSN string

	// Knowledge graph (Neo4j); GraphEnabled=false selects the
	// vector-only variant with no semantic fact memory
	GraphEnabled  bool
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		ModelID:             getEnv("MODEL_ID", "llama-3.3-70b-versatile"),
		EmbeddingBaseURL:    getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingAPIKey:     getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1536),
		PostgresDSN:         getEnv("POSTGRES_DSN", ""),
		GraphEnabled:        getEnvBool("GRAPH_ENABLED", true),
		Neo4jURI:            getEnv("NEO4J_URI", ""),
		Neo4jUser:           getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:       getEnv("NEO4J_PASSWORD", ""),
	}

	// The embedding endpoint shares the LLM key unless overridden
	if cfg.EmbeddingAPIKey == "" {
		cfg.EmbeddingAPIKey = cfg.LLMAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required secrets are present. Startup must refuse
// to proceed when any of these are missing.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return errors.NewConfigMissingRequired("LLM_API_KEY")
	}
	if c.PostgresDSN == "" {
		return errors.NewConfigMissingRequired("POSTGRES_DSN")
	}
	if c.GraphEnabled {
		if c.Neo4jURI == "" {
			return errors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return errors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return errors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	}
	if c.EmbeddingDimensions <= 0 {
		return errors.NewConfigMissingRequired("EMBEDDING_DIMENSIONS")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultValue
}
