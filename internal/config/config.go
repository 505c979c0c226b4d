package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Embedding backend
	EmbeddingBackend  string // "local" or "openai"
	EmbeddingModel    string
	OpenAIAPIKey      string
	LocalEmbeddingDim int

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Query defaults
	TopKSections int
	TopKChunks   int
	TopKPlans    int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		EmbeddingBackend:  envOr("EMBEDDING_BACKEND", "local"),
		EmbeddingModel:    envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		LocalEmbeddingDim: envInt("LOCAL_EMBEDDING_DIM", 384),

		ChunkSize:    envInt("CHUNK_SIZE", 1000),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),

		TopKSections: envInt("TOP_K_SECTIONS", 5),
		TopKChunks:   envInt("TOP_K_CHUNKS", 5),
		TopKPlans:    envInt("TOP_K_PLANS", 3),
	}

	if cfg.LocalEmbeddingDim <= 0 {
		cfg.LocalEmbeddingDim = 384
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 5
	}
	if cfg.TopKSections <= 0 {
		cfg.TopKSections = 5
	}
	if cfg.TopKChunks <= 0 {
		cfg.TopKChunks = 5
	}
	if cfg.TopKPlans <= 0 {
		cfg.TopKPlans = 3
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.EmbeddingBackend {
	case "local":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required with EMBEDDING_BACKEND=openai")
		}
	default:
		return fmt.Errorf("unknown EMBEDDING_BACKEND %q", c.EmbeddingBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
