package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, read once at startup
type Config struct {
	// OpenAI-compatible provider
	OpenAIAPIKey   string
	EmbeddingModel string
	LLMModel       string

	// Vector store (Elasticsearch)
	VectorDBHost     string
	VectorDBIndex    []string
	VectorDBUsername string
	VectorDBPassword string
	VectorDBTimeout  time.Duration

	// Optional Redis embedding cache; empty host disables caching
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Server
	Port    int
	TopDocs int
}

// Load reads configuration from the environment (a .env file is honored when
// present). A missing required value is an error; the caller treats it as
// fatal at startup.
func Load() (*Config, error) {
	// Best effort; absent .env just means plain env vars
	_ = godotenv.Load()

	cfg := &Config{
		VectorDBUsername: os.Getenv("VECTORDB_USER_NAME"),
		VectorDBPassword: os.Getenv("VECTORDB_PASSWORD"),
		VectorDBTimeout:  30 * time.Second,
		RedisHost:        os.Getenv("REDIS_HOST"),
		RedisPort:        6379,
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		Port:             8080,
		TopDocs:          5,
	}

	var err error
	if cfg.OpenAIAPIKey, err = required("OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.EmbeddingModel, err = required("EMBEDDING_MODEL_NAME"); err != nil {
		return nil, err
	}
	if cfg.LLMModel, err = required("LLM_MODEL_NAME"); err != nil {
		return nil, err
	}
	if cfg.VectorDBHost, err = required("VECTORDB_HOST"); err != nil {
		return nil, err
	}

	rawIndex, err := required("VECTORDB_INDEX")
	if err != nil {
		return nil, err
	}
	for _, index := range strings.Split(rawIndex, ",") {
		if index = strings.TrimSpace(index); index != "" {
			cfg.VectorDBIndex = append(cfg.VectorDBIndex, index)
		}
	}
	if len(cfg.VectorDBIndex) == 0 {
		return nil, fmt.Errorf("VECTORDB_INDEX contains no index names")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}
	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.RedisPort = port
		}
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if dbNum, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = dbNum
		}
	}
	if topStr := os.Getenv("TOP_DOCS"); topStr != "" {
		if top, err := strconv.Atoi(topStr); err == nil && top > 0 {
			cfg.TopDocs = top
		}
	}

	return cfg, nil
}

func required(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}
