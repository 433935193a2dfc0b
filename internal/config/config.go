// ABOUTME: Centralized configuration for the healthcare QA system
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the QA system
type Config struct {
	// LLM settings (any OpenAI-compatible endpoint, including Ollama)
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxAttempts    int
	RetryDelay     time.Duration

	// Knowledge cache settings
	DataDir            string
	RelevanceThreshold float64
	KnowledgeTopK      int

	// Retrieval settings
	CorpusTopK      int
	MaxContextChars int

	// Batch settings
	Workers            int
	CheckpointInterval int

	// API server settings
	ListenAddr string
}

// MaxWorkers caps the batch worker pool so the LLM backend is not overwhelmed
const MaxWorkers = 120

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:             os.Getenv("OPENAI_API_KEY"),
		BaseURL:            getEnv("HEALTHQA_BASE_URL", ""),
		ChatModel:          getEnv("HEALTHQA_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:     getEnv("HEALTHQA_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:            getEnvDuration("HEALTHQA_TIMEOUT", 30*time.Second),
		MaxAttempts:        getEnvInt("HEALTHQA_MAX_ATTEMPTS", 2),
		RetryDelay:         getEnvDuration("HEALTHQA_RETRY_DELAY", 2*time.Second),
		DataDir:            getEnv("HEALTHQA_DATA_DIR", defaultDataDir()),
		RelevanceThreshold: getEnvFloat("HEALTHQA_RELEVANCE_THRESHOLD", 5),
		KnowledgeTopK:      getEnvInt("HEALTHQA_KNOWLEDGE_TOP_K", 3),
		CorpusTopK:         getEnvInt("HEALTHQA_CORPUS_TOP_K", 5),
		MaxContextChars:    getEnvInt("HEALTHQA_MAX_CONTEXT_CHARS", 6000),
		Workers:            getEnvInt("HEALTHQA_WORKERS", 8),
		CheckpointInterval: getEnvInt("HEALTHQA_CHECKPOINT_INTERVAL", 50),
		ListenAddr:         getEnv("HEALTHQA_LISTEN_ADDR", ":8080"),
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges; worker counts above the cap are an error, not a clamp
func (c *Config) Validate() error {
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 10 {
		return fmt.Errorf("HEALTHQA_RELEVANCE_THRESHOLD must be 0-10, got %f", c.RelevanceThreshold)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("HEALTHQA_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("HEALTHQA_RETRY_DELAY must not be negative, got %s", c.RetryDelay)
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("HEALTHQA_WORKERS must be 1-%d, got %d", MaxWorkers, c.Workers)
	}
	if c.CheckpointInterval < 1 {
		return fmt.Errorf("HEALTHQA_CHECKPOINT_INTERVAL must be positive, got %d", c.CheckpointInterval)
	}
	if c.MaxContextChars < 1 {
		return fmt.Errorf("HEALTHQA_MAX_CONTEXT_CHARS must be positive, got %d", c.MaxContextChars)
	}
	return nil
}

// DBPath returns the SQLite database file path under the data directory
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "healthqa.db")
}

func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/healthqa"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "healthqa")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
