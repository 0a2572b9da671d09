// ABOUTME: Centralized configuration for the quiz engine, CLI, and servers
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Question bank backends
const (
	BackendSQLite   = "sqlite"
	BackendSnapshot = "snapshot"
	BackendCharm    = "charm"
)

// Config holds all configuration for the quiz system
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int // transport retries inside the OpenAI client
	RetryDelay     time.Duration

	// Documents and retrieval
	DocumentsDir   string
	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int
	TopK           int // chunks handed to PDF chat
	ContextK       int // chunks retrieved as the generation pool

	// Generation and sessions
	MaxAttempts  int
	MaxQuestions int
	RandomBatch  int
	StemMemory   int
	SaveToBank   bool

	// Question bank
	Backend      string
	DBPath       string
	SnapshotPath string
	CharmHost    string
	CharmDBName  string
	AutoSync     bool

	// Servers and logging
	HTTPAddr string
	LogMode  string

	// Course (topics and excluded terms)
	CourseFile string
	Course     *Course
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("MODEL_ID", "gpt-4o-mini"),
		EmbeddingModel: getEnv("QUIZ_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 0),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		DocumentsDir:   getEnv("QUIZ_DOCUMENTS_DIR", "gaddis_files"),
		ChunkSize:      getEnvInt("QUIZ_CHUNK_SIZE", 1000),
		ChunkOverlap:   getEnvInt("QUIZ_CHUNK_OVERLAP", 200),
		EmbedBatchSize: getEnvInt("QUIZ_EMBED_BATCH", 96),
		TopK:           getEnvInt("QUIZ_TOP_K", 4),
		ContextK:       getEnvInt("QUIZ_CONTEXT_K", 8),

		MaxAttempts:  getEnvInt("QUIZ_MAX_ATTEMPTS", 2),
		MaxQuestions: getEnvInt("QUIZ_MAX_QUESTIONS", 10),
		RandomBatch:  getEnvInt("QUIZ_RANDOM_BATCH", 10),
		StemMemory:   getEnvInt("QUIZ_STEM_MEMORY", 15),
		SaveToBank:   getEnvBool("QUIZ_SAVE_TO_BANK", false),

		Backend:      getEnv("QUIZ_BACKEND", BackendSQLite),
		DBPath:       os.Getenv("QUIZ_DB_PATH"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "questions_snapshot.json"),
		CharmHost:    getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:  getEnv("CHARM_DB", "quiz"),
		AutoSync:     getEnvBool("CHARM_AUTO_SYNC", true),

		HTTPAddr: getEnv("QUIZ_HTTP_ADDR", ":8080"),
		LogMode:  getEnv("QUIZ_LOG_MODE", "dev"),

		CourseFile: os.Getenv("QUIZ_COURSE_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	course := DefaultCourse()
	if cfg.CourseFile != "" {
		loaded, err := LoadCourse(cfg.CourseFile)
		if err != nil {
			return cfg, err
		}
		course = loaded
	}
	cfg.Course = course
	if course.MaxQuestions > 0 {
		cfg.MaxQuestions = course.MaxQuestions
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("QUIZ_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("QUIZ_CHUNK_OVERLAP must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("QUIZ_EMBED_BATCH must be positive, got %d", c.EmbedBatchSize)
	}
	if c.TopK <= 0 || c.ContextK <= 0 {
		return fmt.Errorf("QUIZ_TOP_K and QUIZ_CONTEXT_K must be positive, got %d and %d", c.TopK, c.ContextK)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("QUIZ_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.MaxQuestions <= 0 || c.RandomBatch <= 0 || c.StemMemory <= 0 {
		return fmt.Errorf("QUIZ_MAX_QUESTIONS, QUIZ_RANDOM_BATCH and QUIZ_STEM_MEMORY must be positive")
	}
	switch c.Backend {
	case BackendSQLite, BackendSnapshot, BackendCharm:
	default:
		return fmt.Errorf("QUIZ_BACKEND must be one of sqlite, snapshot, charm, got %q", c.Backend)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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
