package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Logging
	LogLevel string
	LogFile  string

	// Scraping
	UserAgent      string
	FetchTimeout   time.Duration
	MaxFetchBytes  int64
	MinArticleText int

	// Summaries
	DefaultSentences int
	MaxSentences     int
	TargetLanguage   string
	RecentLimit      int

	// Translation
	AnthropicAPIKey string
	AnthropicModel  string

	// Storage
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int
	MaxBatchURLs int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BLOGSUM_API_KEY"),

		LogLevel: envOr("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		UserAgent:      envOr("USER_AGENT", defaultUserAgent),
		FetchTimeout:   envDuration("FETCH_TIMEOUT", 20*time.Second),
		MaxFetchBytes:  envInt64("MAX_FETCH_BYTES", 10485760), // 10MB
		MinArticleText: envInt("MIN_ARTICLE_TEXT", 200),

		DefaultSentences: envInt("DEFAULT_SENTENCES", 3),
		MaxSentences:     envInt("MAX_SENTENCES", 20),
		TargetLanguage:   strings.ToLower(envOr("TARGET_LANGUAGE", "ur")),
		RecentLimit:      envInt("RECENT_LIMIT", 5),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: envOr("MONGODB_DB_NAME", "blogsum"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),
		MaxBatchURLs: envInt("MAX_BATCH_URLS", 20),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20 * time.Second
	}
	if cfg.MaxFetchBytes <= 0 {
		cfg.MaxFetchBytes = 10485760
	}
	if cfg.MinArticleText < 0 {
		cfg.MinArticleText = 200
	}
	if cfg.DefaultSentences <= 0 {
		cfg.DefaultSentences = 3
	}
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = 20
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxBatchURLs <= 0 {
		cfg.MaxBatchURLs = 20
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DefaultSentences > c.MaxSentences {
		return fmt.Errorf("DEFAULT_SENTENCES (%d) exceeds MAX_SENTENCES (%d)", c.DefaultSentences, c.MaxSentences)
	}
	if len(c.TargetLanguage) < 2 || len(c.TargetLanguage) > 3 {
		return fmt.Errorf("TARGET_LANGUAGE must be a 2-3 letter language code, got %q", c.TargetLanguage)
	}
	if c.MongoURI != "" && c.MongoDatabase == "" {
		return fmt.Errorf("MONGODB_DB_NAME is required when MONGODB_URI is set")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
