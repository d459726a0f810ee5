package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Optional. Pipeline event auditing is disabled when empty.
	DatabaseURL        string
	AuditRetentionDays int

	// OCR
	OCRProvider        string
	OCRLanguage        string
	TesseractPath      string
	OCRSpaceAPIKey     string
	GoogleVisionAPIKey string

	// Translation
	TranslationProvider string
	MyMemoryURL         string
	MyMemoryEmail       string
	OpenAIKey           string
	OpenAIModel         string
	OpenAIBaseURL       string

	DefaultSourceLang string
	DefaultTargetLang string

	MaxUploadBytes     int64
	ExtractionTimeout  time.Duration
	TranslationTimeout time.Duration

	WorkerPoolSize       int
	SessionIdleTTL       time.Duration
	SessionSweepSchedule string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AuditRetentionDays: int(getEnvInt64("AUDIT_RETENTION_DAYS", 30)),

		OCRProvider:        getEnv("OCR_PROVIDER", "gosseract"),
		OCRLanguage:        getEnv("OCR_LANGUAGE", "eng"),
		TesseractPath:      getEnv("TESSERACT_PATH", "tesseract"),
		OCRSpaceAPIKey:     os.Getenv("OCR_SPACE_API_KEY"),
		GoogleVisionAPIKey: os.Getenv("GOOGLE_VISION_API_KEY"),

		TranslationProvider: getEnv("TRANSLATION_PROVIDER", "mymemory"),
		MyMemoryURL:         getEnv("MYMEMORY_URL", "https://api.mymemory.translated.net"),
		MyMemoryEmail:       os.Getenv("MYMEMORY_EMAIL"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),

		DefaultSourceLang: getEnv("DEFAULT_SOURCE_LANG", "en-GB"),
		DefaultTargetLang: getEnv("DEFAULT_TARGET_LANG", "es-ES"),

		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
		ExtractionTimeout:  getEnvDuration("EXTRACTION_TIMEOUT", 2*time.Minute),
		TranslationTimeout: getEnvDuration("TRANSLATION_TIMEOUT", 30*time.Second),

		WorkerPoolSize:       int(getEnvInt64("WORKER_POOL_SIZE", 4)),
		SessionIdleTTL:       getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "0 * * * * *"),
	}

	return cfg
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return fallback
	}
	return d
}
