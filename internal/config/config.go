package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "instagrid-dev-session-secret-change-me"

// Config holds all configuration for the application.
type Config struct {
	Addr          string
	SessionSecret string
	LogFormat     string
	LogLevel      string

	GeminiAPIKey             string
	GeminiModel              string
	GeminiBaseURL            string
	GeminiAPIVersion         string
	GenerationTimeout        time.Duration
	MaxConcurrentGenerations int

	StorageDir       string
	MaxUploadBytes   int64
	WorkspaceIdleTTL time.Duration
	ExportFileName   string
}

// New loads configuration from a .env file (if any) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		Addr:          getEnv("ADDR", ":8080"),
		SessionSecret: getEnv("SESSION_SECRET", devSessionSecret),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogLevel:      getEnv("LOG_LEVEL", "debug"),

		GeminiAPIKey:             firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:            strings.TrimRight(getEnv("GEMINI_BASE_URL", ""), "/"),
		GeminiAPIVersion:         getEnv("GEMINI_API_VERSION", "v1beta"),
		GenerationTimeout:        time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 180)) * time.Second,
		MaxConcurrentGenerations: getEnvInt("MAX_CONCURRENT_GENERATIONS", 4),

		StorageDir:       getEnv("STORAGE_DIR", ""),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 25<<20)),
		WorkspaceIdleTTL: time.Duration(getEnvInt("WORKSPACE_IDLE_TTL_MINUTES", 120)) * time.Minute,
		ExportFileName:   getEnv("EXPORT_FILENAME", "insta-grid-preview"),
	}

	if cfg.SessionSecret == devSessionSecret {
		log.Println("SESSION_SECRET is not set, using the development secret")
	}
	return cfg
}

// HasGeminiKey reports whether an API key for the image model is configured.
func (c *Config) HasGeminiKey() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := getEnv(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
