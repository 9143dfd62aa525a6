package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"
	StorageMemory    = "memory"
)

// LLM providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	PrometheusPort string
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string

	StorageBackend   string
	DatabaseURL      string
	MigrationsPath   string
	FirestoreProject string

	JWTSecret string
	TokenTTL  time.Duration

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	UnsplashAccessKey string
	TelegramToken     string
}

// Load reads a .env file when one exists and then loads configuration from
// environment variables. All problems are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		PrometheusPort:    getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "text"),
		CORSOrigins:       splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		StorageBackend:    strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StoragePostgres)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsPath:    getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		FirestoreProject:  os.Getenv("FIRESTORE_PROJECT"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LLMProvider:       strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-pro"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
	}

	var result *multierror.Error

	ttl, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "720h"))
	if err != nil || ttl <= 0 {
		result = multierror.Append(result, fmt.Errorf("TOKEN_TTL must be a positive duration"))
	}
	cfg.TokenTTL = ttl

	// Required environment variables
	if cfg.JWTSecret == "" {
		result = multierror.Append(result, fmt.Errorf("JWT_SECRET environment variable is required"))
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			result = multierror.Append(result, fmt.Errorf("DATABASE_URL environment variable is required"))
		}
	case StorageFirestore:
		if cfg.FirestoreProject == "" {
			result = multierror.Append(result, fmt.Errorf("FIRESTORE_PROJECT environment variable is required"))
		}
	case StorageMemory:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend))
	}

	switch cfg.LLMProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			result = multierror.Append(result, fmt.Errorf("GEMINI_API_KEY environment variable is required"))
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			result = multierror.Append(result, fmt.Errorf("OPENAI_API_KEY environment variable is required"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
