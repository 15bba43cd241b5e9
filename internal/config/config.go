// Package config loads service configuration from the environment.
// A local .env file is honored in development; real deployments set env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the composition root needs to wire the service.
type Config struct {
	Port          string
	DatabaseURL   string
	MigrationsDir string

	// JWTSecret signs/verifies the HS256 bearer tokens minted by the auth
	// front-end. Token issuance itself lives outside this service.
	JWTSecret string

	Storage StorageConfig
	ML      MLConfig
	Cartoon CartoonConfig
	Index   IndexConfig

	// BreedValidation is "strict" (default: unknown breeds reject pet
	// registration) or "permissive". Permissive mode must be asked for
	// explicitly; it is never inferred.
	BreedValidation string
}

type StorageConfig struct {
	Endpoint      string
	Bucket        string
	PublicBaseURL string
	AccessKeyID   string
	Secret        string
}

type MLConfig struct {
	// BaseURL of the nose-print inference sidecar (detector + extractor).
	BaseURL string
}

type CartoonConfig struct {
	// AnthropicAPIKey authorizes the image-analysis step.
	AnthropicAPIKey string
	// GenerationURL and GenerationAPIKey point at the third-party
	// image-generation API.
	GenerationURL    string
	GenerationAPIKey string

	Workers       int
	QueueSize     int
	SubmitTimeout time.Duration
}

type IndexConfig struct {
	Path            string
	Dimension       int
	DuplicateThresh float64
	OutlierThresh   float64
}

// Load reads configuration from the environment. Only DATABASE_URL and
// JWT_SECRET are mandatory; everything else has a development default.
func Load() (*Config, error) {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "internal/db/migrations"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		BreedValidation: getEnv("BREED_VALIDATION", "strict"),
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", "http://localhost:9000"),
			Bucket:        getEnv("STORAGE_BUCKET", "happydog-media"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:9000/happydog-media"),
			AccessKeyID:   getEnv("STORAGE_ACCESS_KEY_ID", "happydog"),
			Secret:        getEnv("STORAGE_SECRET", "dev-secret"),
		},
		ML: MLConfig{
			BaseURL: getEnv("ML_BASE_URL", "http://localhost:8501"),
		},
		Cartoon: CartoonConfig{
			AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			GenerationURL:    getEnv("GENERATION_API_URL", "http://localhost:8502/v1/images"),
			GenerationAPIKey: os.Getenv("GENERATION_API_KEY"),
			Workers:          getEnvInt("CARTOON_WORKERS", 4),
			QueueSize:        getEnvInt("CARTOON_QUEUE_SIZE", 64),
			SubmitTimeout:    getEnvDuration("CARTOON_SUBMIT_TIMEOUT", 2*time.Second),
		},
		Index: IndexConfig{
			Path:            getEnv("VECTOR_INDEX_PATH", "data/noseprints.idx"),
			Dimension:       getEnvInt("VECTOR_INDEX_DIM", 512),
			DuplicateThresh: getEnvFloat("DUPLICATE_THRESHOLD", 0.7),
			OutlierThresh:   getEnvFloat("OUTLIER_THRESHOLD", 1.2),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.BreedValidation != "strict" && cfg.BreedValidation != "permissive" {
		return nil, fmt.Errorf("BREED_VALIDATION must be strict or permissive, got %q", cfg.BreedValidation)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
