package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBackendURL is where the generation backend listens during local development.
const DefaultBackendURL = "http://127.0.0.1:5000"

// Config holds all application configuration.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// BackendURL is the base URL of the service answering POST /generate-materials.
	BackendURL     string
	EnableDevProxy bool

	SessionSecret string
	SessionMaxAge time.Duration
	// DatabaseURL selects the postgres session store. Empty keeps sessions in memory.
	DatabaseURL string

	UploadDir string
	R2        R2Config

	// AllowedOrigins controls CORS for the JSON API.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// R2Config describes the optional Cloudflare R2 (S3 compatible) upload bucket.
type R2Config struct {
	AccountID       string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the account derived endpoint, e.g. for MinIO.
	Endpoint string
}

// Enabled reports whether every setting needed to reach the bucket is present.
func (r R2Config) Enabled() bool {
	if r.Bucket == "" || r.AccessKeyID == "" || r.SecretAccessKey == "" {
		return false
	}
	return r.AccountID != "" || r.Endpoint != ""
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		origins = os.Getenv("FRONTEND_URL")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		BackendURL:     strings.TrimSuffix(getEnv("BACKEND_URL", DefaultBackendURL), "/"),
		EnableDevProxy: getEnvBool("ENABLE_DEV_PROXY", true),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionMaxAge:  time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 24*7)) * time.Hour,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		UploadDir:      getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "studysync-uploads")),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("R2_ENDPOINT"),
		},
		AllowedOrigins: parseOrigins(origins),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSuffix(strings.TrimSpace(p), "/"); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
