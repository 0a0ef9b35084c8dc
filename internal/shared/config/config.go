package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port                string `validate:"required"`
	ExtractorPort       string `validate:"required"`
	Env                 string `validate:"oneof=dev local staging production"`
	CORSAllowOrigin     []string
	ExtractorMode       string        `validate:"oneof=mock remote"`
	ExtractBaseURL      string        `validate:"required,url"`
	MockExtractDelay    time.Duration `validate:"gte=0"`
	UploadMaxBytes      int64         `validate:"gt=0"`
	SessionTTL          time.Duration `validate:"gt=0"`
	UploadRatePerMinute int           `validate:"gte=0"`
	SessionCookieSecure bool
	TrustedProxies      []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing vars win.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		ExtractorPort:       getEnv("EXTRACTOR_PORT", "8090"),
		Env:                 env,
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ExtractorMode:       strings.ToLower(getEnv("EXTRACTOR_MODE", "mock")),
		ExtractBaseURL:      getEnv("EXTRACT_BASE_URL", "https://1z8n6q90li.execute-api.eu-west-2.amazonaws.com/prod"),
		MockExtractDelay:    getDuration("MOCK_EXTRACT_DELAY", 1500*time.Millisecond),
		UploadMaxBytes:      getInt64("UPLOAD_MAX_BYTES", 10<<20),
		SessionTTL:          getDuration("SESSION_TTL", 2*time.Hour),
		UploadRatePerMinute: int(getInt64("RATE_LIMIT_UPLOADS_PER_MIN", 30)),
		SessionCookieSecure: env == "production",
		TrustedProxies:      splitAndTrim(getEnv("TRUSTED_PROXIES", "")),
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("config: %v", err)
	}
	return cfg
}

var validate = validator.New()

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config env %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
