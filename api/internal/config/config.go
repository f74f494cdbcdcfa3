package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	TelegramBotToken string
	WebhookURL       string

	GeminiAPIKey   string
	GeminiModel    string
	ExtractTimeout time.Duration

	// Blob storage (S3-compatible) for the original invoice images.
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		TelegramBotToken: mustEnv("TELEGRAM_BOTFATHER_API_KEY"),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),

		GeminiAPIKey:   mustEnv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ExtractTimeout: getEnvDuration("EXTRACT_TIMEOUT", 60*time.Second),

		S3Endpoint:  mustEnv("S3_ENDPOINT"),
		S3AccessKey: mustEnv("S3_ACCESS_KEY"),
		S3SecretKey: mustEnv("S3_SECRET_KEY"),
		S3Bucket:    getEnv("S3_BUCKET", "invoices"),
		S3UseSSL:    getEnvBool("S3_USE_SSL", true),
	}
}
