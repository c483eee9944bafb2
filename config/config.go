package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is built once at startup and
// handed to the pieces that need it, so tests can construct their own.
type Config struct {
	Port      string
	DBURL     string
	JWTSecret string

	AppURL        string // frontend base URL (checkout redirects)
	PublicBaseURL string // base URL for public menu pages, e.g. https://menufique.com
	CORSOrigin    string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceIDPro    string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	ImageSearchBaseURL string
	ImageSearchAPIKey  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		DBURL:     mustEnv("DB_URL"),
		JWTSecret: mustEnv("JWT_SECRET"),

		AppURL:        getEnv("APP_URL", "http://localhost:5173"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),

		StripeSecretKey:     mustEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceIDPro:    getEnv("STRIPE_PRICE_ID_PRO", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		GoogleClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:      getEnv("GOOGLE_REDIRECT_URL", ""),
		GoogleFrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		ImageSearchBaseURL: getEnv("IMAGE_SEARCH_BASE_URL", "https://api.pexels.com/v1"),
		ImageSearchAPIKey:  getEnv("IMAGE_SEARCH_API_KEY", ""),
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
