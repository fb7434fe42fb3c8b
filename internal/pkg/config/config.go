package config

import (
	"strings"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/env"
)

const (
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultGeminiMaxTokens = 1000000
)

type Config struct {
	Server
	Cache
	Stripe
	Gemini
	Auth
}

type Server struct {
	Host string
	Port string
}

type Cache struct {
	Host     string
	Port     string
	Password string
}

type Stripe struct {
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string
}

type Gemini struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// Auth guards the JSON API and the metrics endpoints. An empty APIKey
// disables API key checks.
type Auth struct {
	APIKey          string
	MetricsUser     string
	MetricsPassword string
}

// Load reads the configuration from the env package. Call env.SetupEnvFile
// first when a .env file should be honored.
func Load() *Config {
	maxTokens := env.GetEnvInt("GEMINI_MAX_TOKENS", defaultGeminiMaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultGeminiMaxTokens
	}

	return &Config{
		Server: Server{
			Host: env.GetEnv("APP_HOST", "localhost"),
			Port: env.GetEnv("APP_PORT", "4000"),
		},
		Cache: Cache{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     env.GetEnv("CACHE_PORT", "6379"),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
		Stripe: Stripe{
			APIKey:        strings.TrimSpace(env.GetEnv("STRIPE_API_KEY", "")),
			WebhookSecret: strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
			SuccessURL:    strings.TrimSpace(env.GetEnv("STRIPE_SUCCESS_URL", "")),
			CancelURL:     strings.TrimSpace(env.GetEnv("STRIPE_CANCEL_URL", "")),
			Currency:      strings.ToLower(strings.TrimSpace(env.GetEnv("STRIPE_CURRENCY", "usd"))),
		},
		Gemini: Gemini{
			APIKey:    strings.TrimSpace(env.GetEnv("GEMINI_API_KEY", "")),
			Model:     strings.TrimSpace(env.GetEnv("GEMINI_MODEL", defaultGeminiModel)),
			MaxTokens: maxTokens,
		},
		Auth: Auth{
			APIKey:          strings.TrimSpace(env.GetEnv("GATEWAY_API_KEY", "")),
			MetricsUser:     env.GetEnv("METRICS_USER", "admin"),
			MetricsPassword: env.GetEnv("METRICS_PASSWORD", ""),
		},
	}
}

// Mask keeps the last 4 characters of a secret for log output.
func Mask(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
