package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Session auth (doctor-facing API)
	SessionJWTSecret string

	// OpenRouter LLM Configuration
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterReferer string
	OpenRouterTitle   string

	// Assistant behavior
	AssistantModel       string
	AssistantTemperature float64
	AssistantMaxRounds   int
	AssistantTimeout     time.Duration
	ClinicTimezone       string

	// Profile name cache
	ProfileCacheTTL time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SessionJWTSecret: getEnv("SESSION_JWT_SECRET", ""),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterReferer: getEnv("OPENROUTER_HTTP_REFERER", "https://mdpulso.app"),
		OpenRouterTitle:   getEnv("OPENROUTER_APP_TITLE", "MdPulso Clinica"),

		AssistantModel:       getEnv("ASSISTANT_MODEL", "openai/gpt-4o-mini"),
		AssistantTemperature: getEnvAsFloat("ASSISTANT_TEMPERATURE", 0.1),
		AssistantMaxRounds:   getEnvAsInt("ASSISTANT_MAX_ROUNDS", 5),
		AssistantTimeout:     getEnvAsDuration("ASSISTANT_TIMEOUT", 60*time.Second),
		ClinicTimezone:       getEnv("CLINIC_TIMEZONE", "America/Mexico_City"),

		ProfileCacheTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 15*time.Minute),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
