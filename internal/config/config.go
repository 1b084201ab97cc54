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
	PublicBaseURL string

	DatabaseURL string

	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	RedisKeyPrefix string

	// Submission pipeline tuning
	InsertMaxAttempts int
	InsertBaseDelay   time.Duration
	SubmitCooldown    time.Duration
	OfflineQueueCap   int

	// Transport-level abuse protection
	HTTPRateLimitPerSecond float64
	HTTPRateLimitBurst     int
	CORSAllowedOrigins     []string

	// Analytics sink
	AnalyticsQueueURL  string
	UseLogAnalytics    bool
	AWSRegion          string
	AWSEndpoint        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Promo code stamped on every captured lead
	PromoCode string

	// Staff notification email
	SendGridAPIKey     string
	SendGridFromEmail  string
	SendGridFromName   string
	NewLeadNotifyEmail string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "flor"),

		InsertMaxAttempts: getEnvAsInt("INSERT_MAX_ATTEMPTS", 3),
		InsertBaseDelay:   getEnvAsDuration("INSERT_BASE_DELAY", 2*time.Second),
		SubmitCooldown:    getEnvAsDuration("SUBMIT_COOLDOWN", 60*time.Second),
		OfflineQueueCap:   getEnvAsInt("OFFLINE_QUEUE_CAP", 100),

		HTTPRateLimitPerSecond: getEnvAsFloat("HTTP_RATE_LIMIT_PER_SECOND", 2),
		HTTPRateLimitBurst:     getEnvAsInt("HTTP_RATE_LIMIT_BURST", 5),
		CORSAllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		AnalyticsQueueURL:  getEnv("ANALYTICS_QUEUE_URL", ""),
		UseLogAnalytics:    getEnvAsBool("USE_LOG_ANALYTICS", true),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		PromoCode: getEnv("PROMO_CODE", "FLOR10"),

		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:  getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:   getEnv("SENDGRID_FROM_NAME", "Flor do Maracujá"),
		NewLeadNotifyEmail: getEnv("NEW_LEAD_NOTIFY_EMAIL", ""),
	}
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

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
