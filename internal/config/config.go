package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens
	JWTSecret string
	JWTExpiry time.Duration

	// Credentials
	BcryptCost      int
	ResetTokenTTL   time.Duration
	LoginTimingSafe bool

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Admin bootstrap
	AdminEmails string

	// Server
	Port        string
	APIPrefix   string
	CORSOrigins string

	// Rate limiting
	RedisURL        string
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Observability
	LogRetention time.Duration
	SentryDSN    string
	AppEnv       string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info(".env file loaded")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "storefront"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRE", "24h"), 24*time.Hour),

		BcryptCost:      parseInt(getEnv("BCRYPT_COST", "10"), 10),
		ResetTokenTTL:   parseDuration(getEnv("RESET_TOKEN_TTL", "10m"), 10*time.Minute),
		LoginTimingSafe: parseBool(getEnv("LOGIN_TIMING_SAFE", "false")),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", ""),
		FromName:     getEnv("FROM_NAME", "Storefront"),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:        getEnv("PORT", "8080"),
		APIPrefix:   strings.Trim(getEnv("API_PREFIX", "api/v1"), "/"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		RedisURL:        getEnv("REDIS_URL", ""),
		RateLimitMax:    parseInt(getEnv("RATE_LIMIT_MAX", "100"), 100),
		RateLimitWindow: parseDuration(getEnv("RATE_LIMIT_WINDOW", "100m"), 100*time.Minute),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		AppEnv:       getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AdminEmailList returns the trimmed, non-empty entries of ADMIN_EMAILS.
func (c *Config) AdminEmailList() []string {
	return parseCSV(c.AdminEmails)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// parseDuration accepts time.ParseDuration syntax plus a whole-day form such
// as "30d". Invalid or non-positive values fall back with a warning.
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil && strings.HasSuffix(s, "d") {
		if days, convErr := strconv.Atoi(strings.TrimSuffix(s, "d")); convErr == nil {
			d, err = time.Duration(days)*24*time.Hour, nil
		}
	}
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "value", s, "default", fallback.String())
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
