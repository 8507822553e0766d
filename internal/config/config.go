package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session
	JWTSecret     string
	JWTExpiry     time.Duration
	CookieExpiry  time.Duration
	ResetTokenTTL time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPMail     string
	SMTPPassword string

	// Image host
	MediaAPIURL string
	MediaAPIKey string
	MediaFolder string

	// Generative recommendations
	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string
	AITimeout    time.Duration

	// Server
	Port         string
	FrontendURL  string
	DashboardURL string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "shopmate"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:     getEnv("JWT_SECRET_KEY", ""),
		JWTExpiry:     parseDuration(getEnv("JWT_EXPIRES_IN", "168h"), 168*time.Hour),
		CookieExpiry:  parseDuration(getEnv("COOKIE_EXPIRES_IN", "168h"), 168*time.Hour),
		ResetTokenTTL: parseDuration(getEnv("RESET_TOKEN_TTL", "15m"), 15*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPMail:     getEnv("SMTP_MAIL", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		MediaAPIURL: getEnv("MEDIA_API_URL", ""),
		MediaAPIKey: getEnv("MEDIA_API_KEY", ""),
		MediaFolder: getEnv("MEDIA_FOLDER", "Ecommerce_Product_Images"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeout:    parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		Port:         getEnv("PORT", "8080"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:5174"),
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

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
