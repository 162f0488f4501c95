package config

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds application configuration loaded from environment variables.
// Defaults are suitable for local development.
type Config struct {
	Port    string
	GinMode string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	TokenTTL  time.Duration

	// Cache
	CacheBackend    string // "memory" or "redis"
	CacheDefaultTTL time.Duration
	CommentCacheTTL time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	// Uploads
	UploadDir     string
	MaxUploadSize int64

	// Twilio (welcome SMS; disabled when unset)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "bookreview"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret: getenv("JWT_SECRET", "secret123"),
		TokenTTL:  getdur("JWT_TTL", time.Hour),

		CacheBackend:    getenv("CACHE_BACKEND", "memory"),
		CacheDefaultTTL: getdur("CACHE_DEFAULT_TTL", time.Hour),
		CommentCacheTTL: getdur("CACHE_COMMENT_TTL", time.Minute),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		RedisDB:         getint("REDIS_DB", 0),

		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: int64(getint("MAX_UPLOAD_SIZE", 5*1024*1024)),

		TwilioAccountSID: getenv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getenv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getenv("TWILIO_FROM_NUMBER", ""),
	}
}
