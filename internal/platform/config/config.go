package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	MigrationsPath string
	DBMaxConns     int32

	// Edge
	RateLimit          string // ulule/limiter format, e.g. "100-M"
	RedisURL           string // empty means an in-memory limiter store
	CORSAllowedOrigins []string

	// Posting retry policy
	PostingMaxAttempts          int
	PostingRetryInitialInterval time.Duration
	PostingRetryMaxInterval     time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("POSTING_MAX_ATTEMPTS", 5)
	viper.SetDefault("POSTING_RETRY_INITIAL_INTERVAL", "20ms")
	viper.SetDefault("POSTING_RETRY_MAX_INTERVAL", "500ms")

	// Environment variables override both the .env file and the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	if cfg.DBMaxConns <= 0 {
		log.Printf("Warning: Invalid value for DB_MAX_CONNS (%d). Defaulting to 10.\n", cfg.DBMaxConns)
		cfg.DBMaxConns = 10
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.PostingMaxAttempts = viper.GetInt("POSTING_MAX_ATTEMPTS")
	if cfg.PostingMaxAttempts < 1 {
		log.Printf("Warning: Invalid value for POSTING_MAX_ATTEMPTS (%d). Defaulting to 5.\n", cfg.PostingMaxAttempts)
		cfg.PostingMaxAttempts = 5
	}
	cfg.PostingRetryInitialInterval = durationOrDefault("POSTING_RETRY_INITIAL_INTERVAL", 20*time.Millisecond)
	cfg.PostingRetryMaxInterval = durationOrDefault("POSTING_RETRY_MAX_INTERVAL", 500*time.Millisecond)

	return cfg, nil
}

// durationOrDefault parses key as a duration (e.g. "60ms", "1s"), falling back to def.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
