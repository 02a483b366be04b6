package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Rate limiting, in limiter format (e.g. "100-M" for 100 req/minute).
	RateLimit string

	// Accounting account templates. Empty values fall back to built-ins.
	SuspenseSegments               string
	IntercompanyPayableSegments    string
	IntercompanyReceivableSegments string

	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if
// present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("SUSPENSE_SEGMENTS", "")
	viper.SetDefault("INTERCOMPANY_PAYABLE_SEGMENTS", "")
	viper.SetDefault("INTERCOMPANY_RECEIVABLE_SEGMENTS", "")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.SuspenseSegments = viper.GetString("SUSPENSE_SEGMENTS")
	cfg.IntercompanyPayableSegments = viper.GetString("INTERCOMPANY_PAYABLE_SEGMENTS")
	cfg.IntercompanyReceivableSegments = viper.GetString("INTERCOMPANY_RECEIVABLE_SEGMENTS")

	shutdownTimeout, err := time.ParseDuration(viper.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		shutdownTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT. Defaulting to %s.\n", shutdownTimeout)
	}
	cfg.ShutdownTimeout = shutdownTimeout

	return cfg, nil
}
