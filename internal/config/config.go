package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	SweepSeed int64 // Default seed for mock result generation
}

// Load reads configuration from the environment with sane defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/sandbox/sandbox.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	var sweepSeed int64 = 1
	if raw := os.Getenv("SWEEP_SEED"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sweepSeed = parsed
		}
	}

	return &Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		SweepSeed: sweepSeed,
	}
}
