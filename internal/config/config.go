// Package config loads pipeline tunables from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable named in spec.md §6's table.
type Config struct {
	MaxTestsPerEndpoint   int
	IDORCount             int
	AuthBypassCount       int
	MethodConfusionCount  int
	MassAssignmentCount   int
	AllowDestructive      bool
	Seed                  int64
	Concurrency           int
	RatePerSecond         float64
	MaxBodyBytes          int
	LengthDiffThreshold   float64
	RequestTimeout        time.Duration
	ResearcherHeaderName  string
	ResearcherHeaderValue string
}

// Default returns the tunables at their spec-mandated defaults.
func Default() *Config {
	return &Config{
		MaxTestsPerEndpoint:   30,
		IDORCount:             10,
		AuthBypassCount:       5,
		MethodConfusionCount:  10,
		MassAssignmentCount:   5,
		AllowDestructive:      false,
		Seed:                  1,
		Concurrency:           5,
		RatePerSecond:         2.0,
		MaxBodyBytes:          20 * 1024,
		LengthDiffThreshold:   0.30,
		RequestTimeout:        30 * time.Second,
		ResearcherHeaderName:  "User-Agent",
		ResearcherHeaderValue: "surfacerecon/1.0",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads .env (if present) and overlays environment variables onto
// the defaults.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, err
		}
	}

	cfg := Default()

	cfg.MaxTestsPerEndpoint = getEnvIntOrDefault("SURFACERECON_MAX_TESTS", cfg.MaxTestsPerEndpoint)
	cfg.IDORCount = getEnvIntOrDefault("SURFACERECON_IDOR_COUNT", cfg.IDORCount)
	cfg.AuthBypassCount = getEnvIntOrDefault("SURFACERECON_AUTH_BYPASS_COUNT", cfg.AuthBypassCount)
	cfg.MethodConfusionCount = getEnvIntOrDefault("SURFACERECON_METHOD_CONFUSION_COUNT", cfg.MethodConfusionCount)
	cfg.MassAssignmentCount = getEnvIntOrDefault("SURFACERECON_MASS_ASSIGNMENT_COUNT", cfg.MassAssignmentCount)
	cfg.AllowDestructive = getEnvBoolOrDefault("SURFACERECON_ALLOW_DESTRUCTIVE", cfg.AllowDestructive)
	cfg.Seed = int64(getEnvIntOrDefault("SURFACERECON_SEED", int(cfg.Seed)))
	cfg.Concurrency = getEnvIntOrDefault("SURFACERECON_CONCURRENCY", cfg.Concurrency)
	cfg.RatePerSecond = getEnvFloatOrDefault("SURFACERECON_RATE", cfg.RatePerSecond)
	cfg.MaxBodyBytes = getEnvIntOrDefault("SURFACERECON_MAX_BODY_BYTES", cfg.MaxBodyBytes)
	cfg.LengthDiffThreshold = getEnvFloatOrDefault("SURFACERECON_LENGTH_DIFF_THRESHOLD", cfg.LengthDiffThreshold)
	cfg.ResearcherHeaderName = getEnvOrDefault("SURFACERECON_RESEARCHER_HEADER_NAME", cfg.ResearcherHeaderName)
	cfg.ResearcherHeaderValue = getEnvOrDefault("SURFACERECON_RESEARCHER_HEADER_VALUE", cfg.ResearcherHeaderValue)

	return cfg, nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
