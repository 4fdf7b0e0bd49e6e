// Package config provides configuration management for the RNG evaluation service
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexbotov/rnglab/internal/domain"
)

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Bench    BenchConfig
	Limits   domain.Limits
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds the optional audit database configuration.
// An empty DSN disables audit persistence.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// AuthConfig holds operator authentication configuration
type AuthConfig struct {
	JWTSecret string

	// OperatorKeyHash is the bcrypt hash of the operator key exchanged for
	// tokens.
	OperatorKeyHash string
	TokenExpiry     time.Duration
}

// BenchConfig holds the benchmark defaults: twenty sample sizes, ten trials
// each, 1000 bins, 128-bit blocks.
type BenchConfig struct {
	SampleSizes []int
	Trials      int
	Bins        int
	BlockSize   int
	Confidence  float64
}

// DefaultSampleSizes is the default ladder of buffer lengths.
var DefaultSampleSizes = []int{
	1000, 2000, 5000, 10000, 15000, 20000, 25000, 30000, 35000, 40000,
	45000, 50000, 55000, 60000, 70000, 75000, 80000, 85000, 90000, 100000,
}

// Load loads configuration from environment with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("RNGLAB_PORT", "8080"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute, // evaluation runs are long
		},
		Database: DatabaseConfig{
			Driver: getEnv("RNGLAB_DB_DRIVER", "postgres"),
			DSN:    getEnv("RNGLAB_DB_DSN", ""),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("RNGLAB_JWT_SECRET", "rnglab-dev-secret-change-in-production"),
			OperatorKeyHash: getEnv("RNGLAB_OPERATOR_KEY_HASH", ""),
			TokenExpiry:     12 * time.Hour,
		},
		Bench: BenchConfig{
			SampleSizes: getEnvInts("RNGLAB_SAMPLE_SIZES", DefaultSampleSizes),
			Trials:      getEnvInt("RNGLAB_TRIALS", 10),
			Bins:        getEnvInt("RNGLAB_BINS", 1000),
			BlockSize:   getEnvInt("RNGLAB_BLOCK_SIZE", 128),
			Confidence:  0.99,
		},
		Limits: domain.Limits{
			MaxSampleSize: getEnvInt("RNGLAB_MAX_SAMPLE_SIZE", 1000000),
			MaxTrials:     getEnvInt("RNGLAB_MAX_TRIALS", 100),
			MaxBins:       getEnvInt("RNGLAB_MAX_BINS", 100000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvInts parses a comma-separated list of positive integers, falling
// back to the default on any malformed entry.
func getEnvInts(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
