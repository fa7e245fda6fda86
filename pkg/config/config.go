package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External sources
	GMP GMPConfig

	// Allocation
	Allocator AllocatorConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// GMPConfig holds the grey-market premium source configuration
type GMPConfig struct {
	BaseURL     string
	RatePerSec  float64
	FetchBudget time.Duration
}

// AllocatorConfig holds allocation engine parameters
type AllocatorConfig struct {
	DefaultBudget         float64
	MinInvestMainboard    float64
	MaxLotsPerOffering    int
	DiversificationWeight float64
	TopFillK              int
	EligibilityFloor      float64
	SolverTimeLimit       time.Duration
	CacheTTL              time.Duration
	HoldHorizonDays       int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "ipofolio"),
			User:            getEnv("DB_USER", "ipofolio"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External sources
		GMP: GMPConfig{
			BaseURL:     getEnv("GMP_BASE_URL", "https://www.investorgain.com/report/live-ipo-gmp/331/"),
			RatePerSec:  getEnvAsFloat("GMP_RATE_PER_SEC", 0.5),
			FetchBudget: getEnvAsDuration("GMP_FETCH_BUDGET", "30s"),
		},

		// Allocation
		Allocator: AllocatorConfig{
			DefaultBudget:         getEnvAsFloat("ALLOC_DEFAULT_BUDGET", 100000),
			MinInvestMainboard:    getEnvAsFloat("ALLOC_MIN_INVEST_MAINBOARD", 15000),
			MaxLotsPerOffering:    getEnvAsInt("ALLOC_MAX_LOTS_PER_IPO", 3),
			DiversificationWeight: getEnvAsFloat("ALLOC_DIVERSIFICATION_WEIGHT", 0.10),
			TopFillK:              getEnvAsInt("ALLOC_TOP_FILL_K", 3),
			EligibilityFloor:      getEnvAsFloat("ALLOC_ELIGIBILITY_FLOOR", 5.0),
			SolverTimeLimit:       getEnvAsDuration("ALLOC_SOLVER_TIME_LIMIT", "10s"),
			CacheTTL:              getEnvAsDuration("ALLOC_CACHE_TTL", "5m"),
			HoldHorizonDays:       getEnvAsInt("ALLOC_HOLD_HORIZON_DAYS", 30),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	a := c.Allocator
	if a.MinInvestMainboard <= 0 {
		return fmt.Errorf("ALLOC_MIN_INVEST_MAINBOARD must be positive")
	}
	if a.MaxLotsPerOffering < 1 {
		return fmt.Errorf("ALLOC_MAX_LOTS_PER_IPO must be at least 1")
	}
	if a.TopFillK < 1 {
		return fmt.Errorf("ALLOC_TOP_FILL_K must be at least 1")
	}
	if a.DiversificationWeight < 0 {
		return fmt.Errorf("ALLOC_DIVERSIFICATION_WEIGHT must be non-negative")
	}
	if a.HoldHorizonDays < 1 {
		return fmt.Errorf("ALLOC_HOLD_HORIZON_DAYS must be at least 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
