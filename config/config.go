package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP API configuration
	HTTPAddr string

	// Redis configuration; empty disables event fan-out
	RedisURL string

	// Game settings
	StartingBalance float64
	ResultLimit     int // default results returned per snapshot
	BetLimit        int // default bets returned per snapshot

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		RedisURL:    os.Getenv("REDIS_URL"),

		// Game settings with defaults
		StartingBalance: 0,
		ResultLimit:     20,
		BetLimit:        50,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseFloat(balance, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}
	if limit := os.Getenv("RESULT_LIMIT"); limit != "" {
		if parsedLimit, err := strconv.Atoi(limit); err == nil {
			config.ResultLimit = parsedLimit
		}
	}
	if limit := os.Getenv("BET_LIMIT"); limit != "" {
		if parsedLimit, err := strconv.Atoi(limit); err == nil {
			config.BetLimit = parsedLimit
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
