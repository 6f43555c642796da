package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Source site configuration
	AwardsBaseURL  string
	TabelogBaseURL string
	UserAgent      string

	// HTTP client configuration
	RequestTimeout time.Duration
	FetchDelay     time.Duration

	// Storage configuration
	DatabasePath string

	// Server configuration
	ServerHost string
	ServerPort int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	timeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	delayMs, _ := strconv.Atoi(getEnv("FETCH_DELAY_MS", "1000"))
	port, _ := strconv.Atoi(getEnv("SERVER_PORT", "5000"))

	return Config{
		AwardsBaseURL:  getEnv("AWARDS_BASE_URL", "https://award.tabelog.com"),
		TabelogBaseURL: getEnv("TABELOG_BASE_URL", "https://tabelog.com"),
		UserAgent:      getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
		RequestTimeout: time.Duration(timeout) * time.Second,
		FetchDelay:     time.Duration(delayMs) * time.Millisecond,
		DatabasePath:   getEnv("DATABASE_PATH", "restaurants.db"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:     port,
		Environment:    getEnv("HYAKUMAP_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for obviously broken values
func (c *Config) Validate() error {
	if c.AwardsBaseURL == "" {
		return fmt.Errorf("awards base URL must not be empty")
	}
	if c.TabelogBaseURL == "" {
		return fmt.Errorf("tabelog base URL must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.FetchDelay < 0 {
		return fmt.Errorf("fetch delay must not be negative, got %s", c.FetchDelay)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server port out of range: %d", c.ServerPort)
	}
	return nil
}

// AwardsIndexURL returns the URL of the awards index page
func (c *Config) AwardsIndexURL() string {
	return c.AwardsBaseURL + "/hyakumeiten/"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
