package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the complete client configuration
type Config struct {
	// Base URL of the social media API
	APIBaseURL string

	// Credential storage
	CredentialsFile       string
	CredentialsPassphrase string

	// Transport timeout for a single request
	HTTPTimeout time.Duration

	// Budget for one feed page fetch inside the synchronizer
	PageFetchTimeout time.Duration

	Debug bool
}

// DefaultConfig provides default client settings
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            "https://social-media-app.ryanplitt.com",
		CredentialsFile:       "credentials.json",
		CredentialsPassphrase: "",
		HTTPTimeout:           10 * time.Second,
		PageFetchTimeout:      15 * time.Second,
		Debug:                 false,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env from the working directory and the repo root when
	// running from cmd/feedcli or cmd/simulator.
	envLocations := []string{
		".env",
		"../../.env",
	}
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			break
		}
	}

	cfg := DefaultConfig()

	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	cfg.CredentialsFile = getEnvOrDefault("CREDENTIALS_FILE", cfg.CredentialsFile)
	cfg.CredentialsPassphrase = os.Getenv("CREDENTIALS_PASSPHRASE")

	if timeoutStr := os.Getenv("HTTP_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			cfg.HTTPTimeout = time.Duration(seconds) * time.Second
		}
	}

	if timeoutStr := os.Getenv("PAGE_FETCH_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			cfg.PageFetchTimeout = time.Duration(seconds) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
