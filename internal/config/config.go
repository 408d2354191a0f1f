package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/avelars/melodex/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port                string
	DBPath              string
	LibraryPath         string
	SpotifyAPIURL       string
	SpotifyAuthURL      string
	SpotifyClientID     string
	SpotifyClientSecret string
	LogLevel            string
	LogFormat           string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", constants.DefaultPort),
		DBPath:              getEnv("DB_PATH", constants.DefaultDBPath),
		LibraryPath:         getEnv("LIBRARY_XML", ""),
		SpotifyAPIURL:       getEnv("SPOTIFY_API_URL", constants.DefaultSpotifyAPI),
		SpotifyAuthURL:      getEnv("SPOTIFY_AUTH_URL", constants.DefaultSpotifyAuth),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.SpotifyAPIURL == "" {
		errors = append(errors, "SPOTIFY_API_URL cannot be empty")
	} else {
		if _, err := url.Parse(c.SpotifyAPIURL); err != nil {
			errors = append(errors, fmt.Sprintf("SPOTIFY_API_URL is not a valid URL: %s", c.SpotifyAPIURL))
		}
	}

	if c.SpotifyAuthURL == "" {
		errors = append(errors, "SPOTIFY_AUTH_URL cannot be empty")
	} else {
		if _, err := url.Parse(c.SpotifyAuthURL); err != nil {
			errors = append(errors, fmt.Sprintf("SPOTIFY_AUTH_URL is not a valid URL: %s", c.SpotifyAuthURL))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateRun checks the additional settings a pipeline run requires.
func (c *Config) ValidateRun() error {
	var errors []string

	if c.LibraryPath == "" {
		errors = append(errors, "LIBRARY_XML cannot be empty")
	}
	if c.SpotifyClientID == "" {
		errors = append(errors, "SPOTIFY_CLIENT_ID cannot be empty")
	}
	if c.SpotifyClientSecret == "" {
		errors = append(errors, "SPOTIFY_CLIENT_SECRET cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
