// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the bot and the web viewer.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the web viewer listens on. Defaults to "8000".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of origins allowed to fetch the exports.
	// Set CORS_ORIGINS to a comma-separated list; empty allows none.
	CORSOrigins []string

	// TelegramToken is the bot API token. Only the bot requires it; see
	// RequireTelegram.
	TelegramToken string

	// OpenWeatherAPIKey enables forecasts. Empty disables them and every
	// trip continues without weather.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// OpenAIAPIKey enables model-backed classification and generation.
	// Empty selects the rule-based fallbacks.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// PublicWebURL is the address checklist links point to when the viewer is
	// reachable from the internet. LocalWebURL is shown otherwise.
	PublicWebURL string
	LocalWebURL  string

	// SessionTTL is how long an idle trip conversation is kept. Defaults to 1h.
	SessionTTL time.Duration

	// MaxBodyBytes caps web form submissions. Defaults to 64 KiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set or that
// fail to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(os.Getenv("CORS_ORIGINS")),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		PublicWebURL:       strings.TrimSuffix(os.Getenv("PUBLIC_WEB_URL"), "/"),
		LocalWebURL:        strings.TrimSuffix(getEnv("LOCAL_WEB_URL", "http://localhost:8000"), "/"),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "1h"))
	if err != nil || ttl <= 0 {
		invalid = append(invalid, "SESSION_TTL")
	}
	cfg.SessionTTL = ttl

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64)
	if err != nil || maxBody <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	cfg.MaxBodyBytes = maxBody

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RequireTelegram reports an error when the bot token is missing.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("required environment variables not set: TELEGRAM_TOKEN")
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
