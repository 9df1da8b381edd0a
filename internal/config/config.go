// Package config resolves runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/httpclient"
)

// Config holds everything the commands need to talk to the backend and to
// serve the dashboard.
type Config struct {
	// BaseURL of the measurement backend.
	BaseURL string
	// SessionCookie is the raw Cookie header value carried on every API
	// call, typically "JSESSIONID=...". Empty means anonymous.
	SessionCookie string
	// MapsAPIKey is forwarded to the stats page for the emission map.
	MapsAPIKey string
	// Port for serve mode.
	Port string

	Timeout time.Duration
	Retries int
}

// Load reads the environment. Outside production it first loads a .env
// file when one exists; a missing file is not an error.
func Load() Config {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := Config{
		BaseURL:       getenv("ECARBON_API_BASE", api.DefaultBaseURL),
		SessionCookie: os.Getenv("ECARBON_SESSION"),
		MapsAPIKey:    os.Getenv("ECARBON_MAPS_API_KEY"),
		Port:          getenv("PORT", "3000"),
		Timeout:       httpclient.DefaultTimeout,
	}
	if v := os.Getenv("ECARBON_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("ECARBON_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Retries = n
		}
	}
	return cfg
}

// APIConfig projects the settings the API client needs.
func (c Config) APIConfig() api.Config {
	return api.Config{
		BaseURL: c.BaseURL,
		Cookie:  c.SessionCookie,
		Timeout: c.Timeout,
		Retries: c.Retries,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
