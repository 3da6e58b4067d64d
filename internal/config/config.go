// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the process needs to run.
type Config struct {
	// Addr is the listen address for the HTTP API.
	Addr string

	// RemoteURL is the base URL of the remote document store.
	RemoteURL string

	// QuietPeriod is how long typing must pause before an autosave fires.
	QuietPeriod time.Duration

	// CORSOrigin is the origin the browser surface is served from.
	CORSOrigin string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	cfg := Config{
		Addr:       getenv("QUILLPAD_ADDR", ":8080"),
		RemoteURL:  getenv("QUILLPAD_REMOTE_URL", "http://localhost:5002/api"),
		CORSOrigin: getenv("QUILLPAD_CORS_ORIGIN", "*"),
	}

	seconds := getenv("QUILLPAD_AUTOSAVE_SECONDS", "5")

	n, err := strconv.Atoi(seconds)
	if err != nil || n <= 0 {
		return Config{}, fmt.Errorf("invalid QUILLPAD_AUTOSAVE_SECONDS %q", seconds)
	}

	cfg.QuietPeriod = time.Duration(n) * time.Second

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
