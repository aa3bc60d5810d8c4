package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// RunInterval controls how often the notification engine runs.
	RunInterval time.Duration

	// ForecastDays is the daily-forecast horizon requested per fetch.
	ForecastDays int

	// CronSecret guards the manual trigger endpoint; empty disables the check.
	CronSecret string

	// GeocoderAPIKey enables address resolution at intake when set.
	GeocoderAPIKey string

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.CronSecret = os.Getenv("CRON_SECRET")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 3)

	intervalStr := getenvDefault("RUN_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_INTERVAL: %w", err)
	}
	cfg.RunInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
