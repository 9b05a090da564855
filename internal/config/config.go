package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultReplicateBaseURL = "https://api.replicate.com"
	defaultModelVersion     = "ad59ca21177f9e217b9075e7300cf6e14f7e5b4505b87b9689dbd866e9768969" // prompthero/openjourney
	defaultStatusSchedule   = "0 */5 * * * *"
)

// ReplicateConfig holds inference service configuration
type ReplicateConfig struct {
	Token         string
	BaseURL       string
	ModelVersion  string
	CheckInterval time.Duration
	MaxAttempts   int
}

// Config holds all configuration for the application
type Config struct {
	DiscordToken      string
	CountdownFrom     int
	CountdownTick     time.Duration
	SlowThreshold     time.Duration
	GenerationTimeout time.Duration
	HealthAddr        string
	StatusSchedule    string
	Replicate         ReplicateConfig
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		HealthAddr:     os.Getenv("HEALTH_ADDR"),
		StatusSchedule: stringOr("STATUS_SCHEDULE", defaultStatusSchedule),
		Replicate: ReplicateConfig{
			Token:        os.Getenv("REPLICATE_TOKEN"),
			BaseURL:      stringOr("REPLICATE_BASE_URL", defaultReplicateBaseURL),
			ModelVersion: stringOr("REPLICATE_MODEL_VERSION", defaultModelVersion),
		},
	}

	config.CountdownFrom = intOr("COUNTDOWN_FROM", 7)
	config.CountdownTick = secondsOr("COUNTDOWN_TICK", time.Second)
	config.SlowThreshold = secondsOr("SLOW_RESPONSE_THRESHOLD", 60*time.Second)
	config.GenerationTimeout = secondsOr("GENERATION_TIMEOUT", 0) // no deadline by default
	config.Replicate.CheckInterval = secondsOr("DEFAULT_CHECK_INTERVAL", time.Second)
	config.Replicate.MaxAttempts = intOr("DEFAULT_MAX_ATTEMPTS", 0)

	// Validate required fields
	if config.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if config.Replicate.Token == "" {
		return nil, fmt.Errorf("REPLICATE_TOKEN is required")
	}
	if config.CountdownFrom < 1 {
		return nil, fmt.Errorf("COUNTDOWN_FROM must be positive, got %d", config.CountdownFrom)
	}

	return config, nil
}

func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func secondsOr(key string, def time.Duration) time.Duration {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v >= 0 {
		return time.Duration(v * float64(time.Second))
	}
	return def
}
