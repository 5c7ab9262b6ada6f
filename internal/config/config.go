package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// RateTable holds the per-hour price for each vehicle category.
type RateTable struct {
	TwoWheeler   float64
	ThreeWheeler float64
	FourWheeler  float64
}

// Config is the full static configuration of the server. Everything comes
// from environment variables; rates, levels and slot counts are fixed at
// startup and never discovered at runtime.
type Config struct {
	DatabaseURL string
	Port        string

	JWTSecret string
	TokenTTL  time.Duration

	Levels        []int
	SlotsPerLevel int
	Rates         RateTable

	CompletionJobEnabled  bool
	CompletionJobSchedule string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		Port:                  envOr("PORT", "8080"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		CompletionJobSchedule: envOr("COMPLETION_JOB_SCHEDULE", "@every 5m"),
		SendGridAPIKey:        os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail:     os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:      envOr("SENDGRID_FROM_NAME", "VPark"),
		TwilioAccountSID:      os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:       os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:      os.Getenv("TWILIO_FROM_NUMBER"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	ttlMin, err := envInt("TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(ttlMin) * time.Minute

	levelCount, err := envInt("LEVEL_COUNT", 3)
	if err != nil {
		return nil, err
	}
	if levelCount < 1 {
		return nil, fmt.Errorf("LEVEL_COUNT must be at least 1")
	}
	for i := 1; i <= levelCount; i++ {
		cfg.Levels = append(cfg.Levels, i)
	}

	cfg.SlotsPerLevel, err = envInt("SLOTS_PER_LEVEL", 20)
	if err != nil {
		return nil, err
	}
	if cfg.SlotsPerLevel < 1 {
		return nil, fmt.Errorf("SLOTS_PER_LEVEL must be at least 1")
	}

	if cfg.Rates.TwoWheeler, err = envFloat("RATE_TWO_WHEELER", 10.0); err != nil {
		return nil, err
	}
	if cfg.Rates.ThreeWheeler, err = envFloat("RATE_THREE_WHEELER", 12.5); err != nil {
		return nil, err
	}
	if cfg.Rates.FourWheeler, err = envFloat("RATE_FOUR_WHEELER", 20.0); err != nil {
		return nil, err
	}
	if cfg.Rates.TwoWheeler <= 0 || cfg.Rates.ThreeWheeler <= 0 || cfg.Rates.FourWheeler <= 0 {
		return nil, fmt.Errorf("hourly rates must be positive")
	}

	cfg.CompletionJobEnabled = os.Getenv("COMPLETION_JOB_ENABLED") == "true"

	return cfg, nil
}

// HasLevel reports whether the given level exists in this garage.
func (c *Config) HasLevel(level int) bool {
	for _, l := range c.Levels {
		if l == level {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}
