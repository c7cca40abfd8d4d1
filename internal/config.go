package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/DukeRupert/kebaikan/internal/credential"
	"github.com/DukeRupert/kebaikan/internal/donation"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Simulated sign-in
	AuthDelay        time.Duration
	ErrorTTL         time.Duration
	LoginFlashTTL    time.Duration
	LockoutThreshold int
	LockoutDuration  time.Duration

	// Simulated payment
	PaymentDelay       time.Duration
	PaymentFailureRate float64
	PaymentFlashTTL    time.Duration
	PaymentMaxAttempts int

	// Sessions and limits
	SessionIdleTimeout time.Duration
	RateLimitPerMinute int

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		AuthDelay:        getEnvDuration("AUTH_DELAY", 2*time.Second),
		ErrorTTL:         getEnvDuration("ERROR_TTL", 5*time.Second),
		LoginFlashTTL:    getEnvDuration("LOGIN_FLASH_TTL", 3*time.Second),
		LockoutThreshold: getEnvInt("LOCKOUT_THRESHOLD", 3),
		LockoutDuration:  getEnvDuration("LOCKOUT_DURATION", 30*time.Second),

		PaymentDelay:       getEnvDuration("PAYMENT_DELAY", 2*time.Second),
		PaymentFailureRate: getEnvFloat("PAYMENT_FAILURE_RATE", 0.3),
		PaymentFlashTTL:    getEnvDuration("PAYMENT_FLASH_TTL", 5*time.Second),
		PaymentMaxAttempts: getEnvInt("PAYMENT_MAX_ATTEMPTS", 3),

		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.PaymentFailureRate < 0 || c.PaymentFailureRate > 1 {
		return fmt.Errorf("PAYMENT_FAILURE_RATE must be between 0 and 1, got: %v", c.PaymentFailureRate)
	}
	if c.LockoutThreshold < 1 {
		return fmt.Errorf("LOCKOUT_THRESHOLD must be at least 1, got: %d", c.LockoutThreshold)
	}
	if c.LockoutDuration < time.Second {
		return fmt.Errorf("LOCKOUT_DURATION must be at least 1s, got: %s", c.LockoutDuration)
	}
	if c.PaymentMaxAttempts < 1 {
		return fmt.Errorf("PAYMENT_MAX_ATTEMPTS must be at least 1, got: %d", c.PaymentMaxAttempts)
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got: %d", c.RateLimitPerMinute)
	}
	for name, d := range map[string]time.Duration{
		"AUTH_DELAY":           c.AuthDelay,
		"PAYMENT_DELAY":        c.PaymentDelay,
		"ERROR_TTL":            c.ErrorTTL,
		"SESSION_IDLE_TIMEOUT": c.SessionIdleTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got: %s", name, d)
		}
	}
	return nil
}

// IsDevelopment reports whether the server runs locally.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// FormConfig returns the credential form timings.
func (c *Config) FormConfig() credential.Config {
	return credential.Config{
		AuthDelay:        c.AuthDelay,
		ErrorTTL:         c.ErrorTTL,
		FlashTTL:         c.LoginFlashTTL,
		LockoutThreshold: c.LockoutThreshold,
		LockoutSeconds:   int(c.LockoutDuration / time.Second),
	}
}

// DonationConfig returns the payment wizard timings.
func (c *Config) DonationConfig() donation.Config {
	return donation.Config{
		PaymentDelay: c.PaymentDelay,
		ErrorTTL:     c.ErrorTTL,
		FlashTTL:     c.PaymentFlashTTL,
		MaxAttempts:  c.PaymentMaxAttempts,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
