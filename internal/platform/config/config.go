package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port            string
	GinMode         string
	AllowedOrigins  string
	ProductsBaseURL string
	PageSize        int
	HTTPTimeout     time.Duration
	MaxRetries      int
	AnalyticsStrict bool
	LogLevel        string
	LogFormat       string
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "release"),
		AllowedOrigins:  strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		ProductsBaseURL: getEnv("PRODUCTS_API_BASE_URL", "https://dummyjson.com/products"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.PageSize, err = parseIntEnv("PRODUCTS_PAGE_SIZE", 10); err != nil {
		return Config{}, fmt.Errorf("parse PRODUCTS_PAGE_SIZE: %w", err)
	}
	if cfg.MaxRetries, err = parseIntEnv("PRODUCTS_MAX_RETRIES", 3); err != nil {
		return Config{}, fmt.Errorf("parse PRODUCTS_MAX_RETRIES: %w", err)
	}
	if cfg.HTTPTimeout, err = parseDurationEnv("PRODUCTS_HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, fmt.Errorf("parse PRODUCTS_HTTP_TIMEOUT: %w", err)
	}
	if cfg.AnalyticsStrict, err = parseBoolEnv("ANALYTICS_STRICT", false); err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_STRICT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present and in range.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.PageSize <= 0 {
		return errors.New("PRODUCTS_PAGE_SIZE must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("PRODUCTS_HTTP_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("PRODUCTS_MAX_RETRIES must not be negative")
	}
	u, err := url.Parse(c.ProductsBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PRODUCTS_API_BASE_URL %q is not an absolute URL", c.ProductsBaseURL)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}

func parseDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(val)
}
