// Package config provides configuration management for the document engine.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration before the engine starts.
//
// Environment Variables:
//
// Engine settings:
//   - MAX_INLINE_IMAGE_BYTES: maximum decoded size of an inline data: image
//     before it is dropped from the render (default: 600000)
//   - EXPRESSION_CACHE_SIZE: maximum number of compiled template expressions
//     kept by the composer (default: 500)
//
// Preview settings:
//   - PREVIEW_CACHE_SIZE: maximum number of cached preview results (default: 200)
//   - PREVIEW_CACHE_TTL: default time-to-live for cached previews (default: 3600s)
//
// Logging:
//   - LOG_LEVEL: logging level - debug, info, warn, error (default: info)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for all engine knobs.
const (
	DefaultMaxInlineImageBytes = 600_000
	DefaultExpressionCacheSize = 500
	DefaultPreviewCacheSize    = 200
	DefaultPreviewCacheTTL     = 3600 * time.Second
)

// Config holds all configuration values for the document engine.
// Load() fills it from environment variables; call Validate() before use.
type Config struct {
	// Engine settings
	MaxInlineImageBytes int // byte budget for decoded inline images
	ExpressionCacheSize int // compiled-expression LRU capacity

	// Preview settings
	PreviewCacheSize int           // preview result LRU capacity
	PreviewCacheTTL  time.Duration // default TTL for cached previews

	// Logging
	LogLevel string // debug, info, warn, error
}

// Load creates a Config with values from environment variables, falling back
// to defaults for anything unset or unparsable.
func Load() *Config {
	return &Config{
		MaxInlineImageBytes: getEnvInt("MAX_INLINE_IMAGE_BYTES", DefaultMaxInlineImageBytes),
		ExpressionCacheSize: getEnvInt("EXPRESSION_CACHE_SIZE", DefaultExpressionCacheSize),
		PreviewCacheSize:    getEnvInt("PREVIEW_CACHE_SIZE", DefaultPreviewCacheSize),
		PreviewCacheTTL:     getEnvDuration("PREVIEW_CACHE_TTL", DefaultPreviewCacheTTL),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

// Default returns a Config carrying only the built-in defaults, without
// consulting the environment.
func Default() *Config {
	return &Config{
		MaxInlineImageBytes: DefaultMaxInlineImageBytes,
		ExpressionCacheSize: DefaultExpressionCacheSize,
		PreviewCacheSize:    DefaultPreviewCacheSize,
		PreviewCacheTTL:     DefaultPreviewCacheTTL,
		LogLevel:            "info",
	}
}

// Validate checks that all configured values are usable.
func (c *Config) Validate() error {
	if c.MaxInlineImageBytes <= 0 {
		return fmt.Errorf("MAX_INLINE_IMAGE_BYTES must be positive, got %d", c.MaxInlineImageBytes)
	}
	if c.ExpressionCacheSize <= 0 {
		return fmt.Errorf("EXPRESSION_CACHE_SIZE must be positive, got %d", c.ExpressionCacheSize)
	}
	if c.PreviewCacheSize <= 0 {
		return fmt.Errorf("PREVIEW_CACHE_SIZE must be positive, got %d", c.PreviewCacheSize)
	}
	if c.PreviewCacheTTL <= 0 {
		return fmt.Errorf("PREVIEW_CACHE_TTL must be positive, got %s", c.PreviewCacheTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration accepts either a Go duration string ("45m") or a bare number
// of seconds ("3600").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
