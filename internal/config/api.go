package config

import (
	"fmt"
	"os"

	"github.com/nwillis/paralegal/pkg/formatting"
	"github.com/nwillis/paralegal/pkg/middleware"
)

const (
	EnvAPIMaxUploadSize = "PARALEGAL_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = int64(50 * 1024 * 1024)
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PARALEGAL_CORS_ENABLED",
	Origins:          "PARALEGAL_CORS_ORIGINS",
	AllowedMethods:   "PARALEGAL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PARALEGAL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PARALEGAL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PARALEGAL_CORS_MAX_AGE",
}

// APIConfig holds API upload and CORS settings.
type APIConfig struct {
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns the upload limit in bytes, falling back to
// 50MB when the configured value cannot be parsed.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}
