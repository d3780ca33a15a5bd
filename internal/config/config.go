// Package config loads and finalizes service configuration from TOML files
// and PARALEGAL_* environment variables. A base config.toml (if present) is
// merged with an environment-specific overlay, then defaults, environment
// overrides, and validation apply per section.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/nwillis/paralegal/pkg/database"
	"github.com/nwillis/paralegal/pkg/inference"
	"github.com/nwillis/paralegal/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvParalegalEnv             = "PARALEGAL_ENV"
	EnvParalegalShutdownTimeout = "PARALEGAL_SHUTDOWN_TIMEOUT"
	EnvParalegalVersion         = "PARALEGAL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "PARALEGAL_DB_HOST",
	Port:            "PARALEGAL_DB_PORT",
	Name:            "PARALEGAL_DB_NAME",
	User:            "PARALEGAL_DB_USER",
	Password:        "PARALEGAL_DB_PASSWORD",
	SSLMode:         "PARALEGAL_DB_SSL_MODE",
	MaxOpenConns:    "PARALEGAL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PARALEGAL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PARALEGAL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PARALEGAL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "PARALEGAL_STORAGE_CONTAINER_NAME",
	ConnectionString: "PARALEGAL_STORAGE_CONNECTION_STRING",
}

var inferenceEnv = &inference.Env{
	Endpoint:        "PARALEGAL_INFERENCE_ENDPOINT",
	NERModel:        "PARALEGAL_INFERENCE_NER_MODEL",
	ClassifierModel: "PARALEGAL_INFERENCE_CLASSIFIER_MODEL",
	EmbeddingModel:  "PARALEGAL_INFERENCE_EMBEDDING_MODEL",
	EmbeddingDim:    "PARALEGAL_INFERENCE_EMBEDDING_DIM",
	Timeout:         "PARALEGAL_INFERENCE_TIMEOUT",
	MaxConcurrent:   "PARALEGAL_INFERENCE_MAX_CONCURRENT",
}

// Config is the root configuration for the Paralegal service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	Inference       inference.Config `toml:"inference"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the PARALEGAL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvParalegalEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Inference.Merge(&overlay.Inference)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Inference.Finalize(inferenceEnv); err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvParalegalShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvParalegalVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvParalegalEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
