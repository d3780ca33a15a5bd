package inference

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds inference server connection parameters and model names.
type Config struct {
	Endpoint        string `toml:"endpoint"`
	NERModel        string `toml:"ner_model"`
	ClassifierModel string `toml:"classifier_model"`
	EmbeddingModel  string `toml:"embedding_model"`
	EmbeddingDim    int    `toml:"embedding_dim"`
	Timeout         string `toml:"timeout"`
	MaxConcurrent   int    `toml:"max_concurrent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint        string
	NERModel        string
	ClassifierModel string
	EmbeddingModel  string
	EmbeddingDim    string
	Timeout         string
	MaxConcurrent   string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.NERModel != "" {
		c.NERModel = overlay.NERModel
	}
	if overlay.ClassifierModel != "" {
		c.ClassifierModel = overlay.ClassifierModel
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.EmbeddingDim != 0 {
		c.EmbeddingDim = overlay.EmbeddingDim
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8090"
	}
	if c.NERModel == "" {
		c.NERModel = "en_core_web_lg"
	}
	if c.ClassifierModel == "" {
		c.ClassifierModel = "facebook/bart-large-mnli"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "all-MiniLM-L6-v2"
	}
	if c.EmbeddingDim == 0 {
		c.EmbeddingDim = 384
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 8
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.NERModel != "" {
		if v := os.Getenv(env.NERModel); v != "" {
			c.NERModel = v
		}
	}
	if env.ClassifierModel != "" {
		if v := os.Getenv(env.ClassifierModel); v != "" {
			c.ClassifierModel = v
		}
	}
	if env.EmbeddingModel != "" {
		if v := os.Getenv(env.EmbeddingModel); v != "" {
			c.EmbeddingModel = v
		}
	}
	if env.EmbeddingDim != "" {
		if v := os.Getenv(env.EmbeddingDim); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.EmbeddingDim = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxConcurrent != "" {
		if v := os.Getenv(env.MaxConcurrent); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxConcurrent = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1")
	}
	if c.EmbeddingDim < 1 {
		return fmt.Errorf("embedding_dim must be at least 1")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
