// Package config loads application configuration from a YAML file with
// .env and environment-variable overrides.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIURL is the hard startup error for an unconfigured store
// endpoint.
var ErrMissingAPIURL = errors.New("DIRECTORY_API_URL is required")

// Config holds all configuration for the import tooling.
type Config struct {
	Import ImportConfig `yaml:"import"`
	API    APIConfig    `yaml:"api"`
	S3     S3Config     `yaml:"s3"`
	Redis  RedisConfig  `yaml:"redis"`
}

// ImportConfig holds pipeline settings.
type ImportConfig struct {
	Directory         string `yaml:"directory"`
	ChunkSize         int    `yaml:"chunk_size"`
	AbortThresholdPct int    `yaml:"abort_threshold_pct"`
	ErrorDetailCap    int    `yaml:"error_detail_cap"`
	Delimiter         string `yaml:"delimiter"`
	SkipDuplicates    bool   `yaml:"skip_duplicates"`
}

// APIConfig holds the directory API endpoint settings.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// S3Config enables bucket discovery for `import --all` when set.
type S3Config struct {
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// RedisConfig enables progress publishing when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// Load reads configuration from a YAML file. A missing file yields
// defaults only; a malformed file is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if cfg.Import.Directory == "" {
		cfg.Import.Directory = "./imports"
	}
	if cfg.Import.ChunkSize == 0 {
		cfg.Import.ChunkSize = 100
	}
	if cfg.Import.AbortThresholdPct == 0 {
		cfg.Import.AbortThresholdPct = 25
	}
	if cfg.Import.ErrorDetailCap == 0 {
		cfg.Import.ErrorDetailCap = 50
	}
	if cfg.Import.Delimiter == "" {
		cfg.Import.Delimiter = ","
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars in deployment. DIRECTORY_API_URL must
// resolve or startup fails.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DIRECTORY_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("IMPORT_DIR"); v != "" {
		cfg.Import.Directory = v
	}
	if v := os.Getenv("IMPORT_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Import.ChunkSize = n
		}
	}
	if v := os.Getenv("IMPORT_ABORT_THRESHOLD_PCT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Import.AbortThresholdPct = n
		}
	}
	if v := os.Getenv("IMPORT_S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := os.Getenv("IMPORT_S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	if cfg.API.BaseURL == "" {
		return nil, ErrMissingAPIURL
	}

	return cfg, nil
}
