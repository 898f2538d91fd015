// Package config loads engine configuration from YAML and provides the
// defaults used when no file is given.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/civicdata/npdb/pkg/npdb/internalerr"
)

// Config holds all engine settings.
type Config struct {
	// DataDir is the root for downloaded and processed files.
	DataDir string `yaml:"data_dir"`
	// DatabasePath is the SQLite file location.
	DatabasePath string `yaml:"database_path"`

	// BaseURL is the bulk-data root the partitions are fetched from.
	BaseURL string `yaml:"base_url"`
	// Regions are the EO BMF partition identifiers to ingest.
	Regions []string `yaml:"regions"`

	// BatchSize is the number of records per upsert transaction.
	BatchSize int `yaml:"batch_size"`
	// FetchTimeoutSeconds bounds each partition download.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	// FetchDelaySeconds is the courtesy pause between partition downloads.
	FetchDelaySeconds int `yaml:"fetch_delay_seconds"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		DataDir:             "data",
		DatabasePath:        "nonprofits.db",
		BaseURL:             "https://www.irs.gov/pub/irs-soi",
		Regions:             []string{"eo1", "eo2", "eo3", "eo4"},
		BatchSize:           1000,
		FetchTimeoutSeconds: 30,
		FetchDelaySeconds:   1,
	}
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("%w: batch_size must be positive", internalerr.ErrInvalidConfig)
	}
	if len(cfg.Regions) == 0 {
		return Config{}, fmt.Errorf("%w: at least one region required", internalerr.ErrInvalidConfig)
	}

	return cfg, nil
}

// RawDir is where downloaded partitions land.
func (c Config) RawDir() string {
	return filepath.Join(c.DataDir, "raw")
}

// ProcessedDir is where post-processing artifacts land.
func (c Config) ProcessedDir() string {
	return filepath.Join(c.DataDir, "processed")
}

// FetchTimeout returns the per-download timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// FetchDelay returns the inter-download pause as a duration.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.FetchDelaySeconds) * time.Second
}

// EnsureDirectories creates the data directory tree.
func (c Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.RawDir(), c.ProcessedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
