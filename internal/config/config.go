package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the wallpaper catalog service.
// Environment variables are parsed from the WALLKEEP_ prefix, e.g.
// WALLKEEP_HTTP_PORT, WALLKEEP_REMOTE_BASE_URL.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// DataDir is the root for all local state (blob cache, metadata db).
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// Remote catalog endpoint
	RemoteBaseURL string        `envconfig:"REMOTE_BASE_URL" default:"http://localhost:9000"`
	RemoteTimeout time.Duration `envconfig:"REMOTE_TIMEOUT" default:"30s"`

	// SyncInterval is the cadence of the background update-check worker.
	// Zero disables the worker.
	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"6h"`

	// Locale used when evaluating collection availability.
	Locale string `envconfig:"LOCALE" default:"en"`

	// Storage drivers; "auto" derives the defaults below.
	BlobDriver     string `envconfig:"BLOB_DRIVER" default:"auto"`
	MetadataDriver string `envconfig:"METADATA_DRIVER" default:"auto"`

	// CatalogEnabled gates the catalog API surface; the sync core itself
	// never reads feature configuration.
	CatalogEnabled bool `envconfig:"CATALOG_ENABLED" default:"true"`
}

// ResolveDefaults derives driver choices when set to "auto" and validates them.
func (c *Config) ResolveDefaults() error {
	if c.BlobDriver == "" || c.BlobDriver == "auto" {
		c.BlobDriver = "badger"
	}
	if c.MetadataDriver == "" || c.MetadataDriver == "auto" {
		c.MetadataDriver = "sqlite"
	}

	if c.BlobDriver != "badger" {
		return fmt.Errorf("unsupported BLOB_DRIVER: %s", c.BlobDriver)
	}
	if c.MetadataDriver != "sqlite" {
		return fmt.Errorf("unsupported METADATA_DRIVER: %s", c.MetadataDriver)
	}
	return nil
}

// New creates a Config by parsing WALLKEEP_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("WALLKEEP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("data_dir", cfg.DataDir).
		Str("remote_base_url", cfg.RemoteBaseURL).
		Dur("sync_interval", cfg.SyncInterval).
		Str("locale", cfg.Locale).
		Str("blob_driver", cfg.BlobDriver).
		Str("metadata_driver", cfg.MetadataDriver).
		Bool("catalog_enabled", cfg.CatalogEnabled).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests; dataDir should be
// a per-test temporary directory.
func NewForTesting(dataDir string) *Config {
	cfg := &Config{
		HTTPPort:       8080,
		DataDir:        dataDir,
		RemoteBaseURL:  "http://localhost:9000",
		RemoteTimeout:  5 * time.Second,
		SyncInterval:   0,
		Locale:         "en",
		BlobDriver:     "auto",
		MetadataDriver: "auto",
		CatalogEnabled: true,
	}
	if err := cfg.ResolveDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// BlobPath returns the directory for the badger blob cache.
func (c *Config) BlobPath() string {
	return filepath.Join(c.DataDir, "blobs")
}

// MetadataPath returns the sqlite database file for catalog metadata.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.DataDir, "catalog.db")
}
