// Package factory constructs storage adapters from configuration.
package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/config"
	"github.com/wallkeep/wallkeep/internal/store"
	storebadger "github.com/wallkeep/wallkeep/internal/store/badger"
	storesqlite "github.com/wallkeep/wallkeep/internal/store/sqlite"
)

// NewBlobStore returns the configured blob store implementation.
func NewBlobStore(cfg *config.Config, log zerolog.Logger) (store.BlobStore, error) {
	if cfg.BlobDriver != "badger" {
		return nil, fmt.Errorf("unknown BLOB_DRIVER: %s", cfg.BlobDriver)
	}
	bs, err := storebadger.Open(cfg.BlobPath())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("driver", cfg.BlobDriver).Str("path", cfg.BlobPath()).Msg("blob store opened")
	return bs, nil
}

// NewMetadataStore returns the configured metadata store implementation.
func NewMetadataStore(cfg *config.Config, log zerolog.Logger) (store.MetadataStore, error) {
	if cfg.MetadataDriver != "sqlite" {
		return nil, fmt.Errorf("unknown METADATA_DRIVER: %s", cfg.MetadataDriver)
	}
	ms, err := storesqlite.NewMetadataStore(cfg.MetadataPath())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("driver", cfg.MetadataDriver).Str("path", cfg.MetadataPath()).Msg("metadata store opened")
	return ms, nil
}
